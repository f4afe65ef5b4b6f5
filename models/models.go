package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that can own brands and code templates
type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	ProfileImage string    `json:"profile_image"`
	IsBlocked    bool      `json:"is_blocked"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	OTP          string    `json:"-"`
	OTPExpiry    time.Time `json:"-"`
	LastLoginAt  time.Time `json:"last_login_at"`
	GoogleID     string    `gorm:"unique;default:null" json:"google_id"`

	Brands []Brand `json:"brands,omitempty" gorm:"foreignKey:CreatedBy"`
}

// Brand represents an event organizer (venue, promoter, collective)
type Brand struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Username    string `json:"username" gorm:"uniqueIndex"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	CreatedBy   uint   `json:"created_by" gorm:"index;not null"`

	Members []BrandMember `json:"members,omitempty" gorm:"foreignKey:BrandID"`
	Events  []Event       `json:"events,omitempty" gorm:"foreignKey:BrandID"`
}

// BrandMember links a user to a brand as a team member
type BrandMember struct {
	gorm.Model
	BrandID uint   `json:"brand_id" gorm:"uniqueIndex:idx_brand_members_brand_user"`
	UserID  uint   `json:"user_id" gorm:"uniqueIndex:idx_brand_members_brand_user"`
	Role    string `json:"role" gorm:"default:'member'"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Event represents a single event or the root of a weekly series.
// A generated occurrence of a weekly series carries ParentEventID; code
// activations are only ever stored against the parent.
type Event struct {
	gorm.Model
	BrandID       uint      `json:"brand_id" gorm:"index;not null"`
	Title         string    `json:"title" gorm:"not null"`
	Subtitle      string    `json:"subtitle"`
	Location      string    `json:"location"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsWeekly      bool      `json:"is_weekly" gorm:"default:false"`
	WeekNumber    int       `json:"week_number" gorm:"default:0"`
	ParentEventID *uint     `json:"parent_event_id" gorm:"index"`
	FlyerURL      string    `json:"flyer_url"`
	IsLive        bool      `json:"is_live" gorm:"default:false"`

	Brand Brand `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
}

// IsChildOccurrence reports whether the event is a generated occurrence
// of a weekly series rather than a series root.
func (e *Event) IsChildOccurrence() bool {
	return e.ParentEventID != nil && *e.ParentEventID != 0
}

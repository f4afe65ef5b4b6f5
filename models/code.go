package models

import (
	"time"

	"gorm.io/gorm"
)

// Code statuses
const (
	CodeStatusActive    = "active"
	CodeStatusCheckedIn = "checked_in"
	CodeStatusCancelled = "cancelled"
)

// Code is an issued guest/ticket code. Issuance reads the flat CodeSetting
// table, never the template graph, which is why the sync bridge keeps the
// two in step.
type Code struct {
	gorm.Model
	EventID       uint       `json:"event_id" gorm:"index;not null"`
	CodeSettingID uint       `json:"code_setting_id" gorm:"index;not null"`
	IssuedBy      uint       `json:"issued_by" gorm:"index"`
	Value         string     `json:"value" gorm:"uniqueIndex;not null"`
	GuestName     string     `json:"guest_name"`
	GuestEmail    string     `json:"guest_email"`
	GuestPhone    string     `json:"guest_phone"`
	Pax           int        `json:"pax" gorm:"default:1"`
	PaxChecked    int        `json:"pax_checked" gorm:"default:0"`
	Status        string     `json:"status" gorm:"default:'active'"`
	CheckedInAt   *time.Time `json:"checked_in_at"`
	EmailedAt     *time.Time `json:"emailed_at"`

	Event       Event       `json:"event,omitempty" gorm:"foreignKey:EventID"`
	CodeSetting CodeSetting `json:"code_setting,omitempty" gorm:"foreignKey:CodeSettingID"`
}

// TicketOrder statuses
const (
	TicketOrderStatusPending = "Pending"
	TicketOrderStatusPaid    = "Paid"
	TicketOrderStatusFailed  = "Failed"
)

// TicketOrder is a paid-ticket checkout against a ticket-type code setting.
// Codes for the order are issued once payment is verified.
type TicketOrder struct {
	gorm.Model
	EventID         uint    `json:"event_id" gorm:"index;not null"`
	CodeSettingID   uint    `json:"code_setting_id" gorm:"not null"`
	BuyerName       string  `json:"buyer_name"`
	BuyerEmail      string  `json:"buyer_email" gorm:"not null"`
	Quantity        int     `json:"quantity" gorm:"default:1"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status" gorm:"default:'Pending'"`
	RazorpayOrderID string  `json:"razorpay_order_id"`
	PaymentID       string  `json:"payment_id"`
}

package models

import (
	"gorm.io/gorm"
)

// Code setting types. Non-custom types predate the template system and are
// limited to one row per event each; template-originated rows use
// CodeSettingTypeCustom.
const (
	CodeSettingTypeGuest     = "guest"
	CodeSettingTypeFriends   = "friends"
	CodeSettingTypeTicket    = "ticket"
	CodeSettingTypeTable     = "table"
	CodeSettingTypeBackstage = "backstage"
	CodeSettingTypeBattle    = "battle"
	CodeSettingTypeCustom    = "custom"
)

// ValidCodeSettingTypes holds every accepted value of CodeSetting.Type.
var ValidCodeSettingTypes = map[string]bool{
	CodeSettingTypeGuest:     true,
	CodeSettingTypeFriends:   true,
	CodeSettingTypeTicket:    true,
	CodeSettingTypeTable:     true,
	CodeSettingTypeBackstage: true,
	CodeSettingTypeBattle:    true,
	CodeSettingTypeCustom:    true,
}

// CodeSetting is the flat per-event configuration row the code issuance
// path reads. Rows are written by the template sync bridge once a template
// is attached to the event's brand, or directly by the legacy settings
// endpoints for rows that were never migrated. CodeTemplateID is nil until
// a row is linked to a template; after that the bridge owns the row.
type CodeSetting struct {
	gorm.Model
	EventID        uint    `json:"event_id" gorm:"index;not null"`
	CodeTemplateID *uint   `json:"code_template_id" gorm:"index"`
	Type           string  `json:"type" gorm:"default:'custom'"`
	Name           string  `json:"name" gorm:"not null"`
	Condition      string  `json:"condition"`
	Note           string  `json:"note"`
	MaxPax         int     `json:"max_pax" gorm:"default:1"`
	Limit          int     `json:"limit" gorm:"default:0"` // 0 = unlimited
	Price          float64 `json:"price" gorm:"default:0"` // ticket-type rows only
	Color          string  `json:"color" gorm:"default:'2196F3'"`
	Icon           string  `json:"icon" gorm:"default:'RiCodeLine'"`
	RequireEmail   bool    `json:"require_email" gorm:"default:true"`
	RequirePhone   bool    `json:"require_phone" gorm:"default:false"`
	IsEnabled      bool    `json:"is_enabled" gorm:"default:false"`
	IsEditable     bool    `json:"is_editable" gorm:"default:false"`
}

// IsLinked reports whether the row has been linked to a code template and
// is therefore maintained by the sync bridge.
func (s *CodeSetting) IsLinked() bool {
	return s.CodeTemplateID != nil && *s.CodeTemplateID != 0
}

// IsCustomType reports whether the row is template-originated rather than
// one of the fixed legacy types.
func (s *CodeSetting) IsCustomType() bool {
	return s.Type == CodeSettingTypeCustom
}

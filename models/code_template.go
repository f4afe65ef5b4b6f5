package models

import (
	"gorm.io/gorm"
)

// Factory appearance values applied when a template is created without an
// explicit color or icon. Merge logic treats them as "not chosen".
const (
	DefaultTemplateColor = "2196F3"
	DefaultTemplateIcon  = "RiCodeLine"
)

// CodeTemplate is a reusable code definition owned by a user. The same
// template can be attached to any number of brands and enabled per event.
type CodeTemplate struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"uniqueIndex:idx_code_templates_user_name;not null"`
	Name         string `json:"name" gorm:"uniqueIndex:idx_code_templates_user_name;not null"`
	Condition    string `json:"condition"`
	Note         string `json:"note"`
	MaxPax       int    `json:"max_pax" gorm:"default:1"`
	DefaultLimit int    `json:"default_limit" gorm:"default:0"` // 0 = unlimited
	Color        string `json:"color" gorm:"default:'2196F3'"`
	Icon         string `json:"icon" gorm:"default:'RiCodeLine'"`
	RequireEmail bool   `json:"require_email" gorm:"default:true"`
	RequirePhone bool   `json:"require_phone" gorm:"default:false"`
	SortOrder    int    `json:"sort_order" gorm:"default:0"`

	Attachments []CodeBrandAttachment `json:"attachments,omitempty" gorm:"foreignKey:CodeTemplateID"`
}

// CodeBrandAttachment records that a template is usable under a brand.
// When IsGlobalForBrand is set the template is implicitly enabled for every
// parent event of the brand; otherwise per-event EventCodeActivation rows
// decide.
type CodeBrandAttachment struct {
	gorm.Model
	CodeTemplateID   uint `json:"code_template_id" gorm:"uniqueIndex:idx_code_brand_attachments_template_brand;not null"`
	BrandID          uint `json:"brand_id" gorm:"uniqueIndex:idx_code_brand_attachments_template_brand;not null"`
	IsGlobalForBrand bool `json:"is_global_for_brand" gorm:"default:true"`

	CodeTemplate CodeTemplate `json:"code_template,omitempty" gorm:"foreignKey:CodeTemplateID"`
	Brand        Brand        `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
}

// EventCodeActivation enables or overrides a template for one parent event.
// EventID always refers to a weekly-series root, never a generated child
// occurrence. Override fields are nil when the template default applies.
type EventCodeActivation struct {
	gorm.Model
	EventID           uint    `json:"event_id" gorm:"uniqueIndex:idx_event_code_activations_event_template;not null"`
	CodeTemplateID    uint    `json:"code_template_id" gorm:"uniqueIndex:idx_event_code_activations_event_template;not null"`
	IsEnabled         bool    `json:"is_enabled" gorm:"default:true"`
	ApplyToChildren   bool    `json:"apply_to_children" gorm:"default:true"`
	ConditionOverride *string `json:"condition_override"`
	NoteOverride      *string `json:"note_override"`
	MaxPaxOverride    *int    `json:"max_pax_override"`
	LimitOverride     *int    `json:"limit_override"`

	CodeTemplate CodeTemplate `json:"code_template,omitempty" gorm:"foreignKey:CodeTemplateID"`
}

// HasOverrides reports whether any of the per-event override fields is set.
func (a *EventCodeActivation) HasOverrides() bool {
	return a.ConditionOverride != nil || a.NoteOverride != nil ||
		a.MaxPaxOverride != nil || a.LimitOverride != nil
}

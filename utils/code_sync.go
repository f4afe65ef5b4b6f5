package utils

import (
	"errors"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"gorm.io/gorm"
)

// SyncCodeTemplateToCodeSettings makes sure a single CodeSetting row exists
// for the event reflecting the current state of the template. Lookup order:
//
//  1. a row already linked to the template gets all mirrored fields
//     overwritten,
//  2. an unlinked row with the same name gets linked (one-way migration of
//     a setting the user configured before templates existed),
//  3. otherwise a new custom-type row is created.
//
// Errors are logged and swallowed; callers treat sync as best-effort and
// must not abort the triggering operation when one event fails. Returns the
// synced row, or nil on any failure.
func SyncCodeTemplateToCodeSettings(templateID, eventID uint) *models.CodeSetting {
	db := config.DB

	var template models.CodeTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		LogError("Code sync: template %d not found for event %d: %v", templateID, eventID, err)
		return nil
	}

	// 1. Row already linked to this template
	var setting models.CodeSetting
	err := db.Where("event_id = ? AND code_template_id = ?", eventID, templateID).
		First(&setting).Error
	if err == nil {
		applyTemplateToSetting(&template, &setting)
		if err := db.Save(&setting).Error; err != nil {
			LogError("Code sync: failed to update linked setting %d: %v", setting.ID, err)
			return nil
		}
		return &setting
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		LogError("Code sync: linked lookup failed for template %d, event %d: %v", templateID, eventID, err)
		return nil
	}

	// 2. Unlinked legacy row with the same name. Both NULL and zero count
	// as unlinked; rows written before the template system carried either.
	err = db.Where("event_id = ? AND name = ? AND (code_template_id IS NULL OR code_template_id = 0)",
		eventID, template.Name).
		First(&setting).Error
	if err == nil {
		linkTemplateToLegacySetting(&template, &setting)
		if err := db.Save(&setting).Error; err != nil {
			LogError("Code sync: failed to migrate legacy setting %d: %v", setting.ID, err)
			return nil
		}
		LogInfo("Code sync: migrated legacy setting %d (%s) to template %d", setting.ID, setting.Name, templateID)
		return &setting
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		LogError("Code sync: legacy lookup failed for template %d, event %d: %v", templateID, eventID, err)
		return nil
	}

	// 3. No match, create a fresh row
	templateIDCopy := template.ID
	setting = models.CodeSetting{
		EventID:        eventID,
		CodeTemplateID: &templateIDCopy,
		Type:           models.CodeSettingTypeCustom,
		Name:           template.Name,
		Condition:      template.Condition,
		Note:           template.Note,
		MaxPax:         template.MaxPax,
		Limit:          template.DefaultLimit,
		Color:          template.Color,
		Icon:           template.Icon,
		RequireEmail:   template.RequireEmail,
		RequirePhone:   template.RequirePhone,
		IsEnabled:      true,
		IsEditable:     true,
	}
	if err := db.Create(&setting).Error; err != nil {
		LogError("Code sync: failed to create setting for template %d, event %d: %v", templateID, eventID, err)
		return nil
	}
	// Follow-up save writes the zero-value fields that column defaults
	// swallowed on create (a template with require_email off must win)
	if err := db.Save(&setting).Error; err != nil {
		LogError("Code sync: failed to finalize setting %d: %v", setting.ID, err)
		return nil
	}
	return &setting
}

// applyTemplateToSetting overwrites all mirrored fields of an already
// linked setting with the template's current values.
func applyTemplateToSetting(template *models.CodeTemplate, setting *models.CodeSetting) {
	setting.Name = template.Name
	setting.Condition = template.Condition
	setting.Note = template.Note
	setting.MaxPax = template.MaxPax
	setting.Limit = template.DefaultLimit
	setting.Color = template.Color
	setting.Icon = template.Icon
	setting.RequireEmail = template.RequireEmail
	setting.RequirePhone = template.RequirePhone
	setting.IsEnabled = true
	setting.IsEditable = true
}

// linkTemplateToLegacySetting promotes an unlinked legacy row to a
// bridge-managed one. Template values win, but empty template fields keep
// whatever the user configured on the legacy row.
func linkTemplateToLegacySetting(template *models.CodeTemplate, setting *models.CodeSetting) {
	templateID := template.ID
	setting.CodeTemplateID = &templateID
	if template.Condition != "" {
		setting.Condition = template.Condition
	}
	if template.Note != "" {
		setting.Note = template.Note
	}
	if template.MaxPax > 0 {
		setting.MaxPax = template.MaxPax
	}
	if template.DefaultLimit > 0 {
		setting.Limit = template.DefaultLimit
	}
	// Column defaults fill color and icon at insert, so the factory values
	// mean the owner never picked one and the legacy appearance stays.
	if template.Color != "" && template.Color != models.DefaultTemplateColor {
		setting.Color = template.Color
	}
	if template.Icon != "" && template.Icon != models.DefaultTemplateIcon {
		setting.Icon = template.Icon
	}
	setting.RequireEmail = template.RequireEmail
	setting.RequirePhone = template.RequirePhone
	setting.IsEnabled = true
	setting.IsEditable = true
}

// RemoveCodeSettingsForTemplate deletes the CodeSetting row for the
// (event, template) pair, if any. Best-effort cleanup: an orphaned row is
// cosmetic since issuance re-checks IsEnabled, so errors are logged and
// swallowed. Returns whether the delete succeeded.
func RemoveCodeSettingsForTemplate(templateID, eventID uint) bool {
	err := config.DB.
		Where("event_id = ? AND code_template_id = ?", eventID, templateID).
		Delete(&models.CodeSetting{}).Error
	if err != nil {
		LogError("Code sync: failed to remove setting for template %d, event %d: %v", templateID, eventID, err)
		return false
	}
	return true
}

// MigrationResult reports what MigrateEventCodeSettings did for one event.
type MigrationResult struct {
	Migrated int `json:"migrated"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
}

// MigrateEventCodeSettings links every globally attached template of the
// event's brand to a CodeSetting row, creating rows where none exist.
// Idempotent repair for events created after their brand's templates, where
// the write-time sync never ran.
func MigrateEventCodeSettings(eventID uint) (*MigrationResult, error) {
	db := config.DB

	var event models.Event
	if err := db.First(&event, eventID).Error; err != nil {
		return nil, NotFoundError("Event not found", err)
	}

	var attachments []models.CodeBrandAttachment
	if err := db.Preload("CodeTemplate").
		Where("brand_id = ? AND is_global_for_brand = ?", event.BrandID, true).
		Find(&attachments).Error; err != nil {
		return nil, WrapError(err, "failed to load brand attachments")
	}

	result := &MigrationResult{}
	for _, attachment := range attachments {
		template := attachment.CodeTemplate
		if template.ID == 0 {
			result.Skipped++
			continue
		}

		var existing models.CodeSetting
		err := db.Where("event_id = ? AND code_template_id = ?", eventID, template.ID).
			First(&existing).Error
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			LogError("Migration: linked lookup failed for template %d, event %d: %v", template.ID, eventID, err)
			result.Skipped++
			continue
		}

		err = db.Where("event_id = ? AND name = ? AND (code_template_id IS NULL OR code_template_id = 0)",
			eventID, template.Name).
			First(&existing).Error
		if err == nil {
			linkTemplateToLegacySetting(&template, &existing)
			if err := db.Save(&existing).Error; err != nil {
				LogError("Migration: failed to link setting %d: %v", existing.ID, err)
				result.Skipped++
				continue
			}
			result.Migrated++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			LogError("Migration: legacy lookup failed for template %d, event %d: %v", template.ID, eventID, err)
			result.Skipped++
			continue
		}

		if SyncCodeTemplateToCodeSettings(template.ID, eventID) != nil {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

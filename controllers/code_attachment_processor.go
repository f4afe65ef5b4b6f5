package controllers

import (
	"errors"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"gorm.io/gorm"
)

// AttachmentInput is the desired attachment state for one brand, as
// submitted with a template create/update request. EnabledEvents is only
// meaningful when IsGlobalForBrand is false; nil means "leave per-event
// activations as they are", an empty list disables everything.
type AttachmentInput struct {
	BrandID          uint    `json:"brand_id" binding:"required"`
	IsGlobalForBrand bool    `json:"is_global_for_brand"`
	EnabledEvents    *[]uint `json:"enabled_events"`
	ApplyToChildren  *bool   `json:"apply_to_children"`
}

// SyncReport aggregates what attachment processing did, including the
// sync failures that are otherwise only logged. The triggering request
// still succeeds on partial failure; the report just makes it visible.
type SyncReport struct {
	BrandsAttached  int    `json:"brands_attached"`
	BrandsDetached  int    `json:"brands_detached"`
	EventsSynced    int    `json:"events_synced"`
	EventsCleared   int    `json:"events_cleared"`
	SyncFailures    int    `json:"sync_failures"`
	SkippedBrandIDs []uint `json:"skipped_brand_ids,omitempty"`
}

// ProcessAttachments reconciles the desired set of brand attachments for a
// template against the current set. Attachments for brands the user cannot
// access are silently skipped, so a stale brand list degrades to partial
// success instead of an error. The steps are plain sequential writes with
// no transaction: a failure partway leaves earlier brands applied, which
// is accepted since the settings table is a best-effort projection.
func ProcessAttachments(templateID uint, attachments []AttachmentInput, userID uint) *SyncReport {
	report := &SyncReport{}
	db := config.DB

	accessibleIDs, err := utils.GetAccessibleBrandIDs(userID)
	if err != nil {
		utils.LogError("Attachment processing: failed to resolve brands for user ID: %d: %v", userID, err)
		return report
	}
	accessible := make(map[uint]bool, len(accessibleIDs))
	for _, id := range accessibleIDs {
		accessible[id] = true
	}

	desired := make(map[uint]AttachmentInput, len(attachments))
	for _, attachment := range attachments {
		if !accessible[attachment.BrandID] {
			utils.LogInfo("Attachment processing: skipping inaccessible brand ID: %d for user ID: %d", attachment.BrandID, userID)
			report.SkippedBrandIDs = append(report.SkippedBrandIDs, attachment.BrandID)
			continue
		}
		desired[attachment.BrandID] = attachment
	}

	// Tear down brands dropped from the desired set
	var current []models.CodeBrandAttachment
	if err := db.Where("code_template_id = ?", templateID).Find(&current).Error; err != nil {
		utils.LogError("Attachment processing: failed to load current attachments for template ID: %d: %v", templateID, err)
		return report
	}
	for _, attachment := range current {
		if _, keep := desired[attachment.BrandID]; keep {
			continue
		}
		if !accessible[attachment.BrandID] {
			// Never tear down brands the acting user cannot see
			continue
		}
		detachBrand(templateID, attachment.BrandID, report)
	}

	// Apply the desired set
	for brandID, input := range desired {
		applyAttachment(templateID, brandID, input, report)
	}

	utils.LogInfo("Attachment processing for template ID: %d - attached: %d, detached: %d, synced: %d, failures: %d",
		templateID, report.BrandsAttached, report.BrandsDetached, report.EventsSynced, report.SyncFailures)
	return report
}

// detachBrand removes the attachment, all activations for the brand's
// events, and every synced settings row. Full teardown.
func detachBrand(templateID, brandID uint, report *SyncReport) {
	db := config.DB

	if err := db.Where("code_template_id = ? AND brand_id = ?", templateID, brandID).
		Delete(&models.CodeBrandAttachment{}).Error; err != nil {
		utils.LogError("Attachment processing: failed to delete attachment for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
		report.SyncFailures++
		return
	}

	var eventIDs []uint
	if err := db.Model(&models.Event{}).Where("brand_id = ?", brandID).
		Pluck("id", &eventIDs).Error; err != nil {
		utils.LogError("Attachment processing: failed to list events for brand ID: %d: %v", brandID, err)
		report.SyncFailures++
		return
	}

	if len(eventIDs) > 0 {
		if err := db.Where("code_template_id = ? AND event_id IN ?", templateID, eventIDs).
			Delete(&models.EventCodeActivation{}).Error; err != nil {
			utils.LogError("Attachment processing: failed to delete activations for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
			report.SyncFailures++
		}
		for _, eventID := range eventIDs {
			if utils.RemoveCodeSettingsForTemplate(templateID, eventID) {
				report.EventsCleared++
			} else {
				report.SyncFailures++
			}
		}
	}
	report.BrandsDetached++
}

// applyAttachment upserts one brand attachment and reconciles the brand's
// activation and settings rows with the requested mode.
func applyAttachment(templateID, brandID uint, input AttachmentInput, report *SyncReport) {
	db := config.DB

	var attachment models.CodeBrandAttachment
	err := db.Where("code_template_id = ? AND brand_id = ?", templateID, brandID).
		First(&attachment).Error
	switch {
	case err == nil:
		attachment.IsGlobalForBrand = input.IsGlobalForBrand
		if err := db.Save(&attachment).Error; err != nil {
			utils.LogError("Attachment processing: failed to update attachment for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
			report.SyncFailures++
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		attachment = models.CodeBrandAttachment{
			CodeTemplateID: templateID,
			BrandID:        brandID,
		}
		if err := db.Create(&attachment).Error; err != nil {
			utils.LogError("Attachment processing: failed to create attachment for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
			report.SyncFailures++
			return
		}
		// Save after create so a false flag is written despite the column default
		attachment.IsGlobalForBrand = input.IsGlobalForBrand
		if err := db.Save(&attachment).Error; err != nil {
			utils.LogError("Attachment processing: failed to finalize attachment for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
			report.SyncFailures++
			return
		}
	default:
		utils.LogError("Attachment processing: attachment lookup failed for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
		report.SyncFailures++
		return
	}
	report.BrandsAttached++

	parentIDs, err := parentEventIDs(brandID)
	if err != nil {
		utils.LogError("Attachment processing: failed to list parent events for brand ID: %d: %v", brandID, err)
		report.SyncFailures++
		return
	}

	if input.IsGlobalForBrand {
		// Global mode makes per-event activation rows meaningless
		if len(parentIDs) > 0 {
			if err := db.Where("code_template_id = ? AND event_id IN ?", templateID, parentIDs).
				Delete(&models.EventCodeActivation{}).Error; err != nil {
				utils.LogError("Attachment processing: failed to clear activations for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
				report.SyncFailures++
			}
		}
		for _, eventID := range parentIDs {
			if utils.SyncCodeTemplateToCodeSettings(templateID, eventID) != nil {
				report.EventsSynced++
			} else {
				report.SyncFailures++
			}
		}
		return
	}

	if input.EnabledEvents == nil {
		// Caller did not send an event list; leave activations untouched
		return
	}

	enabled := make(map[uint]bool)
	validParent := make(map[uint]bool, len(parentIDs))
	for _, id := range parentIDs {
		validParent[id] = true
	}
	for _, eventID := range *input.EnabledEvents {
		if validParent[eventID] {
			enabled[eventID] = true
		}
	}

	// Deactivate events dropped from the list
	var currentActivations []models.EventCodeActivation
	if len(parentIDs) > 0 {
		if err := db.Where("code_template_id = ? AND event_id IN ?", templateID, parentIDs).
			Find(&currentActivations).Error; err != nil {
			utils.LogError("Attachment processing: failed to load activations for template ID: %d, brand ID: %d: %v", templateID, brandID, err)
			report.SyncFailures++
			return
		}
	}
	for _, activation := range currentActivations {
		if enabled[activation.EventID] {
			continue
		}
		if err := db.Delete(&activation).Error; err != nil {
			utils.LogError("Attachment processing: failed to delete activation ID: %d: %v", activation.ID, err)
			report.SyncFailures++
			continue
		}
		if utils.RemoveCodeSettingsForTemplate(templateID, activation.EventID) {
			report.EventsCleared++
		} else {
			report.SyncFailures++
		}
	}

	if len(enabled) == 0 {
		// Nothing should be active for this brand
		for _, eventID := range parentIDs {
			if utils.RemoveCodeSettingsForTemplate(templateID, eventID) {
				report.EventsCleared++
			} else {
				report.SyncFailures++
			}
		}
		return
	}

	for eventID := range enabled {
		if err := upsertActivation(templateID, eventID, input.ApplyToChildren); err != nil {
			utils.LogError("Attachment processing: failed to upsert activation for template ID: %d, event ID: %d: %v", templateID, eventID, err)
			report.SyncFailures++
			continue
		}
		if utils.SyncCodeTemplateToCodeSettings(templateID, eventID) != nil {
			report.EventsSynced++
		} else {
			report.SyncFailures++
		}
	}
}

// parentEventIDs lists the brand's parent events (series roots and
// standalone events)
func parentEventIDs(brandID uint) ([]uint, error) {
	var ids []uint
	err := config.DB.Model(&models.Event{}).
		Where("brand_id = ? AND parent_event_id IS NULL", brandID).
		Pluck("id", &ids).Error
	return ids, err
}

// upsertActivation enables the template for one event. A nil applyToChildren
// keeps the stored value on existing rows and defaults new rows to true.
func upsertActivation(templateID, eventID uint, applyToChildren *bool) error {
	db := config.DB

	var activation models.EventCodeActivation
	err := db.Where("event_id = ? AND code_template_id = ?", eventID, templateID).
		First(&activation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		activation = models.EventCodeActivation{
			EventID:        eventID,
			CodeTemplateID: templateID,
		}
		if err := db.Create(&activation).Error; err != nil {
			return err
		}
		activation.ApplyToChildren = true
	} else if err != nil {
		return err
	}

	activation.IsEnabled = true
	if applyToChildren != nil {
		activation.ApplyToChildren = *applyToChildren
	}
	// Save instead of create-with-values; column defaults would swallow a
	// zero-value write
	return db.Save(&activation).Error
}

package controllers

import (
	"errors"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadEventWithAccess fetches the event and enforces brand access,
// responding on failure. Returns the event and whether to continue.
func loadEventWithAccess(c *gin.Context, eventID uint) (*models.Event, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	var event models.Event
	if err := config.DB.First(&event, eventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return nil, false
	}
	if !utils.HasBrandAccess(user.ID, event.BrandID) {
		utils.LogError("User ID: %d has no access to brand ID: %d", user.ID, event.BrandID)
		utils.Forbidden(c, "You don't have access to this brand")
		return nil, false
	}
	return &event, true
}

// GetEventCodes returns the full effective code view for an event,
// including disabled templates and override metadata. Used by the settings
// UI, which must see the template graph's true state even when the
// settings projection is stale.
func GetEventCodes(c *gin.Context) {
	utils.LogInfo("GetEventCodes called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	codes, err := utils.ResolveEventCodes(eventID)
	if err != nil {
		utils.LogError("Failed to resolve codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to resolve event codes", nil)
		return
	}

	utils.Success(c, "Event codes fetched successfully", gin.H{
		"codes": codes,
	})
}

// ToggleEventCodeRequest represents the request body for enabling or
// disabling one template for one event
type ToggleEventCodeRequest struct {
	CodeTemplateID    uint    `json:"code_template_id" binding:"required"`
	IsEnabled         bool    `json:"is_enabled"`
	ApplyToChildren   *bool   `json:"apply_to_children"`
	ConditionOverride *string `json:"condition_override"`
	NoteOverride      *string `json:"note_override"`
	MaxPaxOverride    *int    `json:"max_pax_override"`
	LimitOverride     *int    `json:"limit_override"`
}

// ToggleEventCode enables or disables a template for one event, with
// optional overrides on enable
func ToggleEventCode(c *gin.Context) {
	utils.LogInfo("ToggleEventCode called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	event, ok := loadEventWithAccess(c, eventID)
	if !ok {
		return
	}

	var req ToggleEventCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := toggleCodeForEvent(event, &req); err != nil {
		if appErr := utils.GetAppError(err); appErr != nil {
			utils.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		utils.LogError("Failed to toggle template ID: %d for event ID: %d: %v", req.CodeTemplateID, eventID, err)
		utils.InternalServerError(c, "Failed to update event code", err.Error())
		return
	}

	utils.LogInfo("Toggled template ID: %d for event ID: %d - enabled: %v", req.CodeTemplateID, eventID, req.IsEnabled)
	utils.Success(c, "Event code updated successfully", gin.H{
		"code_template_id": req.CodeTemplateID,
		"is_enabled":       req.IsEnabled,
	})
}

// toggleCodeForEvent applies one enable/disable change against the parent
// event. Enabling upserts an activation and syncs the settings projection.
// Disabling under a non-global attachment deletes the activation; under a
// global attachment an explicit disabled row is kept, since absence would
// mean "enabled by default". Either way the settings row goes away.
func toggleCodeForEvent(event *models.Event, req *ToggleEventCodeRequest) error {
	db := config.DB
	parentID := utils.ResolveParentEventID(event)

	var attachment models.CodeBrandAttachment
	err := db.Where("code_template_id = ? AND brand_id = ?", req.CodeTemplateID, event.BrandID).
		First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("Code template is not attached to this brand", err)
	}
	if err != nil {
		return err
	}

	var activation models.EventCodeActivation
	err = db.Where("event_id = ? AND code_template_id = ?", parentID, req.CodeTemplateID).
		First(&activation).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if req.IsEnabled {
		if !found {
			activation = models.EventCodeActivation{
				EventID:        parentID,
				CodeTemplateID: req.CodeTemplateID,
			}
			if err := db.Create(&activation).Error; err != nil {
				return err
			}
		}
		activation.IsEnabled = true
		if req.ApplyToChildren != nil {
			activation.ApplyToChildren = *req.ApplyToChildren
		} else if !found {
			activation.ApplyToChildren = true
		}
		activation.ConditionOverride = req.ConditionOverride
		activation.NoteOverride = req.NoteOverride
		activation.MaxPaxOverride = req.MaxPaxOverride
		activation.LimitOverride = req.LimitOverride

		// Save after create so zero values are written despite column
		// defaults
		if err := db.Save(&activation).Error; err != nil {
			return err
		}
		utils.SyncCodeTemplateToCodeSettings(req.CodeTemplateID, parentID)
		return nil
	}

	// Disable
	if attachment.IsGlobalForBrand {
		if !found {
			activation = models.EventCodeActivation{
				EventID:        parentID,
				CodeTemplateID: req.CodeTemplateID,
			}
			if err := db.Create(&activation).Error; err != nil {
				return err
			}
		}
		// Explicit update; the column default would swallow a zero-value
		// write on create
		if err := db.Model(&activation).Update("is_enabled", false).Error; err != nil {
			return err
		}
	} else if found {
		if err := db.Delete(&activation).Error; err != nil {
			return err
		}
	}
	utils.RemoveCodeSettingsForTemplate(req.CodeTemplateID, parentID)
	return nil
}

// BulkToggleRequest represents the request body for toggling several
// templates at once
type BulkToggleRequest struct {
	Codes []ToggleEventCodeRequest `json:"codes" binding:"required,dive"`
}

// BulkToggleEventCodes toggles multiple templates for one event. Each
// entry is applied independently; failures are collected, not aborting.
func BulkToggleEventCodes(c *gin.Context) {
	utils.LogInfo("BulkToggleEventCodes called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	event, ok := loadEventWithAccess(c, eventID)
	if !ok {
		return
	}

	var req BulkToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	applied := 0
	failed := make([]uint, 0)
	for i := range req.Codes {
		if err := toggleCodeForEvent(event, &req.Codes[i]); err != nil {
			utils.LogError("Bulk toggle failed for template ID: %d, event ID: %d: %v", req.Codes[i].CodeTemplateID, eventID, err)
			failed = append(failed, req.Codes[i].CodeTemplateID)
			continue
		}
		applied++
	}

	utils.LogInfo("Bulk toggle for event ID: %d - applied: %d, failed: %d", eventID, applied, len(failed))
	utils.Success(c, "Event codes updated", gin.H{
		"applied":             applied,
		"failed_template_ids": failed,
	})
}

// UpdateOverridesRequest represents the request body for setting
// per-event override fields
type UpdateOverridesRequest struct {
	ConditionOverride *string `json:"condition_override"`
	NoteOverride      *string `json:"note_override"`
	MaxPaxOverride    *int    `json:"max_pax_override"`
	LimitOverride     *int    `json:"limit_override"`
}

// UpdateCodeOverrides sets override fields on an activation
func UpdateCodeOverrides(c *gin.Context) {
	utils.LogInfo("UpdateCodeOverrides called")

	activationID, ok := parseIDParam(c, "activationId")
	if !ok {
		return
	}

	activation, ok := loadActivationWithAccess(c, activationID)
	if !ok {
		return
	}

	var req UpdateOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.MaxPaxOverride != nil && *req.MaxPaxOverride < 1 {
		utils.BadRequest(c, "max_pax_override must be at least 1", nil)
		return
	}
	if req.LimitOverride != nil && *req.LimitOverride < 0 {
		utils.BadRequest(c, "limit_override cannot be negative", nil)
		return
	}

	// Partial update; fields absent from the request keep their stored value
	if req.ConditionOverride != nil {
		activation.ConditionOverride = req.ConditionOverride
	}
	if req.NoteOverride != nil {
		activation.NoteOverride = req.NoteOverride
	}
	if req.MaxPaxOverride != nil {
		activation.MaxPaxOverride = req.MaxPaxOverride
	}
	if req.LimitOverride != nil {
		activation.LimitOverride = req.LimitOverride
	}

	if err := config.DB.Save(activation).Error; err != nil {
		utils.LogError("Failed to update overrides for activation ID: %d: %v", activationID, err)
		utils.InternalServerError(c, "Failed to update overrides", err.Error())
		return
	}

	utils.LogInfo("Updated overrides for activation ID: %d", activationID)
	utils.Success(c, "Overrides updated successfully", gin.H{
		"activation": activation,
	})
}

// ClearCodeOverrides clears all override fields on an activation,
// reverting the event to the template defaults
func ClearCodeOverrides(c *gin.Context) {
	utils.LogInfo("ClearCodeOverrides called")

	activationID, ok := parseIDParam(c, "activationId")
	if !ok {
		return
	}

	activation, ok := loadActivationWithAccess(c, activationID)
	if !ok {
		return
	}

	if err := config.DB.Model(activation).Updates(map[string]interface{}{
		"condition_override": nil,
		"note_override":      nil,
		"max_pax_override":   nil,
		"limit_override":     nil,
	}).Error; err != nil {
		utils.LogError("Failed to clear overrides for activation ID: %d: %v", activationID, err)
		utils.InternalServerError(c, "Failed to clear overrides", err.Error())
		return
	}

	utils.LogInfo("Cleared overrides for activation ID: %d", activationID)
	utils.Success(c, "Overrides cleared successfully", nil)
}

// loadActivationWithAccess fetches an activation and enforces brand access
// through its event
func loadActivationWithAccess(c *gin.Context, activationID uint) (*models.EventCodeActivation, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	var activation models.EventCodeActivation
	if err := config.DB.First(&activation, activationID).Error; err != nil {
		utils.NotFound(c, "Activation not found")
		return nil, false
	}

	var event models.Event
	if err := config.DB.First(&event, activation.EventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return nil, false
	}
	if !utils.HasBrandAccess(user.ID, event.BrandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return nil, false
	}
	return &activation, true
}

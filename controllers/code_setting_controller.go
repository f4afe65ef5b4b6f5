package controllers

import (
	"strings"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// ListCodeSettings returns the flat per-event settings rows. This is the
// legacy read path; clients migrating to templates should use the
// resolved codes endpoint instead.
func ListCodeSettings(c *gin.Context) {
	utils.LogInfo("ListCodeSettings called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	var settings []models.CodeSetting
	if err := config.DB.Where("event_id = ?", eventID).
		Order("type ASC, name ASC").
		Find(&settings).Error; err != nil {
		utils.LogError("Failed to fetch code settings for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to fetch code settings", err.Error())
		return
	}

	utils.LogInfo("Fetched %d code settings for event ID: %d", len(settings), eventID)
	utils.Success(c, "Code settings fetched successfully", gin.H{
		"settings": settings,
	})
}

// CodeSettingRequest represents the request body for creating or updating
// a flat code setting row
type CodeSettingRequest struct {
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Condition    *string  `json:"condition"`
	Note         *string  `json:"note"`
	MaxPax       *int     `json:"max_pax"`
	Limit        *int     `json:"limit"`
	Price        *float64 `json:"price"`
	Color        *string  `json:"color"`
	Icon         *string  `json:"icon"`
	RequireEmail *bool    `json:"require_email"`
	RequirePhone *bool    `json:"require_phone"`
	IsEnabled    *bool    `json:"is_enabled"`
}

// CreateCodeSetting creates a standalone flat setting row for an event.
// Rows created here are never linked to a template and stay editable.
func CreateCodeSetting(c *gin.Context) {
	utils.LogInfo("CreateCodeSetting called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	var req CodeSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if valid, msg := utils.ValidateCodeName(req.Name); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}

	settingType := req.Type
	if settingType == "" {
		settingType = models.CodeSettingTypeCustom
	}
	if !models.ValidCodeSettingTypes[settingType] {
		utils.BadRequest(c, "Invalid code setting type", gin.H{"type": settingType})
		return
	}

	setting := models.CodeSetting{
		EventID:    eventID,
		Type:       settingType,
		Name:       strings.TrimSpace(req.Name),
		MaxPax:     1,
		IsEnabled:  true,
		IsEditable: true,
	}
	applySettingRequest(&setting, &req)

	if err := config.DB.Create(&setting).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.Conflict(c, "This event already has a code setting of this type", nil)
			return
		}
		utils.LogError("Failed to create code setting for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to create code setting", err.Error())
		return
	}
	// Second write lands the zero-value fields that column defaults
	// swallowed on create
	if err := config.DB.Save(&setting).Error; err != nil {
		utils.LogError("Failed to finalize code setting ID: %d: %v", setting.ID, err)
		utils.InternalServerError(c, "Failed to create code setting", err.Error())
		return
	}

	utils.LogInfo("Created code setting ID: %d for event ID: %d", setting.ID, eventID)
	utils.Created(c, "Code setting created successfully", gin.H{
		"setting": setting,
	})
}

// UpdateCodeSetting updates a flat setting row. Rows that were migrated
// from the pre-template era but never linked are locked against edits so
// the repair endpoint can still match them by name.
func UpdateCodeSetting(c *gin.Context) {
	utils.LogInfo("UpdateCodeSetting called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	settingID, ok := parseIDParam(c, "settingId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	var setting models.CodeSetting
	if err := config.DB.Where("id = ? AND event_id = ?", settingID, eventID).
		First(&setting).Error; err != nil {
		utils.NotFound(c, "Code setting not found")
		return
	}

	if !setting.IsEditable {
		utils.LogError("Rejected edit of locked code setting ID: %d", setting.ID)
		utils.Forbidden(c, "This code setting is locked until it is migrated to a code template")
		return
	}

	var req CodeSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if setting.IsLinked() {
		// Template-linked rows mirror the template; only the enabled flag
		// is adjustable from this endpoint.
		if req.IsEnabled != nil {
			setting.IsEnabled = *req.IsEnabled
		}
	} else {
		if req.Name != "" {
			if valid, msg := utils.ValidateCodeName(req.Name); !valid {
				utils.BadRequest(c, msg, nil)
				return
			}
			setting.Name = strings.TrimSpace(req.Name)
		}
		applySettingRequest(&setting, &req)
	}

	if err := config.DB.Save(&setting).Error; err != nil {
		utils.LogError("Failed to update code setting ID: %d: %v", setting.ID, err)
		utils.InternalServerError(c, "Failed to update code setting", err.Error())
		return
	}

	utils.LogInfo("Updated code setting ID: %d for event ID: %d", setting.ID, eventID)
	utils.Success(c, "Code setting updated successfully", gin.H{
		"setting": setting,
	})
}

// DeleteCodeSetting removes a flat setting row. Linked rows must be
// removed through the template attachment flow instead.
func DeleteCodeSetting(c *gin.Context) {
	utils.LogInfo("DeleteCodeSetting called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	settingID, ok := parseIDParam(c, "settingId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	var setting models.CodeSetting
	if err := config.DB.Where("id = ? AND event_id = ?", settingID, eventID).
		First(&setting).Error; err != nil {
		utils.NotFound(c, "Code setting not found")
		return
	}

	if setting.IsLinked() {
		utils.Forbidden(c, "Template-linked code settings are managed through the code template")
		return
	}

	if err := config.DB.Delete(&setting).Error; err != nil {
		utils.LogError("Failed to delete code setting ID: %d: %v", setting.ID, err)
		utils.InternalServerError(c, "Failed to delete code setting", err.Error())
		return
	}

	utils.LogInfo("Deleted code setting ID: %d for event ID: %d", setting.ID, eventID)
	utils.Success(c, "Code setting deleted successfully", nil)
}

func applySettingRequest(setting *models.CodeSetting, req *CodeSettingRequest) {
	if req.Condition != nil {
		setting.Condition = *req.Condition
	}
	if req.Note != nil {
		setting.Note = *req.Note
	}
	if req.MaxPax != nil && *req.MaxPax > 0 {
		setting.MaxPax = *req.MaxPax
	}
	if req.Limit != nil && *req.Limit >= 0 {
		setting.Limit = *req.Limit
	}
	if req.Price != nil && *req.Price >= 0 {
		setting.Price = *req.Price
	}
	if req.Color != nil {
		if valid, _ := utils.ValidateHexColor(*req.Color); valid {
			setting.Color = *req.Color
		}
	}
	if req.Icon != nil {
		setting.Icon = *req.Icon
	}
	if req.RequireEmail != nil {
		setting.RequireEmail = *req.RequireEmail
	}
	if req.RequirePhone != nil {
		setting.RequirePhone = *req.RequirePhone
	}
	if req.IsEnabled != nil {
		setting.IsEnabled = *req.IsEnabled
	}
}

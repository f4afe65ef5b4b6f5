package controllers

import (
	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// GetTemplatesForBrand lists templates attached to a brand
func GetTemplatesForBrand(c *gin.Context) {
	utils.LogInfo("GetTemplatesForBrand called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}

	if !utils.HasBrandAccess(user.ID, brandID) {
		utils.LogError("User ID: %d has no access to brand ID: %d", user.ID, brandID)
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	var attachments []models.CodeBrandAttachment
	if err := config.DB.Preload("CodeTemplate").
		Where("brand_id = ?", brandID).
		Find(&attachments).Error; err != nil {
		utils.LogError("Failed to fetch attachments for brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to fetch templates", nil)
		return
	}

	templates := make([]gin.H, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment.CodeTemplate.ID == 0 {
			continue
		}
		templates = append(templates, gin.H{
			"code_template":       attachment.CodeTemplate,
			"is_global_for_brand": attachment.IsGlobalForBrand,
		})
	}

	utils.Success(c, "Brand templates fetched successfully", gin.H{
		"templates": templates,
	})
}

// GetCodesForEvent returns the enabled, override-applied codes for an
// event, resolved from the template graph
func GetCodesForEvent(c *gin.Context) {
	utils.LogInfo("GetCodesForEvent called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}

	var event models.Event
	if err := config.DB.First(&event, eventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return
	}
	if !utils.HasBrandAccess(user.ID, event.BrandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	codes, err := utils.ResolveEventCodes(eventID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, "Event not found")
			return
		}
		utils.LogError("Failed to resolve codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to resolve event codes", nil)
		return
	}

	enabled := make([]utils.EffectiveCode, 0, len(codes))
	for _, code := range codes {
		if code.IsEnabled {
			enabled = append(enabled, code)
		}
	}

	utils.Success(c, "Event codes fetched successfully", gin.H{
		"codes": enabled,
	})
}

// MigrateEventCodes runs the idempotent settings repair for one event
func MigrateEventCodes(c *gin.Context) {
	utils.LogInfo("MigrateEventCodes called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}

	var event models.Event
	if err := config.DB.First(&event, eventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return
	}
	if !utils.HasBrandAccess(user.ID, event.BrandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	result, err := utils.MigrateEventCodeSettings(eventID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, "Event not found")
			return
		}
		utils.LogError("Migration failed for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Migration failed", err.Error())
		return
	}

	utils.LogInfo("Migration for event ID: %d - migrated: %d, created: %d, skipped: %d",
		eventID, result.Migrated, result.Created, result.Skipped)
	utils.Success(c, "Migration completed", gin.H{
		"migrated": result.Migrated,
		"created":  result.Created,
		"skipped":  result.Skipped,
	})
}

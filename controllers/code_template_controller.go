package controllers

import (
	"strings"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// CodeTemplateRequest represents the request body for creating or updating
// a code template
type CodeTemplateRequest struct {
	Name         string            `json:"name" binding:"required"`
	Condition    string            `json:"condition"`
	Note         string            `json:"note"`
	MaxPax       int               `json:"max_pax"`
	DefaultLimit int               `json:"default_limit"`
	Color        string            `json:"color"`
	Icon         string            `json:"icon"`
	RequireEmail *bool             `json:"require_email"`
	RequirePhone *bool             `json:"require_phone"`
	SortOrder    int               `json:"sort_order"`
	Attachments  []AttachmentInput `json:"attachments"`
}

func (r *CodeTemplateRequest) validate() (bool, string) {
	if valid, msg := utils.ValidateCodeName(r.Name); !valid {
		return false, msg
	}
	if r.MaxPax < 0 {
		return false, "max_pax cannot be negative"
	}
	if r.DefaultLimit < 0 {
		return false, "default_limit cannot be negative"
	}
	if r.Color != "" {
		if valid, msg := utils.ValidateHexColor(r.Color); !valid {
			return false, msg
		}
	}
	return true, ""
}

// ListCodeTemplates returns the requesting user's templates with their
// brand attachments
func ListCodeTemplates(c *gin.Context) {
	utils.LogInfo("ListCodeTemplates called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var templates []models.CodeTemplate
	if err := config.DB.Preload("Attachments.Brand").
		Where("user_id = ?", user.ID).
		Order("sort_order, name").
		Find(&templates).Error; err != nil {
		utils.LogError("Failed to fetch templates for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch code templates", nil)
		return
	}

	utils.Success(c, "Code templates fetched successfully", gin.H{
		"code_templates": templates,
	})
}

// CreateCodeTemplate creates a template and processes its brand attachments
func CreateCodeTemplate(c *gin.Context) {
	utils.LogInfo("CreateCodeTemplate called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CodeTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if valid, msg := req.validate(); !valid {
		utils.LogError("Invalid template request for user ID: %d: %s", user.ID, msg)
		utils.BadRequest(c, msg, nil)
		return
	}
	utils.LogInfo("Processing template creation %q for user ID: %d", req.Name, user.ID)

	template := models.CodeTemplate{
		UserID:       user.ID,
		Name:         strings.TrimSpace(req.Name),
		Condition:    req.Condition,
		Note:         req.Note,
		MaxPax:       req.MaxPax,
		DefaultLimit: req.DefaultLimit,
		Color:        req.Color,
		Icon:         req.Icon,
		SortOrder:    req.SortOrder,
		RequireEmail: true,
	}
	if template.MaxPax < 1 {
		template.MaxPax = 1
	}
	if template.Color == "" {
		template.Color = models.DefaultTemplateColor
	}
	if template.Icon == "" {
		template.Icon = models.DefaultTemplateIcon
	}
	if req.RequireEmail != nil {
		template.RequireEmail = *req.RequireEmail
	}
	if req.RequirePhone != nil {
		template.RequirePhone = *req.RequirePhone
	}

	if err := config.DB.Create(&template).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.LogError("Duplicate template name %q for user ID: %d", req.Name, user.ID)
			utils.BadRequest(c, "You already have a code template with this name", nil)
			return
		}
		utils.LogError("Failed to create template for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create code template", err.Error())
		return
	}
	// Second write lands the zero-value fields that column defaults
	// swallowed on create, require_email off in particular
	if err := config.DB.Save(&template).Error; err != nil {
		utils.LogError("Failed to finalize template ID: %d: %v", template.ID, err)
		utils.InternalServerError(c, "Failed to create code template", err.Error())
		return
	}

	report := ProcessAttachments(template.ID, req.Attachments, user.ID)

	utils.LogInfo("Successfully created template ID: %d for user ID: %d", template.ID, user.ID)
	utils.Created(c, "Code template created successfully", gin.H{
		"code_template": template,
		"sync":          report,
	})
}

// UpdateCodeTemplate updates a template and reprocesses its attachments
func UpdateCodeTemplate(c *gin.Context) {
	utils.LogInfo("UpdateCodeTemplate called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var template models.CodeTemplate
	if err := config.DB.Where("id = ? AND user_id = ?", templateID, user.ID).First(&template).Error; err != nil {
		utils.LogError("Template ID: %d not found for user ID: %d", templateID, user.ID)
		utils.NotFound(c, "Code template not found")
		return
	}

	var req CodeTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if valid, msg := req.validate(); !valid {
		utils.LogError("Invalid template update for ID: %d: %s", templateID, msg)
		utils.BadRequest(c, msg, nil)
		return
	}

	template.Name = strings.TrimSpace(req.Name)
	template.Condition = req.Condition
	template.Note = req.Note
	template.MaxPax = req.MaxPax
	if template.MaxPax < 1 {
		template.MaxPax = 1
	}
	template.DefaultLimit = req.DefaultLimit
	if req.Color != "" {
		template.Color = req.Color
	}
	if req.Icon != "" {
		template.Icon = req.Icon
	}
	template.SortOrder = req.SortOrder
	if req.RequireEmail != nil {
		template.RequireEmail = *req.RequireEmail
	}
	if req.RequirePhone != nil {
		template.RequirePhone = *req.RequirePhone
	}

	if err := config.DB.Save(&template).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.LogError("Duplicate template name %q for user ID: %d", req.Name, user.ID)
			utils.BadRequest(c, "You already have a code template with this name", nil)
			return
		}
		utils.LogError("Failed to update template ID: %d: %v", templateID, err)
		utils.InternalServerError(c, "Failed to update code template", err.Error())
		return
	}

	report := ProcessAttachments(template.ID, req.Attachments, user.ID)

	// Linked settings rows of events untouched by the attachment diff
	// still need the fresh field values
	resyncLinkedSettings(template.ID)

	utils.LogInfo("Successfully updated template ID: %d", templateID)
	utils.Success(c, "Code template updated successfully", gin.H{
		"code_template": template,
		"sync":          report,
	})
}

// resyncLinkedSettings pushes current template fields to every settings row
// already linked to the template. Best-effort, like all bridge writes.
func resyncLinkedSettings(templateID uint) {
	var eventIDs []uint
	if err := config.DB.Model(&models.CodeSetting{}).
		Where("code_template_id = ?", templateID).
		Pluck("event_id", &eventIDs).Error; err != nil {
		utils.LogError("Failed to list linked settings for template ID: %d: %v", templateID, err)
		return
	}
	for _, eventID := range eventIDs {
		utils.SyncCodeTemplateToCodeSettings(templateID, eventID)
	}
}

// DeleteCodeTemplate deletes a template and cascades to its attachments,
// activations and synced settings rows
func DeleteCodeTemplate(c *gin.Context) {
	utils.LogInfo("DeleteCodeTemplate called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var template models.CodeTemplate
	if err := config.DB.Where("id = ? AND user_id = ?", templateID, user.ID).First(&template).Error; err != nil {
		utils.LogError("Template ID: %d not found for user ID: %d", templateID, user.ID)
		utils.NotFound(c, "Code template not found")
		return
	}

	if err := config.DB.Where("code_template_id = ?", templateID).
		Delete(&models.CodeBrandAttachment{}).Error; err != nil {
		utils.LogError("Failed to delete attachments for template ID: %d: %v", templateID, err)
	}
	if err := config.DB.Where("code_template_id = ?", templateID).
		Delete(&models.EventCodeActivation{}).Error; err != nil {
		utils.LogError("Failed to delete activations for template ID: %d: %v", templateID, err)
	}
	if err := config.DB.Where("code_template_id = ?", templateID).
		Delete(&models.CodeSetting{}).Error; err != nil {
		utils.LogError("Failed to delete settings for template ID: %d: %v", templateID, err)
	}
	if err := config.DB.Delete(&template).Error; err != nil {
		utils.LogError("Failed to delete template ID: %d: %v", templateID, err)
		utils.InternalServerError(c, "Failed to delete code template", err.Error())
		return
	}

	utils.LogInfo("Successfully deleted template ID: %d and its references", templateID)
	utils.Success(c, "Code template deleted successfully", nil)
}

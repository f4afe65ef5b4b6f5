package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IssueCodeRequest represents the request body for issuing a code to a guest
type IssueCodeRequest struct {
	CodeSettingID uint   `json:"code_setting_id" binding:"required"`
	GuestName     string `json:"guest_name" binding:"required"`
	GuestEmail    string `json:"guest_email"`
	GuestPhone    string `json:"guest_phone"`
	Pax           int    `json:"pax"`
	SendEmail     bool   `json:"send_email"`
}

// IssueCode issues a guest code against an enabled code setting. The
// per-setting limit counts issued codes, not pax.
func IssueCode(c *gin.Context) {
	utils.LogInfo("IssueCode called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	event, ok := loadEventWithAccess(c, eventID)
	if !ok {
		return
	}

	var req IssueCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var setting models.CodeSetting
	if err := config.DB.Where("id = ? AND event_id = ?", req.CodeSettingID, eventID).
		First(&setting).Error; err != nil {
		utils.NotFound(c, "Code setting not found")
		return
	}

	if !setting.IsEnabled {
		utils.LogError("Rejected issue against disabled code setting ID: %d", setting.ID)
		utils.BadRequest(c, "This code is not enabled for the event", nil)
		return
	}

	if setting.RequireEmail && strings.TrimSpace(req.GuestEmail) == "" {
		utils.BadRequest(c, "Guest email is required for this code", nil)
		return
	}
	if req.GuestEmail != "" {
		if valid, msg := utils.ValidateEmail(req.GuestEmail); !valid {
			utils.BadRequest(c, msg, nil)
			return
		}
	}

	phone := req.GuestPhone
	if setting.RequirePhone && strings.TrimSpace(phone) == "" {
		utils.BadRequest(c, "Guest phone is required for this code", nil)
		return
	}
	if phone != "" {
		valid, formatted := utils.ValidatePhone(phone)
		if !valid {
			utils.BadRequest(c, "Invalid phone number", nil)
			return
		}
		phone = formatted
	}

	pax := req.Pax
	if pax <= 0 {
		pax = 1
	}
	if pax > setting.MaxPax {
		utils.BadRequest(c, fmt.Sprintf("Pax cannot exceed %d for this code", setting.MaxPax), nil)
		return
	}

	if setting.Limit > 0 {
		var issued int64
		if err := config.DB.Model(&models.Code{}).
			Where("code_setting_id = ? AND status <> ?", setting.ID, models.CodeStatusCancelled).
			Count(&issued).Error; err != nil {
			utils.LogError("Failed to count issued codes for setting ID: %d: %v", setting.ID, err)
			utils.InternalServerError(c, "Failed to issue code", err.Error())
			return
		}
		if issued >= int64(setting.Limit) {
			utils.LogError("Issue limit reached for code setting ID: %d (limit: %d)", setting.ID, setting.Limit)
			utils.Conflict(c, "The issue limit for this code has been reached", nil)
			return
		}
	}

	code := models.Code{
		EventID:       eventID,
		CodeSettingID: setting.ID,
		IssuedBy:      user.ID,
		Value:         strings.ToUpper(uuid.New().String()[:8]),
		GuestName:     strings.TrimSpace(req.GuestName),
		GuestEmail:    strings.TrimSpace(req.GuestEmail),
		GuestPhone:    phone,
		Pax:           pax,
		Status:        models.CodeStatusActive,
	}

	if err := config.DB.Create(&code).Error; err != nil {
		utils.LogError("Failed to create code for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to issue code", err.Error())
		return
	}

	emailed := false
	if req.SendEmail && code.GuestEmail != "" {
		if err := emailCodeToGuest(&code, &setting, event); err != nil {
			utils.LogError("Failed to email code ID: %d: %v", code.ID, err)
		} else {
			emailed = true
		}
	}

	utils.LogInfo("Issued code ID: %d (value: %s) for event ID: %d", code.ID, code.Value, eventID)
	utils.Created(c, "Code issued successfully", gin.H{
		"code":    code,
		"emailed": emailed,
	})
}

// emailCodeToGuest renders the code PDF and mails it. Failures only log;
// the code is already issued.
func emailCodeToGuest(code *models.Code, setting *models.CodeSetting, event *models.Event) error {
	var brand models.Brand
	if err := config.DB.First(&brand, event.BrandID).Error; err != nil {
		return err
	}

	pdf, err := utils.GenerateCodePDF(code, setting, event, &brand)
	if err != nil {
		return err
	}

	if err := utils.SendCodeEmail(code.GuestEmail, code.GuestName, event.Title, setting.Name, pdf); err != nil {
		return err
	}

	now := time.Now()
	code.EmailedAt = &now
	return config.DB.Model(code).Update("emailed_at", now).Error
}

// ListIssuedCodes returns the issued codes for an event, paginated.
// Optional filters: code_setting_id, status, and a search term matched
// against guest name/email and the code value.
func ListIssuedCodes(c *gin.Context) {
	utils.LogInfo("ListIssuedCodes called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Code{}).Where("event_id = ?", eventID)

	if settingID := c.Query("code_setting_id"); settingID != "" {
		query = query.Where("code_setting_id = ?", settingID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		term := "%" + search + "%"
		query = query.Where("guest_name ILIKE ? OR guest_email ILIKE ? OR value ILIKE ?", term, term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to fetch codes", err.Error())
		return
	}
	pagination.SetTotal(total)

	var codes []models.Code
	if err := query.Preload("CodeSetting").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&codes).Error; err != nil {
		utils.LogError("Failed to fetch codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to fetch codes", err.Error())
		return
	}

	utils.LogInfo("Fetched %d codes for event ID: %d", len(codes), eventID)
	utils.SendPaginatedResponse(c, "Codes fetched successfully", codes, pagination)
}

// DownloadCodePDF streams the printable PDF for one issued code
func DownloadCodePDF(c *gin.Context) {
	utils.LogInfo("DownloadCodePDF called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	codeID, ok := parseIDParam(c, "codeId")
	if !ok {
		return
	}
	event, ok := loadEventWithAccess(c, eventID)
	if !ok {
		return
	}

	var code models.Code
	if err := config.DB.Preload("CodeSetting").
		Where("id = ? AND event_id = ?", codeID, eventID).
		First(&code).Error; err != nil {
		utils.NotFound(c, "Code not found")
		return
	}

	var brand models.Brand
	if err := config.DB.First(&brand, event.BrandID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load brand", err.Error())
		return
	}

	pdf, err := utils.GenerateCodePDF(&code, &code.CodeSetting, event, &brand)
	if err != nil {
		utils.LogError("Failed to generate PDF for code ID: %d: %v", code.ID, err)
		utils.InternalServerError(c, "Failed to generate PDF", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=code-%s.pdf", code.Value))
	c.Data(200, "application/pdf", pdf)
}

// CancelCode cancels an issued code so it can no longer check in
func CancelCode(c *gin.Context) {
	utils.LogInfo("CancelCode called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	codeID, ok := parseIDParam(c, "codeId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	var code models.Code
	if err := config.DB.Where("id = ? AND event_id = ?", codeID, eventID).
		First(&code).Error; err != nil {
		utils.NotFound(c, "Code not found")
		return
	}

	if code.Status == models.CodeStatusCancelled {
		utils.BadRequest(c, "Code is already cancelled", nil)
		return
	}

	if err := config.DB.Model(&code).Update("status", models.CodeStatusCancelled).Error; err != nil {
		utils.LogError("Failed to cancel code ID: %d: %v", code.ID, err)
		utils.InternalServerError(c, "Failed to cancel code", err.Error())
		return
	}

	utils.LogInfo("Cancelled code ID: %d for event ID: %d", code.ID, eventID)
	utils.Success(c, "Code cancelled successfully", gin.H{
		"code_id": code.ID,
		"status":  models.CodeStatusCancelled,
	})
}

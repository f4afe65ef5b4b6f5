package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// CheckInRequest represents the request body for checking in a scanned code
type CheckInRequest struct {
	Value string `json:"value" binding:"required"`
	Pax   int    `json:"pax"`
}

// CheckInCode checks in a scanned code value at the door. Partial check-ins
// are allowed up to the pax the code was issued for; the code flips to
// checked_in once the first guest is through.
func CheckInCode(c *gin.Context) {
	utils.LogInfo("CheckInCode called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	value := strings.ToUpper(strings.TrimSpace(req.Value))
	var code models.Code
	if err := config.DB.Preload("CodeSetting").
		Where("event_id = ? AND value = ?", eventID, value).
		First(&code).Error; err != nil {
		utils.LogError("Unknown code value scanned for event ID: %d", eventID)
		utils.NotFound(c, "Code not found for this event")
		return
	}

	if code.Status == models.CodeStatusCancelled {
		utils.BadRequest(c, "This code has been cancelled", nil)
		return
	}

	pax := req.Pax
	if pax <= 0 {
		pax = 1
	}
	remaining := code.Pax - code.PaxChecked
	if remaining <= 0 {
		utils.LogError("Code ID: %d already fully checked in", code.ID)
		utils.Conflict(c, "This code is already fully checked in", gin.H{
			"pax":         code.Pax,
			"pax_checked": code.PaxChecked,
		})
		return
	}
	if pax > remaining {
		utils.BadRequest(c, fmt.Sprintf("Only %d guests remaining on this code", remaining), nil)
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"pax_checked": code.PaxChecked + pax,
		"status":      models.CodeStatusCheckedIn,
	}
	if code.CheckedInAt == nil {
		updates["checked_in_at"] = now
	}

	if err := config.DB.Model(&code).Updates(updates).Error; err != nil {
		utils.LogError("Failed to check in code ID: %d: %v", code.ID, err)
		utils.InternalServerError(c, "Failed to check in code", err.Error())
		return
	}

	utils.LogInfo("Checked in code ID: %d (+%d pax) for event ID: %d", code.ID, pax, eventID)
	utils.Success(c, "Guest checked in successfully", gin.H{
		"code_id":     code.ID,
		"guest_name":  code.GuestName,
		"code_name":   code.CodeSetting.Name,
		"pax":         code.Pax,
		"pax_checked": code.PaxChecked + pax,
	})
}

// LookupCode returns the details behind a scanned value without checking
// it in. Door staff use this to verify a guest before admitting.
func LookupCode(c *gin.Context) {
	utils.LogInfo("LookupCode called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	if _, ok := loadEventWithAccess(c, eventID); !ok {
		return
	}

	value := strings.ToUpper(strings.TrimSpace(c.Query("value")))
	if value == "" {
		utils.BadRequest(c, "value query parameter is required", nil)
		return
	}

	var code models.Code
	if err := config.DB.Preload("CodeSetting").
		Where("event_id = ? AND value = ?", eventID, value).
		First(&code).Error; err != nil {
		utils.NotFound(c, "Code not found for this event")
		return
	}

	utils.Success(c, "Code found", gin.H{
		"code": code,
	})
}

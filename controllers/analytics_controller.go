package controllers

import (
	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// CodeSettingStats is one row of the per-event breakdown
type CodeSettingStats struct {
	CodeSettingID uint   `json:"code_setting_id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Issued        int64  `json:"issued"`
	CheckedIn     int64  `json:"checked_in"`
	Cancelled     int64  `json:"cancelled"`
	PaxTotal      int64  `json:"pax_total"`
	PaxChecked    int64  `json:"pax_checked"`
}

// eventCodeStats aggregates issued codes per setting for one event
func eventCodeStats(eventID uint) ([]CodeSettingStats, error) {
	var rows []CodeSettingStats
	err := config.DB.Model(&models.Code{}).
		Select(`code_settings.id AS code_setting_id,
			code_settings.name AS name,
			code_settings.type AS type,
			COUNT(codes.id) AS issued,
			COUNT(CASE WHEN codes.status = ? THEN 1 END) AS checked_in,
			COUNT(CASE WHEN codes.status = ? THEN 1 END) AS cancelled,
			COALESCE(SUM(codes.pax), 0) AS pax_total,
			COALESCE(SUM(codes.pax_checked), 0) AS pax_checked`,
			models.CodeStatusCheckedIn, models.CodeStatusCancelled).
		Joins("JOIN code_settings ON code_settings.id = codes.code_setting_id").
		Where("codes.event_id = ?", eventID).
		Group("code_settings.id, code_settings.name, code_settings.type").
		Order("code_settings.name ASC").
		Scan(&rows).Error
	return rows, err
}

// GetEventAnalytics returns the guest-list breakdown for one event,
// grouped by code setting
func GetEventAnalytics(c *gin.Context) {
	utils.LogInfo("GetEventAnalytics called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	event, ok := loadEventWithAccess(c, eventID)
	if !ok {
		return
	}

	rows, err := eventCodeStats(eventID)
	if err != nil {
		utils.LogError("Failed to aggregate codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to load analytics", err.Error())
		return
	}

	var totals CodeSettingStats
	for _, r := range rows {
		totals.Issued += r.Issued
		totals.CheckedIn += r.CheckedIn
		totals.Cancelled += r.Cancelled
		totals.PaxTotal += r.PaxTotal
		totals.PaxChecked += r.PaxChecked
	}

	utils.LogInfo("Analytics for event ID: %d - issued: %d, pax checked: %d", eventID, totals.Issued, totals.PaxChecked)
	utils.Success(c, "Event analytics fetched successfully", gin.H{
		"event_id":    event.ID,
		"event_title": event.Title,
		"by_code":     rows,
		"totals": gin.H{
			"issued":      totals.Issued,
			"checked_in":  totals.CheckedIn,
			"cancelled":   totals.Cancelled,
			"pax_total":   totals.PaxTotal,
			"pax_checked": totals.PaxChecked,
		},
	})
}

// brandEventStats is one row of the brand overview
type brandEventStats struct {
	EventID    uint   `json:"event_id"`
	Title      string `json:"title"`
	Issued     int64  `json:"issued"`
	PaxTotal   int64  `json:"pax_total"`
	PaxChecked int64  `json:"pax_checked"`
}

// GetBrandAnalytics returns per-event issuance totals across a brand
func GetBrandAnalytics(c *gin.Context) {
	utils.LogInfo("GetBrandAnalytics called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}
	if !utils.HasBrandAccess(user.ID, brandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	var rows []brandEventStats
	err := config.DB.Model(&models.Event{}).
		Select(`events.id AS event_id,
			events.title AS title,
			COUNT(codes.id) AS issued,
			COALESCE(SUM(codes.pax), 0) AS pax_total,
			COALESCE(SUM(codes.pax_checked), 0) AS pax_checked`).
		Joins("LEFT JOIN codes ON codes.event_id = events.id AND codes.deleted_at IS NULL").
		Where("events.brand_id = ?", brandID).
		Group("events.id, events.title").
		Order("events.id DESC").
		Scan(&rows).Error
	if err != nil {
		utils.LogError("Failed to aggregate events for brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to load analytics", err.Error())
		return
	}

	utils.Success(c, "Brand analytics fetched successfully", gin.H{
		"brand_id": brandID,
		"events":   rows,
	})
}

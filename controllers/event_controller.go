package controllers

import (
	"time"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// CreateEventRequest represents the request body for creating an event
type CreateEventRequest struct {
	BrandID   uint      `json:"brand_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	Subtitle  string    `json:"subtitle"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date"`
	IsWeekly  bool      `json:"is_weekly"`
	FlyerURL  string    `json:"flyer_url"`
}

// CreateEvent creates a new event under a brand. For a new parent event the
// repair migration runs immediately so globally attached templates get
// their settings rows without waiting for the next template edit.
func CreateEvent(c *gin.Context) {
	utils.LogInfo("CreateEvent called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.HasBrandAccess(user.ID, req.BrandID) {
		utils.LogError("User ID: %d has no access to brand ID: %d", user.ID, req.BrandID)
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	event := models.Event{
		BrandID:   req.BrandID,
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsWeekly:  req.IsWeekly,
		FlyerURL:  req.FlyerURL,
	}
	if err := config.DB.Create(&event).Error; err != nil {
		utils.LogError("Failed to create event for brand ID: %d: %v", req.BrandID, err)
		utils.InternalServerError(c, "Failed to create event", err.Error())
		return
	}

	// Best-effort: bring globally attached templates over right away
	if result, err := utils.MigrateEventCodeSettings(event.ID); err != nil {
		utils.LogError("Code settings migration failed for new event ID: %d: %v", event.ID, err)
	} else {
		utils.LogInfo("Code settings migration for new event ID: %d - migrated: %d, created: %d, skipped: %d",
			event.ID, result.Migrated, result.Created, result.Skipped)
	}

	utils.LogInfo("Successfully created event ID: %d for brand ID: %d", event.ID, req.BrandID)
	utils.Created(c, "Event created successfully", gin.H{"event": event})
}

// ListBrandEvents returns a brand's events, parents first
func ListBrandEvents(c *gin.Context) {
	utils.LogInfo("ListBrandEvents called")

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

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Event{}).Where("brand_id = ?", brandID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count events for brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to fetch events", nil)
		return
	}
	pagination.SetTotal(total)

	var events []models.Event
	if err := config.DB.Where("brand_id = ?", brandID).
		Order("parent_event_id NULLS FIRST, start_date DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&events).Error; err != nil {
		utils.LogError("Failed to fetch events for brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to fetch events", nil)
		return
	}

	utils.SendPaginatedResponse(c, "Events fetched successfully", events, pagination)
}

// UpdateEventRequest represents the request body for updating an event
type UpdateEventRequest struct {
	Title     *string    `json:"title"`
	Subtitle  *string    `json:"subtitle"`
	Location  *string    `json:"location"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	FlyerURL  *string    `json:"flyer_url"`
	IsLive    *bool      `json:"is_live"`
}

// UpdateEvent updates event details
func UpdateEvent(c *gin.Context) {
	utils.LogInfo("UpdateEvent called")

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

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Subtitle != nil {
		event.Subtitle = *req.Subtitle
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.FlyerURL != nil {
		event.FlyerURL = *req.FlyerURL
	}
	if req.IsLive != nil {
		event.IsLive = *req.IsLive
	}

	if err := config.DB.Save(&event).Error; err != nil {
		utils.LogError("Failed to update event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to update event", err.Error())
		return
	}

	utils.LogInfo("Successfully updated event ID: %d", eventID)
	utils.Success(c, "Event updated successfully", gin.H{"event": event})
}

// DeleteEvent removes an event and its code settings rows
func DeleteEvent(c *gin.Context) {
	utils.LogInfo("DeleteEvent called")

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

	if err := config.DB.Where("event_id = ?", eventID).Delete(&models.CodeSetting{}).Error; err != nil {
		utils.LogError("Failed to delete code settings for event ID: %d: %v", eventID, err)
	}
	if err := config.DB.Where("event_id = ?", eventID).Delete(&models.EventCodeActivation{}).Error; err != nil {
		utils.LogError("Failed to delete activations for event ID: %d: %v", eventID, err)
	}
	if err := config.DB.Delete(&event).Error; err != nil {
		utils.LogError("Failed to delete event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to delete event", err.Error())
		return
	}

	utils.LogInfo("Successfully deleted event ID: %d", eventID)
	utils.Success(c, "Event deleted successfully", nil)
}

// GenerateOccurrencesRequest represents the request body for generating
// weekly child occurrences
type GenerateOccurrencesRequest struct {
	Weeks int `json:"weeks" binding:"required,gt=0,lte=52"`
}

// GenerateOccurrences creates child events for the next N weeks of a
// weekly series. Each child inherits code settings from templates the
// parent activates with apply_to_children, and from global attachments.
func GenerateOccurrences(c *gin.Context) {
	utils.LogInfo("GenerateOccurrences called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}

	var parent models.Event
	if err := config.DB.First(&parent, eventID).Error; err != nil {
		utils.NotFound(c, "Event not found")
		return
	}
	if !utils.HasBrandAccess(user.ID, parent.BrandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}
	if !parent.IsWeekly {
		utils.BadRequest(c, "Event is not a weekly series", nil)
		return
	}
	if parent.IsChildOccurrence() {
		utils.BadRequest(c, "Occurrences can only be generated from the series root", nil)
		return
	}

	var req GenerateOccurrencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var lastWeek int
	config.DB.Model(&models.Event{}).
		Where("parent_event_id = ?", parent.ID).
		Select("COALESCE(MAX(week_number), 0)").
		Scan(&lastWeek)

	// Templates that should follow the series into generated occurrences
	templateIDs := inheritableTemplateIDs(&parent)

	parentID := parent.ID
	created := make([]models.Event, 0, req.Weeks)
	for i := 1; i <= req.Weeks; i++ {
		week := lastWeek + i
		child := models.Event{
			BrandID:       parent.BrandID,
			Title:         parent.Title,
			Subtitle:      parent.Subtitle,
			Location:      parent.Location,
			StartDate:     parent.StartDate.AddDate(0, 0, 7*week),
			EndDate:       parent.EndDate.AddDate(0, 0, 7*week),
			IsWeekly:      true,
			WeekNumber:    week,
			ParentEventID: &parentID,
			FlyerURL:      parent.FlyerURL,
		}
		if err := config.DB.Create(&child).Error; err != nil {
			utils.LogError("Failed to create occurrence week %d for event ID: %d: %v", week, parent.ID, err)
			continue
		}

		// Best-effort settings inheritance; one failed sync must not
		// abort the batch
		for _, templateID := range templateIDs {
			utils.SyncCodeTemplateToCodeSettings(templateID, child.ID)
		}
		created = append(created, child)
	}

	utils.LogInfo("Generated %d occurrences for event ID: %d", len(created), parent.ID)
	utils.Created(c, "Occurrences generated successfully", gin.H{
		"events": created,
	})
}

// inheritableTemplateIDs returns the templates whose settings should be
// copied onto generated children: global attachments of the brand, plus
// enabled activations flagged apply_to_children.
func inheritableTemplateIDs(parent *models.Event) []uint {
	var ids []uint

	var globalIDs []uint
	config.DB.Model(&models.CodeBrandAttachment{}).
		Where("brand_id = ? AND is_global_for_brand = ?", parent.BrandID, true).
		Pluck("code_template_id", &globalIDs)
	ids = append(ids, globalIDs...)

	var activatedIDs []uint
	config.DB.Model(&models.EventCodeActivation{}).
		Where("event_id = ? AND is_enabled = ? AND apply_to_children = ?", parent.ID, true, true).
		Pluck("code_template_id", &activatedIDs)

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range activatedIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

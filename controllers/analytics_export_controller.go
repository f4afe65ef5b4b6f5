package controllers

import (
	"fmt"
	"time"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// DownloadGuestListExcel streams the full guest list for an event as an
// Excel workbook, one row per issued code plus a per-code summary.
func DownloadGuestListExcel(c *gin.Context) {
	utils.LogInfo("DownloadGuestListExcel called")

	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}
	event, ok := loadEventWithAccess(c, eventID)
	if !ok {
		return
	}

	var brand models.Brand
	if err := config.DB.First(&brand, event.BrandID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load brand", err.Error())
		return
	}

	var codes []models.Code
	if err := config.DB.Preload("CodeSetting").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&codes).Error; err != nil {
		utils.LogError("Failed to fetch codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to fetch codes", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d codes for guest list export", len(codes))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Guest List")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString(brand.Name + " - Guest List")
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Event: " + event.Title)
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Date: " + event.StartDate.Format("2006-01-02"))
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Exported: " + time.Now().Format("2006-01-02 15:04"))
	sheet.AddRow() // spacing

	headers := []string{"Code", "Type", "Guest", "Email", "Phone", "Pax", "Checked", "Status", "Issued At"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, code := range codes {
		row := sheet.AddRow()
		row.AddCell().SetString(code.Value)
		row.AddCell().SetString(code.CodeSetting.Name)
		row.AddCell().SetString(code.GuestName)
		row.AddCell().SetString(code.GuestEmail)
		row.AddCell().SetString(code.GuestPhone)
		row.AddCell().SetInt(code.Pax)
		row.AddCell().SetInt(code.PaxChecked)
		row.AddCell().SetString(code.Status)
		row.AddCell().SetString(code.CreatedAt.Format("2006-01-02 15:04"))
	}

	sheet.AddRow() // spacing

	stats, err := eventCodeStats(eventID)
	if err != nil {
		utils.LogError("Failed to aggregate codes for event ID: %d: %v", eventID, err)
		utils.InternalServerError(c, "Failed to aggregate codes", err.Error())
		return
	}

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	for _, s := range stats {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Name)
		row.AddCell().SetString(fmt.Sprintf("issued %d", s.Issued))
		row.AddCell().SetString(fmt.Sprintf("pax %d/%d", s.PaxChecked, s.PaxTotal))
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=guest-list-%d.xlsx", event.ID))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Guest list Excel exported for event ID: %d", eventID)
}

package utils

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"

	"github.com/aronh-dev/GuestSphere/models"
)

// GenerateCodePDF renders the ticket PDF for an issued code: event header,
// guest details, the code's condition text and a QR of the code value for
// door check-in.
func GenerateCodePDF(code *models.Code, setting *models.CodeSetting, event *models.Event, brand *models.Brand) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Brand header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, brand.Name)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, event.Title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	if event.Location != "" {
		pdf.Cell(100, 8, event.Location)
		pdf.Ln(6)
	}
	if !event.StartDate.IsZero() {
		pdf.Cell(100, 8, event.StartDate.Format("Monday, 02 Jan 2006 15:04"))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Code details
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(100, 8, setting.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	if code.GuestName != "" {
		pdf.Cell(100, 8, "Guest: "+code.GuestName)
		pdf.Ln(6)
	}
	pdf.Cell(100, 8, "People: "+strconv.Itoa(code.Pax))
	pdf.Ln(6)
	if setting.Condition != "" {
		pdf.Cell(100, 8, setting.Condition)
		pdf.Ln(6)
	}
	pdf.Ln(8)

	// QR code for door scan
	key := barcode.RegisterQR(pdf, code.Value, qr.M, qr.Auto)
	barcode.Barcode(pdf, key, 70, pdf.GetY(), 70, 70, false)
	pdf.SetY(pdf.GetY() + 74)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, code.Value, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %v", err)
	}
	return buf.Bytes(), nil
}

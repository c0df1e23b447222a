// Package receipt renders a booking confirmation as a one-page PDF.
package receipt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

// ContentType is the MIME type of a rendered receipt.
const ContentType = "application/pdf"

// Render builds the PDF receipt for c. Text is set in the core fonts, so
// characters outside cp1252 cannot be shown.
func Render(c domain.Confirmation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Booking receipt "+c.Reference, true)
	pdf.SetCompression(false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line(pdf, tr, "Reference", c.Reference)
	line(pdf, tr, "Paid at", c.PaidAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passenger")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	line(pdf, tr, "Name", orDash(c.PassengerName))
	line(pdf, tr, "Email", orDash(c.Email))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Journey")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	trip := "One way"
	if c.IsRoundTrip {
		trip = "Round trip"
	}
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s -> %s (%s)", orDash(c.From), orDash(c.To), trip)), "", "", false)
	pdf.Ln(2)
	line(pdf, tr, "Vehicle", orDash(c.VehicleName))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total paid: GBP "+c.TotalPaid)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Card ending "+orDash(c.CardLastFour))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please keep this receipt and quote the reference if you contact us.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt.Render: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the download name for the receipt of c.
func Filename(c domain.Confirmation) string {
	return fmt.Sprintf("receipt_%s.pdf", strings.ToLower(c.Reference))
}

func line(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.Cell(0, 7, tr(fmt.Sprintf("%-10s: %s", label, value)))
	pdf.Ln(7)
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

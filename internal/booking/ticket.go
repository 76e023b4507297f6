package booking

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rizia-events/rizia-backend/internal/event"
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateTicketPDF renders a single-page e-ticket. The QR code encodes the
// booking id. ev may be nil when the event no longer exists.
func GenerateTicketPDF(b *Booking, ev *event.Event) ([]byte, error) {
	qrBytes, err := qrcode.Encode(b.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode ticket qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(strings.ReplaceAll(s, "₹", "INR ")) }

	// --- Header ---
	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "RIZIA EVENTS eTICKET")
	pdf.Ln(18)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	// --- Booking Summary + QR ---
	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 55, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		"Booking ID: " + b.ID,
		"Name: " + b.ContactName,
		"Email: " + b.ContactEmail,
		fmt.Sprintf("Tickets: %d", b.TicketCount),
		"Total Paid: " + b.TotalAmount,
	} {
		pdf.SetX(20)
		pdf.Cell(0, 8, text(line))
		pdf.Ln(6)
	}

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", 145, yStart+5, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 63)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Scan this QR code at the venue for entry.")
	pdf.Ln(10)

	// --- Event Details ---
	drawSectionTitle(pdf, "EVENT DETAILS")
	pdf.SetFont("Helvetica", "", 12)
	details := []string{"Event: " + b.EventName}
	if ev != nil {
		if ev.Date != "" || ev.Time != "" {
			details = append(details, strings.TrimSpace("Date & Time: "+ev.Date+" "+ev.Time))
		}
		if ev.Venue != "" {
			details = append(details, "Venue: "+ev.Venue)
		}
		if ev.VenueAddress != "" {
			details = append(details, "Address: "+ev.VenueAddress)
		}
		if ev.AgeRestriction != "" {
			details = append(details, "Age: "+ev.AgeRestriction)
		}
	}
	for _, line := range details {
		pdf.MultiCell(0, 7, text(line), "", "L", false)
	}
	pdf.Ln(4)

	// --- Payment Info ---
	drawSectionTitle(pdf, "PAYMENT INFORMATION")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, text("Method: "+strings.ToUpper(b.PaymentMethod)))
	pdf.Ln(6)
	if b.PaymentOrderID != "" {
		pdf.Cell(0, 8, text("Order ID: "+b.PaymentOrderID))
		pdf.Ln(6)
	}
	pdf.Cell(0, 8, text("Status: "+b.Status))
	pdf.Ln(6)

	// --- Footer ---
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, text("Booked on "+b.CreatedAt.Format("02 Jan 2006 15:04 MST")), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}

package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// UnsupportedFormatError is returned for an unknown export format.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %q (use xlsx, pdf or csv)", e.Format)
}

// Exporter renders a Report and returns data, filename and content type.
type Exporter interface {
	Export(format string, report *Report) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewExporter() Exporter {
	return &reportExporter{}
}

var bookingHeaders = []string{"Booking ID", "Event", "Contact", "Tickets", "Amount", "Status", "Created At"}

func (e *reportExporter) Export(format string, report *Report) ([]byte, string, string, error) {
	timestamp := report.GeneratedAt.Format("20060102_150405")

	var (
		data        []byte
		err         error
		contentType string
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatExcel, "excel":
		format, contentType = FormatExcel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		data, err = e.exportExcel(report)
	case FormatCSV:
		format, contentType = FormatCSV, "text/csv"
		data, err = e.exportCSV(report)
	case FormatPDF:
		format, contentType = FormatPDF, "application/pdf"
		data, err = e.exportPDF(report)
	default:
		return nil, "", "", &UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, "", "", err
	}
	return data, fmt.Sprintf("analytics_report_%s.%s", timestamp, format), contentType, nil
}

func summaryRows(r *Report) [][]string {
	return [][]string{
		{"Total Events", strconv.Itoa(r.TotalEvents)},
		{"Total Bookings", strconv.Itoa(r.TotalBookings)},
		{"Total Submissions", strconv.Itoa(r.TotalSubmissions)},
		{"Total Users", strconv.Itoa(r.TotalUsers)},
		{"Total Revenue (INR)", strconv.FormatFloat(r.TotalRevenue, 'f', 2, 64)},
	}
}

func bookingRecord(r *Report, i int) []string {
	b := r.RecentBookings[i]
	return []string{
		b.ID,
		b.EventName,
		b.ContactName,
		strconv.Itoa(b.TicketCount),
		strings.ReplaceAll(b.TotalAmount, "₹", "INR "),
		b.Status,
		b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

//// ============================
/// CSV
//// ============================

func (e *reportExporter) exportCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{{"Metric", "Value"}}
	records = append(records, summaryRows(r)...)

	records = append(records, nil, []string{"Category", "Events"})
	for _, row := range SortedStats(r.CategoryStats) {
		records = append(records, []string{row.Name, strconv.Itoa(row.Count)})
	}

	records = append(records, nil, []string{"City", "Events"})
	for _, row := range SortedStats(r.CityStats) {
		records = append(records, []string{row.Name, strconv.Itoa(row.Count)})
	}

	records = append(records, nil, bookingHeaders)
	for i := range r.RecentBookings {
		records = append(records, bookingRecord(r, i))
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// EXCEL
//// ============================

func (e *reportExporter) exportExcel(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	rows := append([][]string{{"Metric", "Value"}}, summaryRows(r)...)
	if err := writeSheet(f, summary, rows); err != nil {
		return nil, err
	}

	for _, sheet := range []struct {
		name  string
		label string
		stats map[string]int
	}{
		{"Categories", "Category", r.CategoryStats},
		{"Cities", "City", r.CityStats},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		rows := [][]string{{sheet.label, "Events"}}
		for _, row := range SortedStats(sheet.stats) {
			rows = append(rows, []string{row.Name, strconv.Itoa(row.Count)})
		}
		if err := writeSheet(f, sheet.name, rows); err != nil {
			return nil, err
		}
	}

	const recent = "Recent Bookings"
	if _, err := f.NewSheet(recent); err != nil {
		return nil, err
	}
	rows = [][]string{bookingHeaders}
	for i := range r.RecentBookings {
		rows = append(rows, bookingRecord(r, i))
	}
	if err := writeSheet(f, recent, rows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

//// ============================
/// PDF
//// ============================

func (e *reportExporter) exportPDF(r *Report) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Rizia Analytics Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	table := func(title string, headers []string, widths []float64, rows [][]string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range rows {
			for i, v := range row {
				pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	table("Summary", []string{"Metric", "Value"}, []float64{70, 50}, summaryRows(r))

	statRows := func(stats map[string]int) [][]string {
		var rows [][]string
		for _, row := range SortedStats(stats) {
			rows = append(rows, []string{row.Name, strconv.Itoa(row.Count)})
		}
		return rows
	}
	table("Events by Category", []string{"Category", "Events"}, []float64{70, 30}, statRows(r.CategoryStats))
	table("Events by City", []string{"City", "Events"}, []float64{70, 30}, statRows(r.CityStats))

	var recent [][]string
	for i := range r.RecentBookings {
		recent = append(recent, bookingRecord(r, i))
	}
	table("Recent Bookings", bookingHeaders, []float64{55, 60, 40, 18, 28, 25, 40}, recent)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package analytics

import (
	"time"

	"github.com/rizia-events/rizia-backend/internal/booking"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// RecentBookingsLimit caps Report.RecentBookings.
const RecentBookingsLimit = 5

// Report is recomputed from full list scans on every request.
type Report struct {
	TotalEvents      int               `json:"totalEvents"`
	TotalBookings    int               `json:"totalBookings"`
	TotalSubmissions int               `json:"totalSubmissions"`
	TotalUsers       int               `json:"totalUsers"`
	TotalRevenue     float64           `json:"totalRevenue"`
	CategoryStats    map[string]int    `json:"categoryStats"`
	CityStats        map[string]int    `json:"cityStats"`
	RecentBookings   []booking.Booking `json:"recentBookings"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}

// StatRow is one line of a category or city breakdown.
type StatRow struct {
	Name  string
	Count int
}

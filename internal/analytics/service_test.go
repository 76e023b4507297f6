package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/booking"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/submission"
	"github.com/rizia-events/rizia-backend/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	admin = middleware.AccessContext{UserID: "usr_admin", RoleName: middleware.RoleAdmin}
	alice = middleware.AccessContext{UserID: "usr_alice", RoleName: middleware.RoleUser}
)

type fixture struct {
	svc      *Service
	bookings *booking.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	audit := auditlog.NewService(auditlog.NewRepository(store))

	users := auth.NewRepository(store)
	for _, u := range []auth.User{
		{ID: "usr_admin", Email: "admin@rizia.com", Role: auth.RoleAdmin},
		{ID: "usr_alice", Email: "alice@example.com", Role: auth.RoleUser},
	} {
		u := u
		require.NoError(t, users.Create(ctx, &u, "hash"))
	}

	eventRepo := event.NewRepository(store)
	_, err := event.NewService(eventRepo, audit).Seed(ctx, "")
	require.NoError(t, err)

	bookings := booking.NewRepository(store)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, b := range []booking.Booking{
		{ID: "bkg_1", EventID: "evt_seed_1", TotalAmount: "₹1574", Status: booking.StatusConfirmed},
		{ID: "bkg_2", EventID: "evt_seed_2", TotalAmount: "₹1,258", Status: booking.StatusConfirmed},
		{ID: "bkg_3", EventID: "evt_seed_2", TotalAmount: "₹629", Status: booking.StatusCancelled},
		{ID: "bkg_4", EventID: "evt_seed_3", TotalAmount: "Free", Status: booking.StatusConfirmed},
		{ID: "bkg_5", EventID: "evt_seed_6", TotalAmount: "₹1049", Status: booking.StatusConfirmed},
		{ID: "bkg_6", EventID: "evt_seed_6", TotalAmount: "₹2098", Status: booking.StatusConfirmed},
	} {
		b := b
		b.UserID = "usr_alice"
		b.TicketCount = 1
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, bookings.Save(ctx, &b))
	}

	subs := submission.NewRepository(store)
	require.NoError(t, subs.Save(ctx, &submission.Submission{
		ID: "sub_1", UserID: "usr_alice", CompetitionID: "evt_seed_4", Title: "Entry",
		Status: submission.StatusSubmitted, Timestamp: base,
	}))

	svc := NewService(eventRepo, bookings, subs, users)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	return &fixture{svc: svc, bookings: bookings}
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Report(ctx, alice)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	r, err := f.svc.Report(ctx, admin)
	require.NoError(t, err)

	assert.Equal(t, 6, r.TotalEvents)
	assert.Equal(t, 6, r.TotalBookings)
	assert.Equal(t, 1, r.TotalSubmissions)
	assert.Equal(t, 2, r.TotalUsers)
	assert.InDelta(t, 1574+1258+1049+2098, r.TotalRevenue, 0.001, "cancelled and free bookings add nothing")

	assert.Equal(t, 2, r.CityStats["Mumbai"])
	assert.Equal(t, 1, r.CityStats["Pune"])
	assert.Equal(t, 2, r.CategoryStats["Competition"])
	assert.Equal(t, 1, r.CategoryStats["Music"])

	require.Len(t, r.RecentBookings, RecentBookingsLimit)
	assert.Equal(t, "bkg_6", r.RecentBookings[0].ID)
	assert.Equal(t, "bkg_2", r.RecentBookings[4].ID)
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, nil, 0, 0)
	assert.Zero(t, r.TotalRevenue)
	assert.NotNil(t, r.CategoryStats)
	assert.NotNil(t, r.CityStats)
	assert.NotNil(t, r.RecentBookings)
}

func TestSortedStats(t *testing.T) {
	rows := SortedStats(map[string]int{"Pune": 1, "Mumbai": 2, "Delhi": 1})
	assert.Equal(t, []StatRow{{"Mumbai", 2}, {"Delhi", 1}, {"Pune", 1}}, rows)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data, name, ct, err := f.svc.Export(ctx, FormatCSV, admin)
	require.NoError(t, err)
	assert.Equal(t, "analytics_report_20261019_093000.csv", name)
	assert.Equal(t, "text/csv", ct)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, records[0])
	assert.Equal(t, []string{"Total Revenue (INR)", "5979.00"}, records[5])

	data, name, _, err = f.svc.Export(ctx, "XLSX", admin)
	require.NoError(t, err)
	assert.Equal(t, "analytics_report_20261019_093000.xlsx", name)
	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Summary", "Categories", "Cities", "Recent Bookings"}, book.GetSheetList())
	v, err := book.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "6", v)

	data, _, ct, err = f.svc.Export(ctx, FormatPDF, admin)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, _, _, err = f.svc.Export(ctx, "docx", admin)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	_, _, _, err = f.svc.Export(ctx, FormatCSV, alice)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestHandler(t *testing.T) {
	f := newFixture(t)
	gin.SetMode(gin.TestMode)

	as := func(ac middleware.AccessContext) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set("access_context", ac) }
	}
	h := NewHandler(f.svc)
	r := gin.New()
	r.GET("/admin/analytics", as(admin), h.GetAnalytics)
	r.GET("/admin/analytics/export", as(admin), h.ExportAnalytics)
	r.GET("/user/analytics", as(alice), h.GetAnalytics)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/analytics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalEvents":6`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/analytics", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/analytics/export?format=pdf", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "analytics_report_")
}

package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/booking"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/payment"
	"github.com/rizia-events/rizia-backend/internal/submission"
	"github.com/rizia-events/rizia-backend/logger"
	"github.com/rizia-events/rizia-backend/middleware"
)

type EventSource interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
}

type BookingSource interface {
	ListAll(ctx context.Context) ([]booking.Booking, error)
}

type SubmissionSource interface {
	ListAll(ctx context.Context) ([]submission.Submission, error)
}

type UserSource interface {
	List(ctx context.Context) ([]auth.User, error)
}

type Service struct {
	events      EventSource
	bookings    BookingSource
	submissions SubmissionSource
	users       UserSource
	exporter    Exporter
	now         func() time.Time
}

func NewService(events EventSource, bookings BookingSource, submissions SubmissionSource, users UserSource) *Service {
	return &Service{
		events:      events,
		bookings:    bookings,
		submissions: submissions,
		users:       users,
		exporter:    NewExporter(),
		now:         time.Now,
	}
}

// Report aggregates the whole store. Admin only.
func (s *Service) Report(ctx context.Context, ac middleware.AccessContext) (*Report, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list events", err)
	}
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list submissions", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}

	report := Build(events, bookings, len(submissions), len(users))
	report.GeneratedAt = s.now().UTC()

	logger.Log.Info("[analytics] report computed",
		"events", report.TotalEvents,
		"bookings", report.TotalBookings,
		"revenue", report.TotalRevenue,
	)
	return report, nil
}

// Export renders the report as a downloadable file.
func (s *Service) Export(ctx context.Context, format string, ac middleware.AccessContext) ([]byte, string, string, error) {
	report, err := s.Report(ctx, ac)
	if err != nil {
		return nil, "", "", err
	}
	data, filename, contentType, err := s.exporter.Export(format, report)
	if err != nil {
		if _, ok := err.(*UnsupportedFormatError); ok {
			return nil, "", "", apperror.InvalidInput(err.Error())
		}
		return nil, "", "", apperror.Internal("failed to export analytics", err)
	}
	return data, filename, contentType, nil
}

// Build computes the report from already loaded lists.
func Build(events []event.Event, bookings []booking.Booking, submissionCount, userCount int) *Report {
	r := &Report{
		TotalEvents:      len(events),
		TotalBookings:    len(bookings),
		TotalSubmissions: submissionCount,
		TotalUsers:       userCount,
		CategoryStats:    map[string]int{},
		CityStats:        map[string]int{},
		RecentBookings:   []booking.Booking{},
	}

	for _, e := range events {
		if e.Category != "" {
			r.CategoryStats[e.Category]++
		}
		if e.City != "" {
			r.CityStats[e.City]++
		}
	}

	for _, b := range bookings {
		if b.Status == booking.StatusCancelled {
			continue
		}
		r.TotalRevenue += payment.ParseAmount(b.TotalAmount)
	}

	sorted := booking.NewestFirst(append([]booking.Booking(nil), bookings...))
	if len(sorted) > RecentBookingsLimit {
		sorted = sorted[:RecentBookingsLimit]
	}
	r.RecentBookings = append(r.RecentBookings, sorted...)
	return r
}

// SortedStats orders a breakdown by count descending, then name.
func SortedStats(stats map[string]int) []StatRow {
	rows := make([]StatRow, 0, len(stats))
	for name, count := range stats {
		rows = append(rows, StatRow{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

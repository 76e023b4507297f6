package client

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rizia-events/rizia-backend/internal/analytics"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/booking"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/submission"
	"github.com/rizia-events/rizia-backend/internal/userprofile"
)

// ==================== EVENTS ====================

func (c *Client) ListEvents(ctx context.Context, f event.Filter) ([]event.Event, error) {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	var out struct {
		Events []event.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/events", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return c.eventCall(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil)
}

func (c *Client) CreateEvent(ctx context.Context, req event.CreateEventRequest) (*event.Event, error) {
	return c.eventCall(ctx, http.MethodPost, "/events", req)
}

func (c *Client) UpdateEvent(ctx context.Context, id string, req event.UpdateEventRequest) (*event.Event, error) {
	return c.eventCall(ctx, http.MethodPut, "/events/"+url.PathEscape(id), req)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) eventCall(ctx context.Context, method, path string, body any) (*event.Event, error) {
	var out struct {
		Event *event.Event `json:"event"`
	}
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Event, nil
}

// Init seeds the demo catalogue when the store has no events.
func (c *Client) Init(ctx context.Context) (*event.SeedResult, error) {
	var out event.SeedResult
	if err := c.do(ctx, http.MethodPost, "/init", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ==================== BOOKINGS ====================

func (c *Client) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (*booking.Booking, error) {
	return c.bookingCall(ctx, http.MethodPost, "/bookings", req)
}

func (c *Client) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return c.bookingCall(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil)
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id, status string) (*booking.Booking, error) {
	return c.bookingCall(ctx, http.MethodPut, "/bookings/"+url.PathEscape(id), booking.UpdateStatusRequest{Status: status})
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListUserBookings(ctx context.Context, userID string) ([]booking.Booking, error) {
	return c.bookingList(ctx, "/bookings/user/"+url.PathEscape(userID))
}

func (c *Client) ListEventBookings(ctx context.Context, eventID string) ([]booking.Booking, error) {
	return c.bookingList(ctx, "/bookings/event/"+url.PathEscape(eventID))
}

func (c *Client) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	return c.bookingList(ctx, "/bookings")
}

// DownloadTicket returns the e-ticket PDF bytes.
func (c *Client) DownloadTicket(ctx context.Context, id string) ([]byte, error) {
	raw, _, err := c.send(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id)+"/ticket", nil, nil)
	return raw, err
}

func (c *Client) bookingCall(ctx context.Context, method, path string, body any) (*booking.Booking, error) {
	var out struct {
		Booking *booking.Booking `json:"booking"`
	}
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Booking, nil
}

func (c *Client) bookingList(ctx context.Context, path string) ([]booking.Booking, error) {
	var out struct {
		Bookings []booking.Booking `json:"bookings"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// ==================== SUBMISSIONS ====================

func (c *Client) CreateSubmission(ctx context.Context, req submission.CreateSubmissionRequest) (*submission.Submission, error) {
	return c.submissionCall(ctx, http.MethodPost, "/submissions", req)
}

func (c *Client) GetSubmission(ctx context.Context, id string) (*submission.Submission, error) {
	return c.submissionCall(ctx, http.MethodGet, "/submissions/"+url.PathEscape(id), nil)
}

func (c *Client) UpdateSubmissionStatus(ctx context.Context, id, status string) (*submission.Submission, error) {
	return c.submissionCall(ctx, http.MethodPut, "/submissions/"+url.PathEscape(id), submission.UpdateStatusRequest{Status: status})
}

func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/submissions/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListUserSubmissions(ctx context.Context, userID string) ([]submission.Submission, error) {
	return c.submissionList(ctx, "/submissions/user/"+url.PathEscape(userID))
}

func (c *Client) ListCompetitionSubmissions(ctx context.Context, eventID string) ([]submission.Submission, error) {
	return c.submissionList(ctx, "/submissions/event/"+url.PathEscape(eventID))
}

func (c *Client) ListSubmissions(ctx context.Context) ([]submission.Submission, error) {
	return c.submissionList(ctx, "/submissions")
}

func (c *Client) submissionCall(ctx context.Context, method, path string, body any) (*submission.Submission, error) {
	var out struct {
		Submission *submission.Submission `json:"submission"`
	}
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Submission, nil
}

func (c *Client) submissionList(ctx context.Context, path string) ([]submission.Submission, error) {
	var out struct {
		Submissions []submission.Submission `json:"submissions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Submissions, nil
}

// ==================== USERS ====================

func (c *Client) ListUsers(ctx context.Context) ([]auth.User, error) {
	var out struct {
		Users []auth.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*auth.User, error) {
	return c.userCall(ctx, http.MethodGet, id, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in userprofile.UpdateProfileInput) (*auth.User, error) {
	return c.userCall(ctx, http.MethodPut, id, in)
}

func (c *Client) userCall(ctx context.Context, method, id string, body any) (*auth.User, error) {
	var out struct {
		User *auth.User `json:"user"`
	}
	if err := c.do(ctx, method, "/users/"+url.PathEscape(id), nil, body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ==================== ANALYTICS ====================

func (c *Client) Analytics(ctx context.Context) (*analytics.Report, error) {
	var out analytics.Report
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyticsOrZero never fails. Any error yields an empty report.
func (c *Client) AnalyticsOrZero(ctx context.Context) *analytics.Report {
	r, err := c.Analytics(ctx)
	if err != nil {
		return &analytics.Report{
			CategoryStats: map[string]int{},
			CityStats:     map[string]int{},
		}
	}
	return r
}

// ExportAnalytics downloads the report in format (xlsx, pdf or csv) and
// returns the file bytes and the server-suggested filename.
func (c *Client) ExportAnalytics(ctx context.Context, format string) ([]byte, string, error) {
	raw, header, err := c.send(ctx, http.MethodGet, "/analytics/export", url.Values{"format": {format}}, nil)
	if err != nil {
		return nil, "", err
	}
	var filename string
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return raw, filename, nil
}

// ==================== AUDIT LOGS ====================

type AuditLogQuery struct {
	UserID   string
	EntityID string
	Action   string
	Status   string
	Page     int
	Limit    int
}

func (c *Client) AuditLogs(ctx context.Context, q AuditLogQuery) (*auditlog.PaginatedAuditLogs, error) {
	v := url.Values{}
	for key, val := range map[string]string{
		"user_id":   q.UserID,
		"entity_id": q.EntityID,
		"action":    q.Action,
		"status":    q.Status,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	var out auditlog.PaginatedAuditLogs
	if err := c.do(ctx, http.MethodGet, "/audit-logs", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

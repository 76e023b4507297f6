package event

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/middleware"
)

// Service wraps business logic for events
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service

	now func() time.Time
}

func NewService(r *Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:     r,
		AuditSvc: auditSvc,
		now:      time.Now,
	}
}

// ===========================
// List Events
func (s *Service) ListEvents(ctx context.Context, f Filter) ([]Event, error) {
	all, err := s.Repo.ListEvents(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list events", err)
	}

	city := strings.ToLower(strings.TrimSpace(f.City))
	category := strings.ToLower(strings.TrimSpace(f.Category))
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Event, 0, len(all))
	for _, e := range all {
		if city != "" && strings.ToLower(e.City) != city {
			continue
		}
		if category != "" && strings.ToLower(e.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ===========================
// Get Event
func (s *Service) GetEvent(ctx context.Context, id string) (*Event, error) {
	e, err := s.Repo.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, apperror.NotFound("event not found")
		}
		return nil, apperror.Internal("failed to load event", err)
	}
	return e, nil
}

// ===========================
// Create Event
func (s *Service) CreateEvent(ctx context.Context, req *CreateEventRequest, ac middleware.AccessContext, ip string) (*Event, error) {
	if !ac.IsAdmin() {
		s.AuditSvc.LogAction(ctx, ac.UserID, "", "EVENT_CREATED", map[string]interface{}{
			"title": req.Title,
			"error": "admin access required",
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Forbidden("admin access required")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.InvalidInput("title is required")
	}

	e := &Event{
		ID:              kvstore.NewID("evt"),
		Title:           title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Category:        req.Category,
		City:            req.City,
		Venue:           req.Venue,
		VenueAddress:    req.VenueAddress,
		Date:            req.Date,
		Time:            req.Time,
		Price:           req.Price,
		Image:           req.Image,
		Tags:            nonNil(req.Tags),
		Features:        nonNil(req.Features),
		Language:        req.Language,
		AgeRestriction:  req.AgeRestriction,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.Repo.SaveEvent(ctx, e); err != nil {
		s.AuditSvc.LogAction(ctx, ac.UserID, e.ID, "EVENT_CREATED", map[string]interface{}{
			"title": e.Title,
			"error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to create event", err)
	}

	s.AuditSvc.LogAction(ctx, ac.UserID, e.ID, "EVENT_CREATED", map[string]interface{}{
		"title":    e.Title,
		"category": e.Category,
		"city":     e.City,
		"date":     e.Date,
	}, ip, auditlog.StatusSuccess)

	return e, nil
}

// ===========================
// Update Event
func (s *Service) UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest, ac middleware.AccessContext, ip string) (*Event, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}

	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return nil, apperror.InvalidInput("title cannot be empty")
		}
		e.Title = t
	}
	setIf(&e.Description, req.Description)
	setIf(&e.FullDescription, req.FullDescription)
	setIf(&e.Category, req.Category)
	setIf(&e.City, req.City)
	setIf(&e.Venue, req.Venue)
	setIf(&e.VenueAddress, req.VenueAddress)
	setIf(&e.Date, req.Date)
	setIf(&e.Time, req.Time)
	setIf(&e.Price, req.Price)
	setIf(&e.Image, req.Image)
	setIf(&e.Language, req.Language)
	setIf(&e.AgeRestriction, req.AgeRestriction)
	if req.Tags != nil {
		e.Tags = nonNil(*req.Tags)
	}
	if req.Features != nil {
		e.Features = nonNil(*req.Features)
	}

	now := s.now().UTC()
	e.UpdatedAt = &now

	if err := s.Repo.SaveEvent(ctx, e); err != nil {
		s.AuditSvc.LogAction(ctx, ac.UserID, id, "EVENT_UPDATED", map[string]interface{}{
			"error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to update event", err)
	}

	s.AuditSvc.LogAction(ctx, ac.UserID, id, "EVENT_UPDATED", map[string]interface{}{
		"title": e.Title,
	}, ip, auditlog.StatusSuccess)
	return e, nil
}

// ===========================
// Delete Event
func (s *Service) DeleteEvent(ctx context.Context, id string, ac middleware.AccessContext, ip string) error {
	if !ac.IsAdmin() {
		return apperror.Forbidden("admin access required")
	}

	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteEvent(ctx, id); err != nil {
		s.AuditSvc.LogAction(ctx, ac.UserID, id, "EVENT_DELETED", map[string]interface{}{
			"error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return apperror.Internal("failed to delete event", err)
	}

	s.AuditSvc.LogAction(ctx, ac.UserID, id, "EVENT_DELETED", map[string]interface{}{
		"title": e.Title,
	}, ip, auditlog.StatusSuccess)
	return nil
}

// ===========================
// Seed the demo catalogue once
func (s *Service) Seed(ctx context.Context, ip string) (*SeedResult, error) {
	events := SeedEvents(s.now().UTC())

	seeded, err := s.Repo.SeedIfEmpty(ctx, events)
	if err != nil {
		return nil, apperror.Internal("failed to initialize data", err)
	}
	if !seeded {
		return &SeedResult{Seeded: false}, nil
	}

	s.AuditSvc.LogAction(ctx, "", "", "EVENTS_SEEDED", map[string]interface{}{
		"count": len(events),
	}, ip, auditlog.StatusSuccess)
	return &SeedResult{Seeded: true, Count: len(events)}, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

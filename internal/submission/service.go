package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/notification"
	"github.com/rizia-events/rizia-backend/logger"
	"github.com/rizia-events/rizia-backend/middleware"
)

type Service interface {
	Create(ctx context.Context, req CreateSubmissionRequest, ac middleware.AccessContext, ip string) (*Submission, error)
	Get(ctx context.Context, id string, ac middleware.AccessContext) (*Submission, error)
	ListByUser(ctx context.Context, userID string, ac middleware.AccessContext) ([]Submission, error)
	ListByCompetition(ctx context.Context, competitionID string, ac middleware.AccessContext) ([]Submission, error)
	ListAll(ctx context.Context, ac middleware.AccessContext) ([]Submission, error)
	UpdateStatus(ctx context.Context, id, status string, ac middleware.AccessContext, ip string) (*Submission, error)
	Delete(ctx context.Context, id string, ac middleware.AccessContext, ip string) error
}

type eventLookup interface {
	GetEvent(ctx context.Context, id string) (*event.Event, error)
}

type userLookup interface {
	FindByID(ctx context.Context, userID string) (*auth.User, error)
}

type service struct {
	repo   Repository
	events eventLookup
	users  userLookup
	pub    notification.Publisher
	audit  auditlog.Service
	now    func() time.Time
}

func NewService(repo Repository, events eventLookup, users userLookup, pub notification.Publisher, audit auditlog.Service) Service {
	return &service{
		repo:   repo,
		events: events,
		users:  users,
		pub:    pub,
		audit:  audit,
		now:    time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateSubmissionRequest, ac middleware.AccessContext, ip string) (*Submission, error) {
	if !ac.IsAuthenticated() {
		return nil, apperror.Unauthenticated("authentication required")
	}
	title := strings.TrimSpace(req.Title)
	if strings.TrimSpace(req.CompetitionID) == "" || title == "" {
		return nil, apperror.InvalidInput("competitionId and title are required")
	}
	if strings.ContainsAny(title, "\r\n") {
		return nil, apperror.InvalidInput("title must be a single line")
	}

	if _, err := s.users.FindByID(ctx, ac.UserID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	competition, err := s.events.GetEvent(ctx, req.CompetitionID)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		ID:            kvstore.NewID("sub"),
		UserID:        ac.UserID,
		CompetitionID: competition.ID,
		Title:         title,
		Description:   req.Description,
		Status:        StatusSubmitted,
		Timestamp:     s.now().UTC(),
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		s.audit.LogAction(ctx, ac.UserID, sub.ID, "SUBMISSION_CREATED", map[string]interface{}{
			"competition_id": sub.CompetitionID,
			"error":          err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to create submission", err)
	}

	s.audit.LogAction(ctx, ac.UserID, sub.ID, "SUBMISSION_CREATED", map[string]interface{}{
		"competition_id": sub.CompetitionID,
		"title":          sub.Title,
	}, ip, auditlog.StatusSuccess)
	return sub, nil
}

func (s *service) Get(ctx context.Context, id string, ac middleware.AccessContext) (*Submission, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ac.CanAccessUser(sub.UserID) {
		return nil, apperror.Forbidden("access denied")
	}
	return sub, nil
}

func (s *service) load(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSubmissionNotFound) {
			return nil, apperror.NotFound("submission not found")
		}
		return nil, apperror.Internal("failed to load submission", err)
	}
	return sub, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, ac middleware.AccessContext) ([]Submission, error) {
	if !ac.CanAccessUser(userID) {
		return nil, apperror.Forbidden("access denied")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list submissions", err)
	}
	return list, nil
}

func (s *service) ListByCompetition(ctx context.Context, competitionID string, ac middleware.AccessContext) ([]Submission, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	list, err := s.repo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, apperror.Internal("failed to list submissions", err)
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context, ac middleware.AccessContext) ([]Submission, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list submissions", err)
	}
	return list, nil
}

func (s *service) UpdateStatus(ctx context.Context, id, status string, ac middleware.AccessContext, ip string) (*Submission, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	if !validStatuses[status] {
		return nil, apperror.InvalidInput("status must be one of Submitted, Under Review, Accepted, Rejected")
	}

	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := sub.Status
	now := s.now().UTC()
	sub.Status = status
	sub.UpdatedAt = &now

	if err := s.repo.Save(ctx, sub); err != nil {
		s.audit.LogAction(ctx, ac.UserID, sub.ID, "SUBMISSION_STATUS_UPDATED", map[string]interface{}{
			"status": status,
			"error":  err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to update submission", err)
	}

	s.audit.LogAction(ctx, ac.UserID, sub.ID, "SUBMISSION_STATUS_UPDATED", map[string]interface{}{
		"from": previous,
		"to":   status,
	}, ip, auditlog.StatusSuccess)

	if previous != status {
		s.notify(ctx, sub)
	}
	return sub, nil
}

func (s *service) notify(ctx context.Context, sub *Submission) {
	ev := notification.Event{
		Type:       notification.TypeSubmissionStatusUpdated,
		RecordID:   sub.ID,
		UserID:     sub.UserID,
		Data:       map[string]string{"title": sub.Title, "status": sub.Status, "competitionId": sub.CompetitionID},
		OccurredAt: s.now().UTC(),
	}
	if owner, err := s.users.FindByID(ctx, sub.UserID); err == nil {
		ev.Recipient = owner.Email
		ev.Name = owner.Name
	} else {
		logger.Log.Warn("[submission] owner lookup failed", "submission_id", sub.ID, "error", err)
	}
	notification.PublishAsync(s.pub, ev)
}

func (s *service) Delete(ctx context.Context, id string, ac middleware.AccessContext, ip string) error {
	if !ac.IsAdmin() {
		return apperror.Forbidden("admin access required")
	}
	sub, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sub); err != nil {
		s.audit.LogAction(ctx, ac.UserID, id, "SUBMISSION_DELETED", map[string]interface{}{
			"error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return apperror.Internal("failed to delete submission", err)
	}

	s.audit.LogAction(ctx, ac.UserID, id, "SUBMISSION_DELETED", map[string]interface{}{
		"competition_id": sub.CompetitionID,
	}, ip, auditlog.StatusSuccess)
	return nil
}

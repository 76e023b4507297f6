package auditlog

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/logger"
)

type Service interface {
	LogAction(ctx context.Context, userID, entityID, action string, details map[string]interface{}, ip, status string)
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id string) (*AuditLog, error)
	GetStats(ctx context.Context, since time.Time) (*Stats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// LogAction records an action. Storage failures are logged and swallowed.
func (s *service) LogAction(ctx context.Context, userID, entityID, action string, details map[string]interface{}, ip, status string) {
	if details == nil {
		details = make(map[string]interface{})
	}

	entry := &AuditLog{
		ID:        kvstore.NewID("aud"),
		UserID:    userID,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		Status:    status,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Log.Warn("[audit] failed to record action", "action", action, "error", err)
	}
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id string) (*AuditLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("audit log %s: %w", id, err)
	}
	return log, nil
}

// GetStats counts outcomes and actions recorded since the given time.
func (s *service) GetStats(ctx context.Context, since time.Time) (*Stats, error) {
	now := s.now()
	logs, total, err := s.repo.GetByFilter(ctx, AuditLogFilter{FromDate: &since, ToDate: &now, Limit: math.MaxInt32})
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: total, ActionBreakdown: make(map[string]int)}
	for _, l := range logs {
		if l.Status == StatusSuccess {
			stats.SuccessCount++
		} else {
			stats.FailureCount++
		}
		stats.ActionBreakdown[l.Action]++
	}
	return stats, nil
}

package auditlog

import (
	"context"
	"errors"
	"strings"

	"github.com/rizia-events/rizia-backend/internal/kvstore"
)

var ErrNotFound = errors.New("audit log not found")

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error)
	GetByID(ctx context.Context, id string) (*AuditLog, error)
}

type repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) Repository {
	return &repository{store: store}
}

// Create stores a new audit log entry
func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.store.Set(ctx, kvstore.AuditKey(log.CreatedAt, log.ID), log)
}

// GetByFilter scans all entries newest first, filters in memory and paginates.
func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error) {
	all, err := kvstore.ListAs[AuditLog](ctx, r.store, kvstore.PrefixAudit)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]AuditLog, 0, len(all))
	// keys sort oldest first
	for i := len(all) - 1; i >= 0; i-- {
		if matches(all[i], filter) {
			matched = append(matched, all[i])
		}
	}
	total := int64(len(matched))

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []AuditLog{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*AuditLog, error) {
	all, err := kvstore.ListAs[AuditLog](ctx, r.store, kvstore.PrefixAudit)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func matches(l AuditLog, f AuditLogFilter) bool {
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.EntityID != "" && l.EntityID != f.EntityID {
		return false
	}
	if f.Action != "" && !strings.Contains(strings.ToLower(l.Action), strings.ToLower(f.Action)) {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.FromDate != nil && l.CreatedAt.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && l.CreatedAt.After(*f.ToDate) {
		return false
	}
	return true
}

package event

import (
	"context"
	"errors"

	"github.com/rizia-events/rizia-backend/internal/kvstore"
)

var ErrEventNotFound = errors.New("event not found")

type Repository struct {
	Store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{Store: store}
}

// ===========================
// List every event, in key order
func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	return kvstore.ListAs[Event](ctx, r.Store, kvstore.PrefixEvent)
}

// ===========================
// Get Event By ID
func (r *Repository) GetEventByID(ctx context.Context, id string) (*Event, error) {
	if id == "" {
		return nil, ErrEventNotFound
	}
	e, err := kvstore.GetAs[Event](ctx, r.Store, kvstore.EventKey(id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// SaveEvent inserts or replaces e.
func (r *Repository) SaveEvent(ctx context.Context, e *Event) error {
	return r.Store.Set(ctx, kvstore.EventKey(e.ID), e)
}

func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, kvstore.EventKey(id))
}

// ===========================
// Seed writes events in one batch when no event exists yet.
// Reports whether anything was written.
func (r *Repository) SeedIfEmpty(ctx context.Context, events []Event) (bool, error) {
	existing, err := r.Store.GetByPrefix(ctx, kvstore.PrefixEvent)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	batch := make(map[string]any, len(events))
	for i := range events {
		batch[kvstore.EventKey(events[i].ID)] = &events[i]
	}
	if err := r.Store.SetMany(ctx, batch); err != nil {
		return false, err
	}
	return true, nil
}

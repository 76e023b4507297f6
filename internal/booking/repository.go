package booking

import (
	"context"
	"errors"

	"github.com/rizia-events/rizia-backend/internal/kvstore"
)

const kind = "booking"

var ErrBookingNotFound = errors.New("booking not found")

type Repository struct {
	Store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{Store: store}
}

func index(b *Booking) kvstore.Indexed {
	return kvstore.Indexed{Kind: kind, ID: b.ID, UserID: b.UserID, EventID: b.EventID}
}

// Save writes all three copies of b in one batch.
func (r *Repository) Save(ctx context.Context, b *Booking) error {
	return r.Store.SetMany(ctx, index(b).Values(b))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	if id == "" {
		return nil, ErrBookingNotFound
	}
	b, err := kvstore.GetAs[Booking](ctx, r.Store, kvstore.PrimaryPrefix(kind)+id)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

func (r *Repository) ListAll(ctx context.Context) ([]Booking, error) {
	return kvstore.ListAs[Booking](ctx, r.Store, kvstore.PrimaryPrefix(kind))
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	return kvstore.ListAs[Booking](ctx, r.Store, kvstore.ByUserPrefix(kind, userID))
}

func (r *Repository) ListByEvent(ctx context.Context, eventID string) ([]Booking, error) {
	return kvstore.ListAs[Booking](ctx, r.Store, kvstore.ByEventPrefix(kind, eventID))
}

// Delete removes all three copies of b in one batch.
func (r *Repository) Delete(ctx context.Context, b *Booking) error {
	return r.Store.DeleteMany(ctx, index(b).Keys())
}

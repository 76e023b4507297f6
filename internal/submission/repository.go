package submission

import (
	"context"
	"errors"
	"sort"

	"github.com/rizia-events/rizia-backend/internal/kvstore"
)

const kind = "submission"

var ErrSubmissionNotFound = errors.New("submission not found")

type Repository interface {
	Save(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	ListAll(ctx context.Context) ([]Submission, error)
	ListByUser(ctx context.Context, userID string) ([]Submission, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Submission, error)
	Delete(ctx context.Context, s *Submission) error
}

type repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) Repository {
	return &repository{store: store}
}

func index(s *Submission) kvstore.Indexed {
	return kvstore.Indexed{Kind: kind, ID: s.ID, UserID: s.UserID, EventID: s.CompetitionID}
}

func (r *repository) Save(ctx context.Context, s *Submission) error {
	return r.store.SetMany(ctx, index(s).Values(s))
}

func (r *repository) GetByID(ctx context.Context, id string) (*Submission, error) {
	if id == "" {
		return nil, ErrSubmissionNotFound
	}
	s, err := kvstore.GetAs[Submission](ctx, r.store, kvstore.PrimaryPrefix(kind)+id)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrSubmissionNotFound
	}
	return s, err
}

func (r *repository) ListAll(ctx context.Context) ([]Submission, error) {
	return r.list(ctx, kvstore.PrimaryPrefix(kind))
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Submission, error) {
	return r.list(ctx, kvstore.ByUserPrefix(kind, userID))
}

func (r *repository) ListByCompetition(ctx context.Context, competitionID string) ([]Submission, error) {
	return r.list(ctx, kvstore.ByEventPrefix(kind, competitionID))
}

// list returns newest first.
func (r *repository) list(ctx context.Context, prefix string) ([]Submission, error) {
	out, err := kvstore.ListAs[Submission](ctx, r.store, prefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *repository) Delete(ctx context.Context, s *Submission) error {
	return r.store.DeleteMany(ctx, index(s).Keys())
}

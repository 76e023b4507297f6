package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/logger"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, user *User, passwordHash string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, userID string) (*User, error)
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	SetPasswordHash(ctx context.Context, userID, hash string) error
	Update(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
}

type repository struct{ store kvstore.Store }

func NewRepository(store kvstore.Store) Repository {
	return &repository{store}
}

// Create claims the email index first, then writes profile and credential together.
func (r *repository) Create(ctx context.Context, user *User, passwordHash string) error {
	emailKey := kvstore.UserEmailKey(user.Email)
	if err := r.store.Create(ctx, emailKey, user.ID); err != nil {
		if errors.Is(err, kvstore.ErrKeyExists) {
			return ErrEmailTaken
		}
		return err
	}

	err := r.store.SetMany(ctx, map[string]any{
		kvstore.UserKey(user.ID): user,
		kvstore.CredentialKey(user.ID): Credential{
			UserID:       user.ID,
			PasswordHash: passwordHash,
			UpdatedAt:    user.CreatedAt,
		},
	})
	if err != nil {
		// release the email so the signup can be retried
		if derr := r.store.Delete(ctx, emailKey); derr != nil {
			logger.Log.Error("[auth] failed to release email index", "email", user.Email, "error", derr)
		}
		return err
	}
	return nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var userID string
	if err := r.store.Get(ctx, kvstore.UserEmailKey(email), &userID); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, userID)
}

func (r *repository) FindByID(ctx context.Context, userID string) (*User, error) {
	u, err := kvstore.GetAs[User](ctx, r.store, kvstore.UserKey(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	cred, err := kvstore.GetAs[Credential](ctx, r.store, kvstore.CredentialKey(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return cred.PasswordHash, nil
}

func (r *repository) SetPasswordHash(ctx context.Context, userID, hash string) error {
	return r.store.Set(ctx, kvstore.CredentialKey(userID), Credential{
		UserID:       userID,
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
	})
}

func (r *repository) Update(ctx context.Context, user *User) error {
	if _, err := r.FindByID(ctx, user.ID); err != nil {
		return err
	}
	if err := r.store.Set(ctx, kvstore.UserKey(user.ID), user); err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return nil
}

// List returns every profile ordered by creation time.
func (r *repository) List(ctx context.Context) ([]User, error) {
	users, err := kvstore.ListAs[User](ctx, r.store, kvstore.PrefixUser)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

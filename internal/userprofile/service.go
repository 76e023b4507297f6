package userprofile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/middleware"
)

// ========== INTERFACES ==========

type Service interface {
	List(ctx context.Context, ac middleware.AccessContext) ([]auth.User, error)
	Get(ctx context.Context, userID string, ac middleware.AccessContext) (*auth.User, error)
	Update(ctx context.Context, userID string, input UpdateProfileInput, ac middleware.AccessContext, ip string) (*auth.User, error)
}

// ========== SERVICE INIT ==========

type service struct {
	authRepo auth.Repository
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewService(authRepo auth.Repository, auditSvc auditlog.Service) Service {
	return &service{
		authRepo: authRepo,
		auditSvc: auditSvc,
		now:      time.Now,
	}
}

// ========== PROFILES ==========

func (s *service) List(ctx context.Context, ac middleware.AccessContext) ([]auth.User, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	users, err := s.authRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}
	return users, nil
}

func (s *service) Get(ctx context.Context, userID string, ac middleware.AccessContext) (*auth.User, error) {
	if !ac.CanAccessUser(userID) {
		return nil, apperror.Forbidden("access denied")
	}
	u, err := s.authRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return u, nil
}

// Update merges input onto the profile. Only admins may change the role.
func (s *service) Update(ctx context.Context, userID string, input UpdateProfileInput, ac middleware.AccessContext, ip string) (*auth.User, error) {
	u, err := s.Get(ctx, userID, ac)
	if err != nil {
		return nil, err
	}

	changed := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.InvalidInput("name cannot be empty")
		}
		u.Name = name
		changed["name"] = name
	}
	if input.Category != nil {
		u.Category = strings.TrimSpace(*input.Category)
		changed["category"] = u.Category
	}
	if input.Role != nil && *input.Role != u.Role {
		if !ac.IsAdmin() {
			s.auditSvc.LogAction(ctx, ac.UserID, userID, "USER_UPDATED", map[string]interface{}{
				"role":  *input.Role,
				"error": "role change requires admin",
			}, ip, auditlog.StatusFailure)
			return nil, apperror.Forbidden("only an admin may change roles")
		}
		if *input.Role != auth.RoleUser && *input.Role != auth.RoleAdmin {
			return nil, apperror.InvalidInput("role must be user or admin")
		}
		changed["role"] = map[string]string{"from": u.Role, "to": *input.Role}
		u.Role = *input.Role
	}

	now := s.now().UTC()
	u.UpdatedAt = &now

	if err := s.authRepo.Update(ctx, u); err != nil {
		s.auditSvc.LogAction(ctx, ac.UserID, userID, "USER_UPDATED", map[string]interface{}{
			"error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to update user", err)
	}

	s.auditSvc.LogAction(ctx, ac.UserID, userID, "USER_UPDATED", changed, ip, auditlog.StatusSuccess)
	return u, nil
}

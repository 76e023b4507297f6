package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/session"
	"github.com/rizia-events/rizia-backend/logger"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type Service interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Authenticate(ctx context.Context, accessToken string) (*User, *Claims, error)
	Logout(ctx context.Context, claims *Claims, refreshToken, ip string) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
}

// Options carries the secrets, lifetimes and bootstrap admin pair.
type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AdminEmail    string
	AdminPassword string
}

type service struct {
	repo       Repository
	revoked    session.RevocationStore
	audit      auditlog.Service
	tokens     *tokenIssuer
	adminEmail string
	adminPass  string
	now        func() time.Time
	bcryptCost int
}

func NewService(r Repository, revoked session.RevocationStore, audit auditlog.Service, opts Options) Service {
	return newService(r, revoked, audit, opts)
}

func newService(r Repository, revoked session.RevocationStore, audit auditlog.Service, opts Options) *service {
	s := &service{
		repo:       r,
		revoked:    revoked,
		audit:      audit,
		adminEmail: normaliseEmail(opts.AdminEmail),
		adminPass:  opts.AdminPassword,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	s.tokens = &tokenIssuer{
		accessSecret:  []byte(opts.AccessSecret),
		refreshSecret: []byte(opts.RefreshSecret),
		accessTTL:     opts.AccessTTL,
		refreshTTL:    opts.RefreshTTL,
		now:           func() time.Time { return s.now() },
	}
	return s
}

// =============================
// Signup
// =============================

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Category string
	IsAdmin  bool
	IP       string
}

func (s *service) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := normaliseEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.InvalidInput("email and password are required")
	}
	if in.IsAdmin {
		return nil, apperror.Forbidden("admin signup is not allowed")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.InvalidInput("invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperror.InvalidInput("password must be at least 6 characters")
	}
	if email == s.adminEmail {
		s.audit.LogAction(ctx, "", "", "USER_SIGNUP", map[string]interface{}{"email": email, "error": "reserved email"}, in.IP, auditlog.StatusFailure)
		return nil, apperror.Conflict("a user with this email already exists")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &User{
		ID:        kvstore.NewID("usr"),
		Email:     email,
		Name:      name,
		Category:  strings.TrimSpace(in.Category),
		Role:      RoleUser,
		CreatedAt: s.now().UTC(),
	}

	if err := s.createWithPassword(ctx, user, in.Password); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.audit.LogAction(ctx, "", "", "USER_SIGNUP", map[string]interface{}{"email": email, "error": "duplicate email"}, in.IP, auditlog.StatusFailure)
			return nil, apperror.Conflict("a user with this email already exists")
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	sess, err := s.tokens.session(user)
	if err != nil {
		return nil, apperror.Internal("failed to issue session", err)
	}

	s.audit.LogAction(ctx, user.ID, user.ID, "USER_SIGNUP", map[string]interface{}{"email": email}, in.IP, auditlog.StatusSuccess)
	logger.Log.Info("[auth] user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Session: sess}, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email     string
	Password  string
	LoginType string
	IP        string
}

func (s *service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normaliseEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.InvalidInput("email and password are required")
	}

	loginType := strings.ToLower(in.LoginType)
	if loginType == "" {
		loginType = LoginTypeUser
	}
	if loginType != LoginTypeUser && loginType != LoginTypeAdmin {
		return nil, apperror.InvalidInput("loginType must be user or admin")
	}

	var (
		user *User
		err  error
	)
	if loginType == LoginTypeAdmin && email == s.adminEmail && in.Password == s.adminPass {
		user, err = s.ensureBootstrapAdmin(ctx)
		if errors.Is(err, errAdminEmailInUse) {
			logger.Log.Warn("[auth] bootstrap admin email belongs to a non-admin account", "email", email)
			s.audit.LogAction(ctx, "", "", "USER_LOGIN", map[string]interface{}{"email": email, "login_type": loginType, "error": "admin email in use"}, in.IP, auditlog.StatusFailure)
			return nil, apperror.Unauthenticated("invalid credentials")
		}
		if err != nil {
			return nil, apperror.Internal("failed to provision admin", err)
		}
	} else {
		user, err = s.verifyPassword(ctx, email, in.Password)
		if err != nil {
			s.audit.LogAction(ctx, "", "", "USER_LOGIN", map[string]interface{}{"email": email, "login_type": loginType}, in.IP, auditlog.StatusFailure)
			return nil, err
		}
	}

	switch {
	case loginType == LoginTypeAdmin && !user.IsAdmin():
		s.audit.LogAction(ctx, user.ID, user.ID, "USER_LOGIN", map[string]interface{}{"login_type": loginType, "error": "not an admin"}, in.IP, auditlog.StatusFailure)
		return nil, apperror.Forbidden("this account does not have admin access")
	case loginType == LoginTypeUser && user.IsAdmin():
		s.audit.LogAction(ctx, user.ID, user.ID, "USER_LOGIN", map[string]interface{}{"login_type": loginType, "error": "admin via user login"}, in.IP, auditlog.StatusFailure)
		return nil, apperror.Forbidden("admin accounts must use the admin login")
	}

	sess, err := s.tokens.session(user)
	if err != nil {
		return nil, apperror.Internal("failed to issue session", err)
	}

	s.audit.LogAction(ctx, user.ID, user.ID, "USER_LOGIN", map[string]interface{}{"login_type": loginType}, in.IP, auditlog.StatusSuccess)
	return &AuthResult{User: user, Session: sess, IsAdmin: user.IsAdmin()}, nil
}

func (s *service) verifyPassword(ctx context.Context, email, password string) (*User, error) {
	invalid := apperror.Unauthenticated("invalid credentials")

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	hash, err := s.repo.GetPasswordHash(ctx, user.ID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperror.Internal("failed to load credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

var errAdminEmailInUse = errors.New("admin email belongs to a non-admin account")

// ensureBootstrapAdmin returns the configured admin, creating it on first use.
// An existing non-admin account under the admin email is never promoted.
// The stored hash of the admin follows the configured password.
func (s *service) ensureBootstrapAdmin(ctx context.Context) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, s.adminEmail)
	if err == nil {
		if !user.IsAdmin() {
			return nil, errAdminEmailInUse
		}
		hash, err := s.repo.GetPasswordHash(ctx, user.ID)
		if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(s.adminPass)) != nil {
			newHash, herr := bcrypt.GenerateFromPassword([]byte(s.adminPass), s.bcryptCost)
			if herr != nil {
				return nil, herr
			}
			if err := s.repo.SetPasswordHash(ctx, user.ID, string(newHash)); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	admin := &User{
		ID:        kvstore.NewID("usr"),
		Email:     s.adminEmail,
		Name:      "Admin",
		Role:      RoleAdmin,
		CreatedAt: s.now().UTC(),
	}
	if err := s.createWithPassword(ctx, admin, s.adminPass); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// provisioned concurrently
			existing, ferr := s.repo.FindByEmail(ctx, s.adminEmail)
			if ferr != nil {
				return nil, ferr
			}
			if !existing.IsAdmin() {
				return nil, errAdminEmailInUse
			}
			return existing, nil
		}
		return nil, err
	}
	logger.Log.Info("[auth] bootstrap admin provisioned", "user_id", admin.ID)
	return admin, nil
}

func (s *service) createWithPassword(ctx context.Context, user *User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, user, string(hash))
}

// =============================
// Tokens
// =============================

func (s *service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperror.InvalidInput("refresh_token is required")
	}
	claims, err := s.tokens.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid refresh token")
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperror.Unauthenticated("user not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}

	access, exp, err := s.tokens.sign(user, tokenTypeAccess)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}
	return &Session{AccessToken: access, RefreshToken: refreshToken, ExpiresAt: exp.Unix()}, nil
}

// Authenticate resolves an access token to its user. The profile is re-read
// so role changes apply to tokens already issued.
func (s *service) Authenticate(ctx context.Context, accessToken string) (*User, *Claims, error) {
	if accessToken == "" {
		return nil, nil, apperror.Unauthenticated("no access token provided")
	}
	claims, err := s.tokens.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, nil, apperror.Unauthenticated("invalid session")
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, nil, err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil, apperror.Unauthenticated("user not found")
	}
	if err != nil {
		return nil, nil, apperror.Internal("failed to load user", err)
	}
	return user, claims, nil
}

func (s *service) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return apperror.Internal("failed to check session", err)
	}
	if revoked {
		return apperror.Unauthenticated("session has been signed out")
	}
	return nil
}

// =============================
// Logout
// =============================

// Logout revokes the access token and, when given, the refresh token.
func (s *service) Logout(ctx context.Context, claims *Claims, refreshToken, ip string) error {
	if claims == nil {
		return apperror.Unauthenticated("no access token provided")
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperror.Internal("failed to sign out", err)
	}
	if refreshToken != "" {
		if rc, err := s.tokens.parse(refreshToken, tokenTypeRefresh); err == nil && rc.UserID == claims.UserID {
			if err := s.revoked.Revoke(ctx, rc.ID, rc.ExpiresAt.Time); err != nil {
				return apperror.Internal("failed to sign out", err)
			}
		}
	}
	s.audit.LogAction(ctx, claims.UserID, claims.UserID, "USER_LOGOUT", nil, ip, auditlog.StatusSuccess)
	return nil
}

// =============================
// Get User By ID
// =============================

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

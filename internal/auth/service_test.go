package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail = "admin@rizia.com"
	testAdminPass  = "admin123"
)

func newTestService(t *testing.T) (*service, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	audit := auditlog.NewService(auditlog.NewRepository(store))
	s := newService(NewRepository(store), session.NewMemoryStore(), audit, Options{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPass,
	})
	s.bcryptCost = bcrypt.MinCost
	return s, store
}

func TestSignup(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	res, err := s.Signup(ctx, SignupInput{Email: " Jane@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, "jane", res.User.Name, "name defaults to the email local part")
	assert.Equal(t, RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Session.AccessToken)
	assert.NotEmpty(t, res.Session.RefreshToken)
	assert.False(t, res.User.CreatedAt.IsZero())

	_, err = s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "another1"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestSignup_Validation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   SignupInput
		want apperror.Kind
	}{
		{"missing email", SignupInput{Password: "secret123"}, apperror.KindInvalidInput},
		{"missing password", SignupInput{Email: "a@b.com"}, apperror.KindInvalidInput},
		{"admin signup", SignupInput{Email: "a@b.com", Password: "secret123", IsAdmin: true}, apperror.KindForbidden},
		{"bad email", SignupInput{Email: "not-an-email", Password: "secret123"}, apperror.KindInvalidInput},
		{"short password", SignupInput{Email: "a@b.com", Password: "123"}, apperror.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Signup(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.KindOf(err))
		})
	}
}

func TestLogin_User(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	_, err := s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "secret123", Name: "Jane"})
	require.NoError(t, err)

	res, err := s.Login(ctx, LoginInput{Email: "JANE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", res.User.Name)
	assert.False(t, res.IsAdmin)

	_, err = s.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong-pass"})
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	_, err = s.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestLogin_AdminBootstrap(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	res, err := s.Login(ctx, LoginInput{Email: testAdminEmail, Password: testAdminPass, LoginType: LoginTypeAdmin})
	require.NoError(t, err)
	assert.True(t, res.IsAdmin)
	assert.Equal(t, "Admin", res.User.Name)

	// second login reuses the provisioned identity
	again, err := s.Login(ctx, LoginInput{Email: testAdminEmail, Password: testAdminPass, LoginType: LoginTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)

	users, err := kvstore.ListAs[User](ctx, store, kvstore.PrefixUser)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSignup_RejectsAdminEmail(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Signup(context.Background(), SignupInput{Email: "ADMIN@rizia.com", Password: "attacker1"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestLogin_AdminBootstrapNeverPromotes(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	// an account already holding the admin email, e.g. created before it was reserved
	squatter := &User{ID: "usr_squatter", Email: testAdminEmail, Name: "squatter", Role: RoleUser, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.createWithPassword(ctx, squatter, "attacker1"))
	sess, err := s.tokens.session(squatter)
	require.NoError(t, err)

	_, err = s.Login(ctx, LoginInput{Email: testAdminEmail, Password: testAdminPass, LoginType: LoginTypeAdmin})
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	user, _, err := s.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, user.Role)

	_, err = s.Login(ctx, LoginInput{Email: testAdminEmail, Password: "attacker1", LoginType: LoginTypeUser})
	require.NoError(t, err, "the account's own password is left untouched")
}

func TestLogin_LoginTypeMismatch(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = s.Login(ctx, LoginInput{Email: testAdminEmail, Password: testAdminPass, LoginType: LoginTypeAdmin})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   LoginInput
		want apperror.Kind
	}{
		{"user via admin login", LoginInput{Email: "jane@example.com", Password: "secret123", LoginType: LoginTypeAdmin}, apperror.KindForbidden},
		{"admin via user login", LoginInput{Email: testAdminEmail, Password: testAdminPass, LoginType: LoginTypeUser}, apperror.KindForbidden},
		{"wrong admin password", LoginInput{Email: testAdminEmail, Password: "nope-nope", LoginType: LoginTypeAdmin}, apperror.KindUnauthenticated},
		{"unknown login type", LoginInput{Email: "jane@example.com", Password: "secret123", LoginType: "root"}, apperror.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.KindOf(err))
		})
	}
}

func TestAuthenticate_AndLogout(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	res, err := s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, claims, err := s.Authenticate(ctx, res.Session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	_, _, err = s.Authenticate(ctx, res.Session.RefreshToken)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err), "refresh tokens are not access tokens")

	require.NoError(t, s.Logout(ctx, claims, res.Session.RefreshToken, ""))

	_, _, err = s.Authenticate(ctx, res.Session.AccessToken)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	_, err = s.Refresh(ctx, res.Session.RefreshToken)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestAuthenticate_Expired(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	res, err := s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = s.Authenticate(ctx, res.Session.AccessToken)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	// refresh token lives longer
	sess, err := s.Refresh(ctx, res.Session.RefreshToken)
	require.NoError(t, err)
	_, _, err = s.Authenticate(ctx, sess.AccessToken)
	assert.NoError(t, err)
}

func TestAuthenticate_TamperedToken(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	res, err := s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	other, _ := newTestService(t)
	other.tokens.accessSecret = []byte("different")
	_, _, err = other.Authenticate(ctx, res.Session.AccessToken)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	_, _, err = s.Authenticate(ctx, "")
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestGetUserByID(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.GetUserByID(context.Background(), "usr_missing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth resolves "user-token" and "admin-token"; anything else is rejected.
type stubAuth struct {
	auth.Service
}

func (stubAuth) Authenticate(_ context.Context, token string) (*auth.User, *auth.Claims, error) {
	switch token {
	case "user-token":
		u := &auth.User{ID: "usr_1", Role: auth.RoleUser}
		return u, &auth.Claims{UserID: u.ID, Role: u.Role}, nil
	case "admin-token":
		u := &auth.User{ID: "usr_admin", Role: auth.RoleAdmin}
		return u, &auth.Claims{UserID: u.ID, Role: u.Role}, nil
	}
	return nil, nil, apperror.Unauthenticated("invalid session")
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		ac, _ := GetAccessContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": ac.UserID, "admin": ac.IsAdmin()})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(stubAuth{}))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	w := do(r, "user-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"usr_1"`)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Token user-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	r := newRouter(AuthMiddleware(stubAuth{}), AdminOnly())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "user-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "admin-token").Code)
}

func TestRBACMiddleware_LogsDenial(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Log
	logger.Log = logger.New(&buf, "info", "json")
	t.Cleanup(func() { logger.Log = prev })

	r := newRouter(AuthMiddleware(stubAuth{}), AdminOnly())
	require.Equal(t, http.StatusForbidden, do(r, "user-token").Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "[rbac] access denied", entry["msg"])
	assert.Equal(t, http.MethodGet, entry["method"])
	assert.Equal(t, "/x", entry["path"])
	assert.Equal(t, auth.RoleUser, entry["role"])
	assert.Equal(t, "usr_1", entry["user_id"])
}

func TestRBACMiddleware_WithoutAuth(t *testing.T) {
	r := newRouter(RBACMiddleware(RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(r, "admin-token").Code)
}

func TestPublicAccess(t *testing.T) {
	t.Run("open when no anon key", func(t *testing.T) {
		r := newRouter(PublicAccess("", stubAuth{}))
		assert.Equal(t, http.StatusOK, do(r, "").Code)
		assert.Equal(t, http.StatusOK, do(r, "stale-token").Code)

		w := do(r, "admin-token")
		assert.Contains(t, w.Body.String(), `"admin":true`)
	})

	t.Run("anon key required", func(t *testing.T) {
		r := newRouter(PublicAccess("anon-123", stubAuth{}))
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
		assert.Equal(t, http.StatusUnauthorized, do(r, "wrong").Code)
		assert.Equal(t, http.StatusOK, do(r, "anon-123").Code)
		assert.Equal(t, http.StatusOK, do(r, "user-token").Code)
	})
}

func TestAccessContext_CanAccessUser(t *testing.T) {
	anon := AccessContext{}
	user := AccessContext{UserID: "u1", RoleName: RoleUser}
	admin := AccessContext{UserID: "a1", RoleName: RoleAdmin}

	assert.False(t, anon.CanAccessUser("u1"))
	assert.True(t, user.CanAccessUser("u1"))
	assert.False(t, user.CanAccessUser("u2"))
	assert.True(t, admin.CanAccessUser("u2"))
}

func TestAuditMiddleware_ClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newEngine := func(proxies []string) *gin.Engine {
		r := gin.New()
		require.NoError(t, r.SetTrustedProxies(proxies))
		r.Use(AuditMiddleware())
		r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, GetIPFromContext(c)) })
		return r
	}
	behindProxy := newEngine([]string{"192.0.2.0/24"})
	direct := newEngine(nil)

	tests := []struct {
		name    string
		engine  *gin.Engine
		headers map[string]string
		want    string
	}{
		{"forwarded by trusted proxy", behindProxy, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"real ip from trusted proxy", behindProxy, map[string]string{"X-Real-Ip": "198.51.100.2"}, "198.51.100.2"},
		{"invalid header falls back", behindProxy, map[string]string{"X-Forwarded-For": "nonsense"}, "192.0.2.1"},
		{"remote addr", behindProxy, nil, "192.0.2.1"},
		{"untrusted peer cannot forward", direct, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.1"},
		{"untrusted peer cannot set real ip", direct, map[string]string{"X-Real-Ip": "198.51.100.2"}, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = "192.0.2.1:4321"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			tt.engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRateLimiter(t *testing.T) {
	_, err := RateLimiter("lots", nil)
	require.Error(t, err)

	mw, err := RateLimiter("2-M", nil)
	require.NoError(t, err)
	r := newRouter(mw)

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)
}

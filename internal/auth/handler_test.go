package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignoutRouter(s *service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s)
	r.POST("/auth/signout", func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		user, claims, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			apperror.Respond(c, err)
			return
		}
		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}, h.Signout)
	return r
}

func TestHandler_Signout(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	r := newSignoutRouter(s)

	signout := func(access, body string, chunked bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/signout", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		if chunked {
			req.ContentLength = -1
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("malformed body is rejected and nothing is revoked", func(t *testing.T) {
		res, err := s.Signup(ctx, SignupInput{Email: "jane@example.com", Password: "secret123"})
		require.NoError(t, err)

		w := signout(res.Session.AccessToken, `{"refresh_token":`, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		_, _, err = s.Authenticate(ctx, res.Session.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("chunked body revokes the refresh token", func(t *testing.T) {
		res, err := s.Signup(ctx, SignupInput{Email: "sam@example.com", Password: "secret123"})
		require.NoError(t, err)

		w := signout(res.Session.AccessToken, `{"refresh_token":"`+res.Session.RefreshToken+`"}`, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		_, err = s.Refresh(ctx, res.Session.RefreshToken)
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	})

	t.Run("empty body signs out the access token only", func(t *testing.T) {
		res, err := s.Signup(ctx, SignupInput{Email: "kim@example.com", Password: "secret123"})
		require.NoError(t, err)

		w := signout(res.Session.AccessToken, ``, false)
		require.Equal(t, http.StatusOK, w.Code)

		_, _, err = s.Authenticate(ctx, res.Session.AccessToken)
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
		_, err = s.Refresh(ctx, res.Session.RefreshToken)
		assert.NoError(t, err)
	})
}

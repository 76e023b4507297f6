package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/logger"
)

// AuthMiddleware requires a valid access token and sets up the access context.
func AuthMiddleware(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			apperror.Respond(c, apperror.Unauthenticated("missing Authorization header"))
			return
		}

		user, claims, err := authSvc.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindUnauthenticated {
				logger.Log.Debug("[auth] rejected token", "path", c.FullPath(), "reason", err.Error())
			}
			apperror.Respond(c, err)
			return
		}

		setIdentity(c, user, claims)
		c.Next()
	}
}

// PublicAccess guards read routes. With no anon key configured the route is
// open. Otherwise the bearer must be the anon key or a valid access token.
// A valid token always populates the access context.
func PublicAccess(anonKey string, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			if anonKey != "" {
				apperror.Respond(c, apperror.Unauthenticated("missing Authorization header"))
				return
			}
			c.Next()
			return
		}

		if anonKey != "" && subtle.ConstantTimeCompare([]byte(tokenStr), []byte(anonKey)) == 1 {
			c.Next()
			return
		}

		user, claims, err := authSvc.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if anonKey == "" && apperror.KindOf(err) == apperror.KindUnauthenticated {
				c.Next()
				return
			}
			apperror.Respond(c, err)
			return
		}

		setIdentity(c, user, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, user *auth.User, claims *auth.Claims) {
	c.Set(auth.ContextUserKey, user)
	c.Set(auth.ContextClaimsKey, claims)
	c.Set("user_id", user.ID)
	c.Set(accessContextKey, NewAccessContext(user))
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

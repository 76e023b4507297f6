package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auth"
)

// Role constants to avoid string typos
const (
	RoleAdmin = auth.RoleAdmin
	RoleUser  = auth.RoleUser
)

const accessContextKey = "access_context"

// AccessContext stores who is calling. The zero value is an anonymous caller.
type AccessContext struct {
	UserID   string
	RoleName string
	Email    string
}

func (ac AccessContext) IsAuthenticated() bool { return ac.UserID != "" }

func (ac AccessContext) IsAdmin() bool { return ac.RoleName == RoleAdmin }

// CanAccessUser reports whether the caller may act on records owned by userID.
func (ac AccessContext) CanAccessUser(userID string) bool {
	if !ac.IsAuthenticated() {
		return false
	}
	return ac.IsAdmin() || ac.UserID == userID
}

// NewAccessContext builds the context for an authenticated user.
func NewAccessContext(user *auth.User) AccessContext {
	return AccessContext{UserID: user.ID, RoleName: user.Role, Email: user.Email}
}

// GetAccessContext returns the caller stored by the auth middleware.
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	v, ok := c.Get(accessContextKey)
	if !ok {
		return AccessContext{}, false
	}
	ac, ok := v.(AccessContext)
	return ac, ok
}

// RequireAccessContext is GetAccessContext for handlers behind AuthMiddleware.
// It writes a 401 and returns false when no caller is present.
func RequireAccessContext(c *gin.Context) (AccessContext, bool) {
	ac, ok := GetAccessContext(c)
	if !ok || !ac.IsAuthenticated() {
		apperror.Respond(c, apperror.Unauthenticated("access context missing"))
		return AccessContext{}, false
	}
	return ac, true
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/logger"
)

// RBACMiddleware checks if the user has one of the allowed roles.
// Must run after AuthMiddleware.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok || !ac.IsAuthenticated() {
			apperror.Respond(c, apperror.Unauthenticated("unauthenticated"))
			return
		}

		for _, role := range allowedRoles {
			if ac.RoleName == role {
				c.Next()
				return
			}
		}

		logger.Log.Info("[rbac] access denied",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"role", ac.RoleName,
			"user_id", ac.UserID,
		)
		apperror.Respond(c, apperror.Forbidden("admin access required"))
	}
}

// AdminOnly is RBACMiddleware(RoleAdmin).
func AdminOnly() gin.HandlerFunc {
	return RBACMiddleware(RoleAdmin)
}

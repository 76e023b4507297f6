package middleware

import "github.com/gin-gonic/gin"

const clientIPKey = "client_ip"

// AuditMiddleware stores the caller's IP for audit logging. Forwarding
// headers count only when sent by one of the engine's trusted proxies.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, c.ClientIP())
		c.Next()
	}
}

// GetIPFromContext retrieves the IP stored by AuditMiddleware.
func GetIPFromContext(c *gin.Context) string {
	if ip, ok := c.Get(clientIPKey); ok {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return c.ClientIP()
}

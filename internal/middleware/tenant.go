package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	tenantHeader = "X-Tenant-ID"
	actorHeader  = "X-User-ID"
)

// TenantScope extracts the tenant and acting-user identifiers that the
// upstream gateway injects after authentication. Every ledger operation is
// tenant-scoped; requests without a tenant are rejected before reaching any
// handler.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(tenantHeader)
		if tenantID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request missing tenant header",
				slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + tenantHeader + " header"})
			return
		}

		actorID := c.GetHeader(actorHeader)
		if actorID == "" {
			actorID = "system"
		}

		c.Set(string(tenantIDKey), tenantID)
		c.Set(string(actorIDKey), actorID)

		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("tenant_id", tenantID))
		c.Request = c.Request.WithContext(ContextWithLogger(c.Request.Context(), logger))

		c.Next()
	}
}

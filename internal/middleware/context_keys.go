package middleware

import "github.com/gin-gonic/gin"

// tenantIDKey and actorIDKey store tenant/actor scoping in the Gin context.
// Using a custom type prevents collisions.
const (
	tenantIDKey = contextKey("tenantID")
	actorIDKey  = contextKey("actorID")
)

// GetTenantIDFromContext retrieves the tenant ID set by TenantScope.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(tenantIDKey))
	if !exists {
		return "", false
	}
	tenantID, ok := val.(string)
	if !ok || tenantID == "" {
		return "", false
	}
	return tenantID, true
}

// GetActorIDFromContext retrieves the acting user ID set by TenantScope. The
// actor is recorded on audit fields for every mutation.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}
	actorID, ok := val.(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}

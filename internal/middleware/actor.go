package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor_id"

// ActorMiddleware extracts the already-authenticated actor identifier the
// request layer supplies, either as a bearer token or an X-Actor-ID header.
// The token is opaque to the engine; identity lookup happens upstream.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := actorFromRequest(c)
		if actorID != "" {
			c.Set(actorKey, actorID)
		}

		c.Next()
	}
}

func actorFromRequest(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}

	return strings.TrimSpace(c.GetHeader("X-Actor-ID"))
}

// GetActor returns the actor id set for this request, or "" when anonymous
func GetActor(c *gin.Context) string {
	if v, ok := c.Get(actorKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

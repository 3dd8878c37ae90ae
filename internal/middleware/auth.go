package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthRequired middleware rejects requests that carry no actor identity
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  "unauthorized",
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows allowedOrigin in production and any origin otherwise.
func CORS(allowedOrigin string, production bool) gin.HandlerFunc {
	origin := "*"
	if production {
		origin = allowedOrigin
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

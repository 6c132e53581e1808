package middleware

import (
	"net/http"
	"strings"

	"github.com/IbnuAlii/GuulSideApp/internal/logger"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Token is not valid"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	// the server trims trailing spaces, so "Bearer " arrives as "Bearer"
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Auth rejects requests without a valid session token and stores the user id
// under UserIDKey for downstream handlers.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgNoToken})
			return
		}

		userID, err := v.Verify(token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgInvalidToken})
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), "user_id", userID))
		c.Next()
	}
}

// UserID returns the id stored by Auth.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/IbnuAlii/GuulSideApp/internal/logger"

	"github.com/gin-gonic/gin"
)

const MsgServerError = "Server error"

// Recovery turns a panic into a 500. The panic value is only echoed back in
// development.
func Recovery(dev bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		logger.Error("panic recovered",
			"path", c.Request.URL.Path,
			"panic", rec,
			"stack", string(debug.Stack()),
		)
		body := gin.H{"message": MsgServerError}
		if dev {
			body["error"] = fmt.Sprint(rec)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}

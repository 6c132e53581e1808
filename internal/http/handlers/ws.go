package handlers

import (
	"net/http"

	"github.com/IbnuAlii/GuulSideApp/internal/http/middleware"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
	"github.com/IbnuAlii/GuulSideApp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to a websocket that streams the caller's task events. Browsers
// cannot set headers on the handshake, so the token comes from ?token=.
func (h *Handler) WS(hub *ws.Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = middleware.BearerToken(c.GetHeader("Authorization"))
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgNoToken})
			return
		}

		userID, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgInvalidToken})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "user_id", userID, "error", err)
			return
		}

		client := ws.NewClient(userID, conn, hub)
		go client.Run()
	}
}

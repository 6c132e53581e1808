package handlers

import (
	"github.com/IbnuAlii/GuulSideApp/internal/http/middleware"
	"github.com/IbnuAlii/GuulSideApp/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth  *service.AuthService
	Tasks *service.TaskService
	// Dev adds error details to 500 responses.
	Dev bool
}

func NewHandler(auth *service.AuthService, tasks *service.TaskService, dev bool) *Handler {
	return &Handler{Auth: auth, Tasks: tasks, Dev: dev}
}

// getUserID returns the id the auth gate put into the context.
func getUserID(c *gin.Context) (string, bool) {
	return middleware.UserID(c)
}

func requestInfo(c *gin.Context) service.RequestInfo {
	return service.RequestInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

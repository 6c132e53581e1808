package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const WelcomeText = "Welcome to Guul Side API"

func Welcome(c *gin.Context) {
	c.String(http.StatusOK, WelcomeText)
}

// NotFound answers unknown routes with a JSON 404.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Route " + c.Request.URL.Path + " not found"})
}

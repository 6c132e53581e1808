package handlers

import (
	"net/http"

	"github.com/IbnuAlii/GuulSideApp/internal/http/middleware"
	"github.com/IbnuAlii/GuulSideApp/internal/service"

	"github.com/gin-gonic/gin"
)

const MsgSignout = "Signout successful"

func (h *Handler) Signup(c *gin.Context) {
	var req service.SignupInput
	if !h.bind(c, &req, service.MsgMissingSignupFields) {
		return
	}

	token, _, err := h.Auth.Signup(c.Request.Context(), req, requestInfo(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) Signin(c *gin.Context) {
	var req service.SigninInput
	if !h.bind(c, &req, service.MsgMissingSigninFields) {
		return
	}

	token, err := h.Auth.Signin(c.Request.Context(), req, requestInfo(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Signout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.Auth.Signout(c.Request.Context(), userID, requestInfo(c))
	c.JSON(http.StatusOK, gin.H{"message": MsgSignout})
}

// Verify reports whether the presented token is usable. It does not sit behind
// the gate but answers with the same messages.
func (h *Handler) Verify(c *gin.Context) {
	token := middleware.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgNoToken})
		return
	}
	if _, err := h.Auth.VerifyToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgInvalidToken})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

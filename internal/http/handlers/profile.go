package handlers

import (
	"net/http"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/service"

	"github.com/gin-gonic/gin"
)

const MsgInvalidProfile = "Invalid profile data"

type imageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// UpdateProfile applies a partial profile update. Absent keys are untouched.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var patch domain.ProfilePatch
	if !h.bind(c, &patch, MsgInvalidProfile) {
		return
	}

	user, err := h.Auth.UpdateProfile(c.Request.Context(), userID, patch, requestInfo(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ProfileImage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req imageRequest
	if !h.bind(c, &req, service.MsgInvalidImageURL) {
		return
	}

	imageURL, err := h.Auth.SetProfileImage(c.Request.Context(), userID, req.ImageURL, requestInfo(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

// Activity lists the caller's recent auth and profile events.
func (h *Handler) Activity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logs, err := h.Auth.Activity(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	c.JSON(http.StatusOK, logs)
}

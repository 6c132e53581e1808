package handlers

import (
	"net/http"

	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/service"

	"github.com/gin-gonic/gin"
)

const MsgInvalidTaskBody = "Task validation failed: invalid request body"

func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var in domain.TaskInput
	if !h.bind(c, &in, MsgInvalidTaskBody) {
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	id, err := service.ParseTaskID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var patch domain.TaskPatch
	if !h.bind(c, &patch, MsgInvalidTaskBody) {
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), userID, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": service.MsgTaskDeleted})
}

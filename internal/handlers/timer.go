package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type startTimerRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	TaskID    string `json:"task_id" binding:"required"`
}

type stopTimerRequest struct {
	Notes *string `json:"notes"`
}

func (h HandlerSet) StartTimer(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.svc.Timer.Start(c.Request.Context(), user, req.ProjectID, req.TaskID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "timer": session})
}

func (h HandlerSet) Heartbeat(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	session, err := h.svc.Timer.Heartbeat(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "last_heartbeat": session.LastHeartbeat})
}

func (h HandlerSet) StopTimer(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	// the body is optional
	var req stopTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	entry, err := h.svc.Timer.Stop(c.Request.Context(), user, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "time_entry": entry})
}

func (h HandlerSet) ActiveTimer(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	session, err := h.svc.Timer.Active(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": session != nil, "timer": session})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hourglass/internal/service"
)

type manualEntryRequest struct {
	ProjectID string     `json:"project_id" binding:"required"`
	TaskID    string     `json:"task_id" binding:"required"`
	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   *time.Time `json:"end_time"`
	Duration  *int64     `json:"duration"`
	Notes     *string    `json:"notes"`
}

func (h HandlerSet) ListEntries(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	entries, err := h.svc.Entries.List(c.Request.Context(), user, service.EntryQuery{
		UserID:    c.Query("user_id"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h HandlerSet) CreateManualEntry(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req manualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.svc.Entries.CreateManual(c.Request.Context(), user, service.ManualEntryInput{
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Duration:  req.Duration,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h HandlerSet) DeleteEntry(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	if err := h.svc.Entries.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

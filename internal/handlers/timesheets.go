package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"hourglass/internal/models"
	"hourglass/internal/service"
)

type submitTimesheetRequest struct {
	WeekStart string `json:"week_start" binding:"required,datetime=2006-01-02"`
	WeekEnd   string `json:"week_end" binding:"required,datetime=2006-01-02"`
}

// reviewTimesheetRequest carries no binding rules: the decision is checked
// after the timesheet lookup so an unknown id reports 404 first.
type reviewTimesheetRequest struct {
	Status       models.TimesheetStatus `json:"status"`
	AdminComment *string                `json:"admin_comment"`
}

func (h HandlerSet) SubmitTimesheet(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req submitTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sheet, err := h.svc.Timesheets.Submit(c.Request.Context(), user, req.WeekStart, req.WeekEnd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "timesheet_id": sheet.ID})
}

func (h HandlerSet) ListTimesheets(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	sheets, err := h.svc.Timesheets.List(c.Request.Context(), user, service.TimesheetQuery{
		UserID: c.Query("user_id"),
		Status: c.Query("status"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(sheets))
}

func (h HandlerSet) ReviewTimesheet(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req reviewTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	if _, err := h.svc.Timesheets.Review(c.Request.Context(), user, c.Param("id"), req.Status, req.AdminComment); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hourglass/internal/report"
	"hourglass/internal/service"
)

func reportQuery(c *gin.Context) service.ReportQuery {
	return service.ReportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		UserID:    c.Query("user_id"),
		ProjectID: c.Query("project_id"),
		GroupBy:   c.DefaultQuery("group_by", report.GroupByUser),
	}
}

func (h HandlerSet) TimeReport(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	result, err := h.svc.Reports.TimeReport(c.Request.Context(), user, reportQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportReport streams the per-entry export as csv, pdf or xlsx.
func (h HandlerSet) ExportReport(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	format, known := report.ParseFormat(c.Param("format"))
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": fmt.Sprintf("unsupported export format %q", c.Param("format"))})
		return
	}

	file, err := h.svc.Reports.Export(c.Request.Context(), user, reportQuery(c), format)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) DashboardStats(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	stats, err := h.svc.Dashboard.Stats(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

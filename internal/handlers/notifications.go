package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) ListNotifications(c *gin.Context) {
	h.listNotifications(c, false)
}

func (h HandlerSet) ListUnreadNotifications(c *gin.Context) {
	h.listNotifications(c, true)
}

func (h HandlerSet) listNotifications(c *gin.Context, unreadOnly bool) {
	user, ok := caller(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "limit must be a non-negative integer"})
			return
		}
		limit = v
	}

	notifications, err := h.svc.Notifications.List(c.Request.Context(), user, unreadOnly, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(notifications))
}

func (h HandlerSet) UnreadCount(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	count, err := h.svc.Notifications.UnreadCount(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h HandlerSet) MarkRead(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	if err := h.svc.Notifications.MarkRead(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) MarkAllRead(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	if _, err := h.svc.Notifications.MarkAllRead(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

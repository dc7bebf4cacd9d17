package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/middleware"
	"github.com/kumarpraveer143/easyrent-sub000/internal/service"
	"github.com/kumarpraveer143/easyrent-sub000/internal/store"
)

// HTTPHandler serves the chat history and notification REST surface.
type HTTPHandler struct {
	history       service.ChatHistoryService
	notifications service.NotificationService
	jwtSecret     string
}

func NewHTTPHandler(history service.ChatHistoryService, notifications service.NotificationService, jwtSecret string) *HTTPHandler {
	return &HTTPHandler{
		history:       history,
		notifications: notifications,
		jwtSecret:     jwtSecret,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	chat := r.Group("/chat")
	{
		chat.GET("/unread/:relationId/:userId", h.GetUnreadCount)
		chat.GET("/:relationId", h.GetMessages)
		chat.POST("/read", h.MarkMessagesRead)
	}

	notifications := r.Group("/notifications", middleware.RequireAuth(h.jwtSecret))
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread", h.GetNotificationUnreadCount)
		notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
	}

	r.GET("/health", h.HealthCheck)
}

func (h *HTTPHandler) GetMessages(c *gin.Context) {
	relationID := c.Param("relationId")

	msgs, err := h.history.History(c.Request.Context(), relationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *HTTPHandler) GetUnreadCount(c *gin.Context) {
	relationID := c.Param("relationId")
	userID := c.Param("userId")

	count, err := h.history.Unread(c.Request.Context(), relationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to count unread messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

type markReadRequest struct {
	RelationID string `json:"relationId" binding:"required"`
	UserID     string `json:"userId" binding:"required"`
}

func (h *HTTPHandler) MarkMessagesRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "relationId and userId are required"})
		return
	}

	if err := h.history.MarkRead(c.Request.Context(), req.RelationID, req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to mark messages read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) ListNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ns, err := h.notifications.ListRecent(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load notifications"})
		return
	}
	if ns == nil {
		ns = []domain.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": ns})
}

func (h *HTTPHandler) GetNotificationUnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to count unread notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (h *HTTPHandler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")

	n, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notification": n})
}

func (h *HTTPHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package api

import (
	"net/http"

	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler returns the newest notifications; ?unread=true keeps unread ones
func ListNotificationsHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		list, err := notifications.List(c.Request.Context(), userID, c.Query("unread") == "true")
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": list})
	}
}

// MarkNotificationReadHandler flags a notification as read
func MarkNotificationReadHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}

package middleware

import (
	"errors"
	"net/http" // HTTP status codes

	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/sirupsen/logrus"
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		isAdmin, err := admin.IsAdmin(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		// Deleted users and non-admins are both refused
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}

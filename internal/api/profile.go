package api

import (
	"net/http"

	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileRequest updates the fields present in the body
type ProfileRequest struct {
	Fullname *string `json:"fullname" binding:"omitempty,max=128"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=512"`
}

// PasswordRequest is the body of PUT /api/profile/password
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// GetProfileHandler returns the logged-in user
func GetProfileHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		user, err := auth.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": user.Profile()})
	}
}

// UpdateProfileHandler changes fullname, email or avatar
func UpdateProfileHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		user, err := auth.UpdateProfile(c.Request.Context(), userID, service.ProfileInput{
			Fullname: req.Fullname,
			Email:    req.Email,
			Avatar:   req.Avatar,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": user.Profile()})
	}
}

// ChangePasswordHandler replaces the password after checking the current one
func ChangePasswordHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req PasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		if err := auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

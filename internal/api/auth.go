package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/domain"  // Importing domain models
	"finance_tracker/internal/service" // Ledger services

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Length is checked by the service
	Fullname string `json:"fullname"`                    // Optional display name
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username or email
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the token and the public profile
type AuthResponse struct {
	Token   string         `json:"token"`   // JWT token
	Account domain.Profile `json:"account"` // Logged-in user
}

// RegisterHandler creates a user with the default categories and logs them in
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		token, user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Fullname: req.Fullname,
		})
		if err != nil {
			respondError(c, err) // Duplicates and weak passwords become 400
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{Token: token, Account: user.Profile()})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		token, user, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, Account: user.Profile()})
	}
}

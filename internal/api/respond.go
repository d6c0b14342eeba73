// Package api exposes the ledger services over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http" // HTTP status codes
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"finance_tracker/internal/assistant"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logging library
)

// CodeNoAccountFound tells the assistant client to offer account creation
const CodeNoAccountFound = "NO_ACCOUNT_FOUND"

// errorStatuses maps service errors to HTTP statuses, checked in order
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrNotFound, http.StatusNotFound},
	{assistant.ErrPendingNotFound, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInUse, http.StatusConflict},
	{service.ErrDuplicateCategory, http.StatusConflict},
	{service.ErrUsernameTaken, http.StatusBadRequest},
	{service.ErrEmailTaken, http.StatusBadRequest},
	{service.ErrInvalidUsername, http.StatusBadRequest},
	{service.ErrInvalidEmail, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrNameRequired, http.StatusBadRequest},
	{service.ErrInvalidAccountType, http.StatusBadRequest},
	{service.ErrBankNameRequired, http.StatusBadRequest},
	{service.ErrInvalidCategoryType, http.StatusBadRequest},
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrCategoryTypeMismatch, http.StatusBadRequest},
	{service.ErrInsufficientFunds, http.StatusBadRequest},
	{service.ErrGoalArchived, http.StatusBadRequest},
	{utils.ErrInvalidPeriod, http.StatusBadRequest},
	{assistant.ErrEmptyMessage, http.StatusBadRequest},
}

// respondError writes err as {"message": ...} with the matching status
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoAccount) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":       CodeNoAccountFound,
			"message":    "Bạn chưa có tài khoản nào để ghi giao dịch.",
			"suggestion": `Hãy tạo tài khoản trước, ví dụ: "tạo tài khoản tiền mặt 500k" hoặc "tạo tài khoản acb".`,
		})
		return
	}
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"message": upperFirst(err.Error())})
			return
		}
	}
	// Unexpected errors are logged and hidden from the client
	logrus.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.FullPath(),
		"request_id": c.GetString("requestID"),
		"error":      err.Error(),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// respondBindError reports a malformed or invalid request body
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": fieldMessage(verrs[0])})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
}

// fieldMessage turns one validation failure into a readable sentence
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	}
	return "Invalid " + field
}

// currentUserID returns the authenticated user or answers 401
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// parseID reads a positive numeric path parameter or answers 400
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// queryID reads an optional numeric query parameter; zero means absent
func queryID(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(v), nil
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

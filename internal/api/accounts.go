package api

import (
	"net/http"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountRequest is the body of account create and update
type AccountRequest struct {
	Name           string          `json:"name" binding:"max=128"`
	Type           string          `json:"type" binding:"omitempty,accounttype"` // TIENMAT or THENGANHANG
	BankName       string          `json:"bankName" binding:"max=64"`
	AccountNumber  string          `json:"accountNumber" binding:"max=64"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

func (r AccountRequest) input() service.AccountInput {
	return service.AccountInput{
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		BankName:       r.BankName,
		AccountNumber:  r.AccountNumber,
		InitialBalance: r.InitialBalance,
	}
}

// ListAccountsHandler returns every account of the user
func ListAccountsHandler(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		list, err := accounts.List(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": list})
	}
}

// GetAccountHandler returns one account
func GetAccountHandler(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		account, err := accounts.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": account})
	}
}

// CreateAccountHandler opens an account
func CreateAccountHandler(accounts *service.AccountService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req AccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		account, err := accounts.Create(c.Request.Context(), userID, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID) // Balances feed the statistics
		c.JSON(http.StatusCreated, gin.H{"account": account})
	}
}

// UpdateAccountHandler edits an account
func UpdateAccountHandler(accounts *service.AccountService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req AccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		account, err := accounts.Update(c.Request.Context(), userID, id, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"account": account})
	}
}

// DeleteAccountHandler removes an unused account
func DeleteAccountHandler(accounts *service.AccountService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := accounts.Delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, err) // 409 while transactions reference it
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
	}
}

package api

import (
	"net/http"
	"strings"

	"finance_tracker/internal/assistant"
	"finance_tracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AssistantRequest is one chat message
type AssistantRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

// AssistantTransactionRequest confirms a pending draft by pendingId, or carries a full
// transaction given by ids or by names
type AssistantTransactionRequest struct {
	PendingID  string `json:"pendingId"`
	AccountID  uint   `json:"accountId"`
	CategoryID uint   `json:"categoryId"`
	assistant.TransactionDraft
}

// AssistantHandler parses a free-text message and acts on it
func AssistantHandler(bot *assistant.Assistant, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req AssistantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		reply, err := bot.Handle(c.Request.Context(), userID, req.Message)
		if err != nil {
			respondError(c, err) // NO_ACCOUNT_FOUND comes from here
			return
		}
		if reply.Modified {
			cache.invalidateUser(c.Request.Context(), userID)
		}
		c.JSON(http.StatusOK, reply)
	}
}

// AssistantCreateTransactionHandler writes the transaction the assistant proposed
func AssistantCreateTransactionHandler(bot *assistant.Assistant, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req AssistantTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		ctx := c.Request.Context()
		var (
			t   *domain.Transaction
			err error
		)
		if id := strings.TrimSpace(req.PendingID); id != "" {
			t, err = bot.Confirm(ctx, userID, id) // A draft is consumed once
		} else {
			t, err = bot.CreateTransaction(ctx, userID, req.TransactionDraft, req.AccountID, req.CategoryID)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(ctx, userID)
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": t.ID,
			"pending":        req.PendingID != "",
		}).Info("Assistant transaction created")
		c.JSON(http.StatusCreated, gin.H{
			"transaction": t,
			"message":     "Đã ghi giao dịch " + assistant.FormatVND(t.Amount) + ".",
		})
	}
}

package api

import (
	"net/http" // HTTP status codes
	"strconv"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of transaction create and update
type TransactionRequest struct {
	Type        string          `json:"type" binding:"required,categorytype"` // CHITIEU or THUNHAP
	Amount      decimal.Decimal `json:"amount"`                               // Must be positive
	CategoryID  uint            `json:"categoryId" binding:"required"`
	AccountID   uint            `json:"accountId" binding:"required"`
	Date        string          `json:"date"` // YYYY-MM-DD, today when empty
	Description string          `json:"description" binding:"max=512"`
}

func (r TransactionRequest) input() (service.TransactionInput, error) {
	in := service.TransactionInput{
		Type:        domain.CategoryType(r.Type),
		Amount:      r.Amount,
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		Description: r.Description,
	}
	if strings.TrimSpace(r.Date) != "" {
		d, err := utils.ParseDate(r.Date)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	return in, nil
}

// transactionFilter reads the listing filters shared by user and admin listings
func transactionFilter(c *gin.Context) (service.TransactionFilter, error) {
	f := service.TransactionFilter{
		Type:  domain.CategoryType(strings.ToUpper(c.Query("type"))),
		Query: c.Query("q"),
		Page:  utils.ParsePage(c.Query("page"), c.Query("pageSize")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, service.ErrInvalidCategoryType
	}
	var err error
	if f.AccountID, err = queryID(c, "accountId"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryID(c, "categoryId"); err != nil {
		return f, err
	}
	if from := c.Query("from"); from != "" {
		if f.Range.From, err = utils.ParseDate(from); err != nil {
			return f, err
		}
	}
	// to is inclusive on the wire and exclusive in the range
	if to := c.Query("to"); to != "" {
		d, err := utils.ParseDate(to)
		if err != nil {
			return f, err
		}
		f.Range.To = d.AddDate(0, 0, 1)
	}
	return f, nil
}

// ListTransactionsHandler returns one page of the user's transactions, newest first
func ListTransactionsHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		f, err := transactionFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": upperFirst(err.Error())})
			return
		}
		txs, total, err := transactions.List(c.Request.Context(), userID, f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": txs,                      // Current page
			"page":         f.Page.Page,              // Current page number
			"pageSize":     f.Page.PageSize,          // Page size
			"total":        total,                    // Total matching transactions
			"totalPages":   f.Page.TotalPages(total), // Total pages
		})
	}
}

// GetTransactionHandler returns one transaction
func GetTransactionHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		t, err := transactions.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": t})
	}
}

// CreateTransactionHandler records a transaction and moves the account balance
func CreateTransactionHandler(transactions *service.TransactionService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		in, err := req.input()
		if err != nil {
			respondError(c, err)
			return
		}
		t, err := transactions.Create(c.Request.Context(), userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID) // Invalidate statistics and category totals
		c.JSON(http.StatusCreated, gin.H{"transaction": t})
	}
}

// UpdateTransactionHandler replaces a transaction
func UpdateTransactionHandler(transactions *service.TransactionService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		in, err := req.input()
		if err != nil {
			respondError(c, err)
			return
		}
		t, err := transactions.Update(c.Request.Context(), userID, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"transaction": t})
	}
}

// DeleteTransactionHandler removes a transaction and restores the balance
func DeleteTransactionHandler(transactions *service.TransactionService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := transactions.Delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
	}
}

// TransactionSummaryHandler totals one month, the current one by default
func TransactionSummaryHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		year, month, err := yearMonth(c, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}
		summary, err := transactions.MonthlySummary(c.Request.Context(), userID, year, month)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"summary": summary})
	}
}

// yearMonth reads year and month query parameters, defaulting to the month of now
func yearMonth(c *gin.Context, now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, utils.ErrInvalidPeriod
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, utils.ErrInvalidPeriod
		}
		month = time.Month(m)
	}
	return year, month, nil
}

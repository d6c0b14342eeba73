package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"finance_tracker/internal/domain"  // Importing domain models
	"finance_tracker/internal/service" // Ledger services
	"finance_tracker/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// adminUsersPage is the cached admin user listing
type adminUsersPage struct {
	Users      []service.UserSummary `json:"users"`      // List of users
	Page       int                   `json:"page"`       // Current page
	PageSize   int                   `json:"pageSize"`   // Page size
	Total      int64                 `json:"total"`      // Total number of users
	TotalPages int                   `json:"totalPages"` // Total pages
	Cached     bool                  `json:"cached"`     // Served from Redis
}

// adminTransactionsPage is the cached admin transaction listing
type adminTransactionsPage struct {
	Transactions []domain.Transaction `json:"transactions"` // List of transactions
	Page         int                  `json:"page"`         // Current page
	PageSize     int                  `json:"pageSize"`     // Page size
	Total        int64                `json:"total"`        // Total number of transactions
	TotalPages   int                  `json:"totalPages"`   // Total pages
	Cached       bool                 `json:"cached"`       // Served from Redis
}

// ListUsersHandler returns all users with their account totals
func ListUsersHandler(admin *service.AdminService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := utils.ParsePage(c.Query("page"), c.Query("pageSize"))
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:" + c.Request.URL.Query().Encode()
		var cached adminUsersPage
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, cache.rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true // Indicate response is from cache
			c.JSON(http.StatusOK, cached)
			return
		}
		users, total, err := admin.ListUsers(ctx, page)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := adminUsersPage{
			Users:      users,
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      total,
			TotalPages: page.TotalPages(total),
		}
		// Cache the response for future requests
		if err := utils.SetCache(ctx, cache.rdb, cacheKey, resp, cache.ttl); err != nil {
			logrus.WithError(err).Warn("Failed to cache admin users")
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ListAllTransactionsHandler returns transactions of every user, optionally filtered by ?userId=
func ListAllTransactionsHandler(admin *service.AdminService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, err := queryID(c, "userId")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": upperFirst(err.Error())})
			return
		}
		f, err := transactionFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": upperFirst(err.Error())})
			return
		}
		// Build cache key from all query params
		cacheKey := "admin:txs:" + strings.ReplaceAll(c.Request.URL.Query().Encode(), "&", ":")
		var cached adminTransactionsPage
		if found, err := utils.GetCache(ctx, cache.rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		txs, total, err := admin.ListTransactions(ctx, userID, f)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := adminTransactionsPage{
			Transactions: txs,
			Page:         f.Page.Page,
			PageSize:     f.Page.PageSize,
			Total:        total,
			TotalPages:   f.Page.TotalPages(total),
		}
		if err := utils.SetCache(ctx, cache.rdb, cacheKey, resp, cache.ttl); err != nil {
			logrus.WithError(err).Warn("Failed to cache admin transactions")
		}
		c.JSON(http.StatusOK, resp)
	}
}

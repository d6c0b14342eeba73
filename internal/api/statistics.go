package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

// Trend window bounds in months
const (
	defaultTrendMonths = 6
	maxTrendMonths     = 24
)

// OverviewHandler returns the dashboard headline
func OverviewHandler(stats *service.StatisticsService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		cache.serve(c, statsKey(userID, "overview", c), "overview", func(ctx context.Context) (any, error) {
			return stats.Overview(ctx, userID, time.Now().UTC())
		})
	}
}

// SummaryHandler totals a period and compares it with the previous one
func SummaryHandler(stats *service.StatisticsService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		r, ok := periodRange(c)
		if !ok {
			return
		}
		cache.serve(c, statsKey(userID, "summary", c), "summary", func(ctx context.Context) (any, error) {
			return stats.Summary(ctx, userID, r)
		})
	}
}

// TrendHandler returns monthly income and expense ending at ?year=&month=
func TrendHandler(stats *service.StatisticsService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		months := defaultTrendMonths
		if v := c.Query("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxTrendMonths {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Months must be between 1 and 24"})
				return
			}
			months = n
		}
		year, month, err := yearMonth(c, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}
		end := utils.MonthStart(year, month)
		cache.serve(c, statsKey(userID, "trend", c), "trend", func(ctx context.Context) (any, error) {
			return stats.Trend(ctx, userID, end, months)
		})
	}
}

// ByCategoryHandler breaks one transaction type down by category
func ByCategoryHandler(stats *service.StatisticsService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		typ := domain.CategoryTypeExpense // Expenses unless asked otherwise
		if v := c.Query("type"); v != "" {
			typ = domain.CategoryType(strings.ToUpper(v))
		}
		if !typ.Valid() {
			respondError(c, service.ErrInvalidCategoryType)
			return
		}
		r, ok := periodRange(c)
		if !ok {
			return
		}
		cache.serve(c, statsKey(userID, "by-category", c), "categories", func(ctx context.Context) (any, error) {
			return stats.ByCategory(ctx, userID, typ, r)
		})
	}
}

// CalendarHandler returns daily totals of one month
func CalendarHandler(stats *service.StatisticsService, cache *Cache) gin.HandlerFunc {
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
		cache.serve(c, statsKey(userID, "calendar", c), "calendar", func(ctx context.Context) (any, error) {
			return stats.Calendar(ctx, userID, year, month)
		})
	}
}

// periodRange binds the period query and resolves it against now
func periodRange(c *gin.Context) (utils.DateRange, bool) {
	var q utils.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return utils.DateRange{}, false
	}
	r, err := q.Resolve(time.Now())
	if err != nil {
		respondError(c, err)
		return utils.DateRange{}, false
	}
	return r, true
}

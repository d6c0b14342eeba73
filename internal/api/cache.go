package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finance_tracker/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"
)

// Cache serves per-user reads from Redis. A nil client disables caching.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a cache keeping entries for ttl
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// statsKey builds the cache key of a statistics read; the query is sorted by Encode
func statsKey(userID uint, name string, c *gin.Context) string {
	return fmt.Sprintf("stats:user:%d:%s:%s", userID, name, c.Request.URL.Query().Encode())
}

// categoriesKey builds the cache key of a category listing
func categoriesKey(userID uint, c *gin.Context) string {
	return fmt.Sprintf("categories:user:%d:%s", userID, c.Request.URL.Query().Encode())
}

// serve answers {field: value, "cached": bool}, loading and storing value on a miss
func (ch *Cache) serve(c *gin.Context, key, field string, load func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()
	var cached json.RawMessage
	found, err := utils.GetCache(ctx, ch.rdb, key, &cached)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	}
	// If cached data found, return it
	if err == nil && found {
		c.JSON(http.StatusOK, gin.H{field: cached, "cached": true})
		return
	}
	value, err := load(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	// Cache the response for future requests
	if err := utils.SetCache(ctx, ch.rdb, key, value, ch.ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
	c.JSON(http.StatusOK, gin.H{field: value, "cached": false})
}

// invalidateUser drops every cached read of the user after a write
func (ch *Cache) invalidateUser(ctx context.Context, userID uint) {
	for _, pattern := range []string{
		fmt.Sprintf("stats:user:%d:*", userID),
		fmt.Sprintf("categories:user:%d:*", userID),
	} {
		if err := utils.DeleteCachePattern(ctx, ch.rdb, pattern); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"pattern": pattern,
				"error":   err.Error(),
			}).Warn("Failed to invalidate cache")
		}
	}
}

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

// CategoryRequest is the body of category create and update
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=128"`
	Type string `json:"type" binding:"required,categorytype"` // CHITIEU or THUNHAP
	Icon string `json:"icon" binding:"max=64"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: r.Name, Type: domain.CategoryType(r.Type), Icon: r.Icon}
}

// CategoryQuery filters the category listing
type CategoryQuery struct {
	Type string `form:"type" binding:"omitempty,categorytype"`
	utils.PeriodQuery
}

// ListCategoriesHandler returns categories with totals over the requested period, cached per query
func ListCategoriesHandler(categories *service.CategoryService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var q CategoryQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		r, err := q.Resolve(time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		typ := domain.CategoryType(strings.ToUpper(q.Type))
		cache.serve(c, categoriesKey(userID, c), "categories", func(ctx context.Context) (any, error) {
			return categories.List(ctx, userID, typ, r)
		})
	}
}

// CreateCategoryHandler adds a category
func CreateCategoryHandler(categories *service.CategoryService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		category, err := categories.Create(c.Request.Context(), userID, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusCreated, gin.H{"category": category})
	}
}

// UpdateCategoryHandler edits a category
func UpdateCategoryHandler(categories *service.CategoryService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		category, err := categories.Update(c.Request.Context(), userID, id, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

// DeleteCategoryHandler removes a category no transaction uses
func DeleteCategoryHandler(categories *service.CategoryService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := categories.Delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}

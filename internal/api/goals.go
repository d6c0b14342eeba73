package api

import (
	"net/http"
	"strconv"
	"strings"

	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalRequest is the body of goal create and update
type GoalRequest struct {
	Name         string          `json:"name" binding:"required,max=128"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline"` // YYYY-MM-DD, optional
	Icon         string          `json:"icon" binding:"max=64"`
	Archived     *bool           `json:"archived"`
	IsPinned     *bool           `json:"isPinned"`
}

func (r GoalRequest) input() (service.GoalInput, error) {
	in := service.GoalInput{
		Name:         r.Name,
		TargetAmount: r.TargetAmount,
		Icon:         r.Icon,
		Archived:     r.Archived,
		IsPinned:     r.IsPinned,
	}
	if strings.TrimSpace(r.Deadline) != "" {
		d, err := utils.ParseDate(r.Deadline)
		if err != nil {
			return in, err
		}
		in.Deadline = &d
	}
	return in, nil
}

// AddFundsRequest moves money from an account into a goal
type AddFundsRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	AccountID uint            `json:"accountId" binding:"required"`
	Note      string          `json:"note" binding:"max=256"`
}

// ListGoalsHandler returns goals, optionally filtered by ?archived=true|false
func ListGoalsHandler(goals *service.GoalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var archived *bool
		if v := c.Query("archived"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid archived"})
				return
			}
			archived = &b
		}
		list, err := goals.List(c.Request.Context(), userID, archived)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"goals": list})
	}
}

// GetGoalHandler returns a goal with its contributions
func GetGoalHandler(goals *service.GoalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		goal, err := goals.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"goal": goal})
	}
}

// CreateGoalHandler adds a savings goal
func CreateGoalHandler(goals *service.GoalService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		in, err := req.input()
		if err != nil {
			respondError(c, err)
			return
		}
		goal, err := goals.Create(c.Request.Context(), userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusCreated, gin.H{"goal": goal})
	}
}

// UpdateGoalHandler edits a goal
func UpdateGoalHandler(goals *service.GoalService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		in, err := req.input()
		if err != nil {
			respondError(c, err)
			return
		}
		goal, err := goals.Update(c.Request.Context(), userID, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"goal": goal})
	}
}

// DeleteGoalHandler removes a goal and refunds its contributions
func DeleteGoalHandler(goals *service.GoalService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := goals.Delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
	}
}

// AddFundsHandler funds a goal from one of the user's accounts
func AddFundsHandler(goals *service.GoalService, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req AddFundsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		goal, err := goals.AddFunds(c.Request.Context(), userID, id, req.AccountID, req.Amount, req.Note)
		if err != nil {
			respondError(c, err) // Insufficient funds and archived goals are 400
			return
		}
		cache.invalidateUser(c.Request.Context(), userID)
		c.JSON(http.StatusOK, gin.H{"goal": goal})
	}
}

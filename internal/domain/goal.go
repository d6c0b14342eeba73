package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus tracks whether a savings goal has been reached
type GoalStatus string

const (
	GoalStatusInProgress GoalStatus = "IN_PROGRESS"
	GoalStatusCompleted  GoalStatus = "COMPLETED"
)

// Goal Model
type Goal struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	UserID        uint               `gorm:"index;not null" json:"userId"`
	Name          string             `gorm:"size:128;not null" json:"name"`
	TargetAmount  decimal.Decimal    `gorm:"type:decimal(20,2);not null" json:"targetAmount"`
	CurrentAmount decimal.Decimal    `gorm:"type:decimal(20,2);not null;default:0" json:"currentAmount"`
	Deadline      *time.Time         `json:"deadline"`
	Icon          string             `gorm:"size:64" json:"icon"`
	Archived      bool               `gorm:"not null;default:false" json:"archived"`
	IsPinned      bool               `gorm:"not null;default:false" json:"isPinned"`
	Status        GoalStatus         `gorm:"size:16;not null;default:IN_PROGRESS" json:"status"`
	AchievedAt    *time.Time         `json:"achievedAt"`
	Progress      float64            `gorm:"-" json:"progress"` // Percent of target reached
	Contributions []GoalContribution `gorm:"constraint:OnDelete:CASCADE;" json:"contributions,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Remaining returns how much is still missing to reach the target
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Reached reports whether the current amount covers the target
func (g Goal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// FillProgress sets the derived Progress field, capped at 100
func (g *Goal) FillProgress() {
	p := Percent(g.CurrentAmount, g.TargetAmount)
	if p > 100 {
		p = 100
	}
	g.Progress = p
}

// GoalContribution records one funding of a goal from an account
type GoalContribution struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	GoalID    uint            `gorm:"index;not null" json:"goalId"`
	UserID    uint            `gorm:"index;not null" json:"userId"`
	AccountID uint            `gorm:"index;not null" json:"accountId"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Note      string          `gorm:"size:256" json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoalInput holds goal fields; nil pointers leave values unchanged on update
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
	Icon         string
	Archived     *bool
	IsPinned     *bool
}

func (in *GoalInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Name == "" {
		return ErrNameRequired
	}
	if !in.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.Deadline != nil {
		d := utils.Day(*in.Deadline)
		in.Deadline = &d
	}
	return nil
}

// GoalSummary aggregates the user's goals
type GoalSummary struct {
	Total     int64           `json:"total"`
	Active    int64           `json:"active"`
	Completed int64           `json:"completed"`
	Saved     decimal.Decimal `json:"saved"`
	Target    decimal.Decimal `json:"target"`
}

// GoalService manages savings goals and their funding
type GoalService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewGoalService creates a goal service publishing to p
func NewGoalService(db *gorm.DB, p events.Publisher) *GoalService {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &GoalService{db: db, publisher: p}
}

// List returns goals, pinned first then by nearest deadline. A nil archived returns all.
func (s *GoalService) List(ctx context.Context, userID uint, archived *bool) ([]domain.Goal, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if archived != nil {
		q = q.Where("archived = ?", *archived)
	}
	goals := []domain.Goal{}
	err := q.Order("is_pinned DESC").
		Order("CASE WHEN deadline IS NULL THEN 1 ELSE 0 END").
		Order("deadline ASC").
		Order("id ASC").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	for i := range goals {
		goals[i].FillProgress()
	}
	return goals, nil
}

// Get returns a goal with its funding history, newest first
func (s *GoalService) Get(ctx context.Context, userID, id uint) (*domain.Goal, error) {
	var g domain.Goal
	err := s.db.WithContext(ctx).
		Preload("Contributions", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		Where("id = ? AND user_id = ?", id, userID).First(&g).Error
	if err != nil {
		return nil, notFound(err)
	}
	g.FillProgress()
	return &g, nil
}

// Create adds a goal with nothing saved yet
func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*domain.Goal, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	g := domain.Goal{
		UserID:        userID,
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		Icon:          in.Icon,
		Status:        domain.GoalStatusInProgress,
	}
	if in.Archived != nil {
		g.Archived = *in.Archived
	}
	if in.IsPinned != nil {
		g.IsPinned = *in.IsPinned
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&g).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"goal_id": g.ID,
		"target":  g.TargetAmount.String(),
	}).Info("Goal created")
	g.FillProgress()
	return &g, nil
}

// Update edits a goal and re-evaluates its status against the new target. The saved amount
// belongs to AddFunds and is never written here.
func (s *GoalService) Update(ctx context.Context, userID, id uint, in GoalInput) (*domain.Goal, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var (
		g        domain.Goal
		achieved bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).First(&g).Error
		if err != nil {
			return notFound(err)
		}
		wasReached := g.Status == domain.GoalStatusCompleted
		g.TargetAmount = in.TargetAmount
		settleStatus(&g, time.Now())
		achieved = !wasReached && g.Status == domain.GoalStatusCompleted

		updates := map[string]any{
			"name":          in.Name,
			"target_amount": in.TargetAmount,
			"deadline":      in.Deadline,
			"icon":          in.Icon,
			"status":        g.Status,
			"achieved_at":   g.AchievedAt,
		}
		if in.Archived != nil {
			updates["archived"] = *in.Archived
		}
		if in.IsPinned != nil {
			updates["is_pinned"] = *in.IsPinned
		}
		if err := tx.Model(&domain.Goal{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if achieved {
		s.publish(ctx, events.GoalAchieved, g, 0, decimal.Zero, decimal.Zero) // Target lowered to the saved amount
	}
	return s.Get(ctx, userID, id)
}

// Delete removes a goal and returns its contributions to the accounts they came from
func (s *GoalService) Delete(ctx context.Context, userID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g domain.Goal
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
			return notFound(err)
		}
		var refunds []struct {
			AccountID uint
			Total     decimal.Decimal
		}
		err := tx.Model(&domain.GoalContribution{}).
			Select("account_id, COALESCE(SUM(amount), 0) AS total").
			Where("goal_id = ?", id).Group("account_id").Scan(&refunds).Error
		if err != nil {
			return fmt.Errorf("sum contributions: %w", err)
		}
		for _, r := range refunds {
			if err := adjustBalance(tx, r.AccountID, r.Total); err != nil {
				return err
			}
		}
		if err := tx.Where("goal_id = ?", id).Delete(&domain.GoalContribution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "goal_id": id}).Info("Goal deleted")
	return nil
}

// AddFunds moves amount from an account into the goal
func (s *GoalService) AddFunds(ctx context.Context, userID, goalID, accountID uint, amount decimal.Decimal, note string) (*domain.Goal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var (
		g        domain.Goal
		before   decimal.Decimal
		achieved bool
		contrib  domain.GoalContribution
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", goalID, userID).First(&g).Error
		if err != nil {
			return notFound(err)
		}
		if g.Archived {
			return ErrGoalArchived
		}
		account, err := getAccount(tx, userID, accountID)
		if err != nil {
			return fmt.Errorf("account %d: %w", accountID, err)
		}
		before = account.Balance
		// Conditional debit so concurrent fundings cannot overdraw the account
		res := tx.Model(&domain.Account{}).
			Where("id = ? AND balance >= ?", accountID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("debit account: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		wasReached := g.Status == domain.GoalStatusCompleted
		g.CurrentAmount = g.CurrentAmount.Add(amount)
		settleStatus(&g, time.Now())
		achieved = !wasReached && g.Status == domain.GoalStatusCompleted
		err = tx.Model(&g).Updates(map[string]any{
			"current_amount": gorm.Expr("current_amount + ?", amount),
			"status":         g.Status,
			"achieved_at":    g.AchievedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("credit goal: %w", err)
		}
		contrib = domain.GoalContribution{
			GoalID:    g.ID,
			UserID:    userID,
			AccountID: accountID,
			Amount:    amount,
			Note:      strings.TrimSpace(note),
		}
		return tx.Create(&contrib).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"goal_id":    goalID,
		"account_id": accountID,
		"amount":     amount.String(),
		"achieved":   achieved,
	}).Info("Goal funded")

	s.publish(ctx, events.GoalFunded, g, accountID, amount, before)
	if achieved {
		s.publish(ctx, events.GoalAchieved, g, accountID, amount, before)
	}
	return s.Get(ctx, userID, goalID)
}

// Summary counts goals and sums saved amounts
func (s *GoalService) Summary(ctx context.Context, userID uint) (GoalSummary, error) {
	var goals []domain.Goal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return GoalSummary{}, fmt.Errorf("load goals: %w", err)
	}
	sum := GoalSummary{Saved: decimal.Zero, Target: decimal.Zero}
	for _, g := range goals {
		sum.Total++
		if g.Status == domain.GoalStatusCompleted {
			sum.Completed++
		} else if !g.Archived {
			sum.Active++
		}
		sum.Saved = sum.Saved.Add(g.CurrentAmount)
		sum.Target = sum.Target.Add(g.TargetAmount)
	}
	return sum, nil
}

// DueWithin returns unfinished, unarchived goals whose deadline falls in [now, now+d]
func (s *GoalService) DueWithin(ctx context.Context, now time.Time, d time.Duration) ([]domain.Goal, error) {
	var goals []domain.Goal
	err := s.db.WithContext(ctx).
		Where("status = ? AND archived = ? AND deadline IS NOT NULL", domain.GoalStatusInProgress, false).
		Where("deadline >= ? AND deadline <= ?", utils.Day(now), now.Add(d)).
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) publish(ctx context.Context, eventType string, g domain.Goal, accountID uint, amount, before decimal.Decimal) {
	e := events.New(eventType, g.UserID, g.ID)
	e.AccountID = accountID
	e.Amount = amount
	e.Balance = before
	if err := s.publisher.Publish(ctx, e); err != nil {
		logrus.WithFields(logrus.Fields{"type": eventType, "error": err.Error()}).Warn("Failed to publish event")
	}
}

// settleStatus keeps Status and AchievedAt consistent with the amounts
func settleStatus(g *domain.Goal, now time.Time) {
	if g.Reached() {
		if g.Status != domain.GoalStatusCompleted || g.AchievedAt == nil {
			t := now.UTC()
			g.AchievedAt = &t
		}
		g.Status = domain.GoalStatusCompleted
		return
	}
	g.Status = domain.GoalStatusInProgress
	g.AchievedAt = nil
}

// Package worker turns ledger events and goal deadlines into in-app notifications.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance_tracker/internal/assistant"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Notification thresholds
const (
	DeadlineWindow = 72 * time.Hour
	SweepInterval  = time.Hour
)

// largeExpenseShare is the part of the balance an expense must exceed to warn
var largeExpenseShare = decimal.NewFromFloat(0.5)

// Notifier reacts to ledger events
type Notifier struct {
	notifications *service.NotificationService
	goals         *service.GoalService
	accounts      *service.AccountService
	now           func() time.Time
}

// NewNotifier creates a notifier
func NewNotifier(notifications *service.NotificationService, goals *service.GoalService, accounts *service.AccountService) *Notifier {
	return &Notifier{notifications: notifications, goals: goals, accounts: accounts, now: time.Now}
}

// Handle processes one event; events it does not care about are ignored
func (n *Notifier) Handle(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.GoalAchieved:
		return n.goalAchieved(ctx, e)
	case events.TransactionCreated:
		return n.largeExpense(ctx, e)
	}
	return nil
}

func (n *Notifier) goalAchieved(ctx context.Context, e events.Event) error {
	goal, err := n.goals.Get(ctx, e.UserID, e.EntityID)
	if errors.Is(err, service.ErrNotFound) {
		return nil // Deleted since
	} else if err != nil {
		return err
	}
	return n.notify(ctx, domain.Notification{
		UserID:  e.UserID,
		Kind:    domain.NotificationGoalAchieved,
		RefID:   goal.ID,
		Title:   "Hoàn thành mục tiêu " + goal.Name,
		Message: fmt.Sprintf("Bạn đã tiết kiệm đủ %s cho mục tiêu %s.", assistant.FormatVND(goal.TargetAmount), goal.Name),
	})
}

// largeExpense warns when one expense takes more than half of the balance it was paid from
func (n *Notifier) largeExpense(ctx context.Context, e events.Event) error {
	if e.Kind != string(domain.CategoryTypeExpense) || !e.Balance.IsPositive() {
		return nil
	}
	if e.Amount.LessThanOrEqual(e.Balance.Mul(largeExpenseShare)) {
		return nil
	}
	name := "tài khoản"
	if account, err := n.accounts.Get(ctx, e.UserID, e.AccountID); err == nil {
		name = account.Name
	}
	return n.notify(ctx, domain.Notification{
		UserID: e.UserID,
		Kind:   domain.NotificationLargeExpense,
		RefID:  e.EntityID,
		Title:  "Khoản chi lớn",
		Message: fmt.Sprintf("Khoản chi %s chiếm %.0f%% số dư của %s.",
			assistant.FormatVND(e.Amount), domain.Percent(e.Amount, e.Balance), name),
	})
}

// Sweep reminds users of unfinished goals whose deadline is near. Each goal is reminded once.
func (n *Notifier) Sweep(ctx context.Context) (int, error) {
	now := n.now()
	goals, err := n.goals.DueWithin(ctx, now, DeadlineWindow)
	if err != nil {
		return 0, fmt.Errorf("due goals: %w", err)
	}
	created := 0
	for _, g := range goals {
		msg := fmt.Sprintf("Mục tiêu %s còn thiếu %s.", g.Name, assistant.FormatVND(g.Remaining()))
		if g.Deadline != nil {
			msg = fmt.Sprintf("Mục tiêu %s đến hạn ngày %s, còn thiếu %s.",
				g.Name, g.Deadline.Format("02/01/2006"), assistant.FormatVND(g.Remaining()))
		}
		ok, err := n.notifications.Notify(ctx, domain.Notification{
			UserID:  g.UserID,
			Kind:    domain.NotificationGoalDeadline,
			RefID:   g.ID,
			Title:   "Sắp đến hạn mục tiêu " + utils.TruncateText(g.Name, 60),
			Message: msg,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		logrus.WithField("count", created).Info("Goal deadline reminders created")
	}
	return created, nil
}

// RunSweeps calls Sweep at every interval until ctx is done
func (n *Notifier) RunSweeps(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := n.Sweep(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("Goal deadline sweep failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (n *Notifier) notify(ctx context.Context, note domain.Notification) error {
	created, err := n.notifications.Notify(ctx, note)
	if err != nil {
		return err
	}
	if created {
		logrus.WithFields(logrus.Fields{
			"user_id": note.UserID,
			"kind":    note.Kind,
			"ref_id":  note.RefID,
		}).Info("Notification created")
	}
	return nil
}

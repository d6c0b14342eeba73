package service

import (
	"testing"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (f *fixture) goal(t *testing.T, userID uint, target int64) *domain.Goal {
	t.Helper()
	g, err := f.goals.Create(f.ctx, userID, GoalInput{Name: "Mua laptop", TargetAmount: money(target)})
	require.NoError(t, err)
	return g
}

func TestAddFundsDebitsAccountAndCompletesGoal(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 10_000_000)
	g := f.goal(t, uid, 5_000_000)
	assert.Equal(t, domain.GoalStatusInProgress, g.Status)

	g, err := f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(2_000_000), "tháng 1")
	require.NoError(t, err)
	assertMoney(t, money(2_000_000), g.CurrentAmount)
	assert.InDelta(t, 40.0, g.Progress, 0.001)
	assert.Equal(t, domain.GoalStatusInProgress, g.Status)
	require.Len(t, g.Contributions, 1)
	assert.Equal(t, "tháng 1", g.Contributions[0].Note)

	g, err = f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(4_000_000), "")
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatusCompleted, g.Status)
	assert.NotNil(t, g.AchievedAt)
	assert.InDelta(t, 100.0, g.Progress, 0.001)
	assertMoney(t, money(6_000_000), g.CurrentAmount)

	assertMoney(t, money(4_000_000), f.balanceOf(t, uid, a.ID))
	f.assertLedger(t, uid, a.ID)
	assert.Equal(t, []string{events.GoalFunded, events.GoalFunded, events.GoalAchieved}, f.events.Types())
}

func TestAddFundsRejectsOverdraw(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 100_000)
	g := f.goal(t, uid, 1_000_000)

	_, err := f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(100_001), "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assertMoney(t, money(100_000), f.balanceOf(t, uid, a.ID))

	_, err = f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(0), "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	got, err := f.goals.Get(f.ctx, uid, g.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentAmount.IsZero())
	assert.Empty(t, got.Contributions)
	assert.Empty(t, f.events.Events)
}

func TestAddFundsToArchivedGoal(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 100_000)
	archived := true
	g, err := f.goals.Create(f.ctx, uid, GoalInput{Name: "Cũ", TargetAmount: money(10), Archived: &archived})
	require.NoError(t, err)

	_, err = f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(5), "")
	assert.ErrorIs(t, err, ErrGoalArchived)
}

func TestDeleteGoalRefundsContributions(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	cash := f.cash(t, uid, 1_000_000)
	bank, err := f.accounts.Create(f.ctx, uid, AccountInput{BankName: "ACB", InitialBalance: money(500_000)})
	require.NoError(t, err)
	g := f.goal(t, uid, 2_000_000)

	_, err = f.goals.AddFunds(f.ctx, uid, g.ID, cash.ID, money(300_000), "")
	require.NoError(t, err)
	_, err = f.goals.AddFunds(f.ctx, uid, g.ID, bank.ID, money(200_000), "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.accounts.Delete(f.ctx, uid, bank.ID), ErrInUse)

	require.NoError(t, f.goals.Delete(f.ctx, uid, g.ID))
	assertMoney(t, money(1_000_000), f.balanceOf(t, uid, cash.ID))
	assertMoney(t, money(500_000), f.balanceOf(t, uid, bank.ID))
	_, err = f.goals.Get(f.ctx, uid, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.accounts.Delete(f.ctx, uid, bank.ID))
}

func TestUpdateGoalResettlesStatus(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 1_000_000)
	g := f.goal(t, uid, 100_000)
	g, err := f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(100_000), "")
	require.NoError(t, err)
	require.Equal(t, domain.GoalStatusCompleted, g.Status)

	g, err = f.goals.Update(f.ctx, uid, g.ID, GoalInput{Name: g.Name, TargetAmount: money(300_000)})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatusInProgress, g.Status)
	assert.Nil(t, g.AchievedAt)
	assertMoney(t, money(100_000), g.CurrentAmount)
}

func TestUpdateGoalKeepsFundsAddedMeanwhile(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 1_000_000)
	g := f.goal(t, uid, 1_000_000)

	// A funding lands right after Update has read the goal
	armed := true
	err := f.db.Callback().Query().After("gorm:query").Register("test:funding_in_between", func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != "goals" {
			return
		}
		armed = false
		raw := tx.Session(&gorm.Session{NewDB: true})
		require.NoError(t, raw.Exec("UPDATE accounts SET balance = balance - ? WHERE id = ?", money(300_000), a.ID).Error)
		require.NoError(t, raw.Create(&domain.GoalContribution{GoalID: g.ID, UserID: uid, AccountID: a.ID, Amount: money(300_000)}).Error)
		require.NoError(t, raw.Exec("UPDATE goals SET current_amount = current_amount + ? WHERE id = ?", money(300_000), g.ID).Error)
	})
	require.NoError(t, err)

	got, err := f.goals.Update(f.ctx, uid, g.ID, GoalInput{Name: "Mua xe", TargetAmount: money(1_000_000)})
	require.NoError(t, err)
	assert.False(t, armed)
	assert.Equal(t, "Mua xe", got.Name)
	assertMoney(t, money(300_000), got.CurrentAmount)
	require.Len(t, got.Contributions, 1)
	assertMoney(t, money(700_000), f.balanceOf(t, uid, a.ID))
	f.assertLedger(t, uid, a.ID)
}

func TestLoweringTargetCompletesGoal(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 1_000_000)
	g := f.goal(t, uid, 1_000_000)
	_, err := f.goals.AddFunds(f.ctx, uid, g.ID, a.ID, money(400_000), "")
	require.NoError(t, err)

	g, err = f.goals.Update(f.ctx, uid, g.ID, GoalInput{Name: g.Name, TargetAmount: money(400_000)})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatusCompleted, g.Status)
	assert.NotNil(t, g.AchievedAt)
	assert.Equal(t, []string{events.GoalFunded, events.GoalAchieved}, f.events.Types())
	assert.Equal(t, g.ID, f.events.Events[1].EntityID)
	assert.Equal(t, uid, f.events.Events[1].UserID)

	// Editing a completed goal does not announce it again
	_, err = f.goals.Update(f.ctx, uid, g.ID, GoalInput{Name: "Laptop mới", TargetAmount: money(400_000)})
	require.NoError(t, err)
	assert.Len(t, f.events.Events, 2)
}

func TestListGoalsOrdersPinnedThenDeadline(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	soon, later := day(2026, 11, 1), day(2027, 6, 1)
	pinned := true

	_, err := f.goals.Create(f.ctx, uid, GoalInput{Name: "no deadline", TargetAmount: money(1)})
	require.NoError(t, err)
	_, err = f.goals.Create(f.ctx, uid, GoalInput{Name: "later", TargetAmount: money(1), Deadline: &later})
	require.NoError(t, err)
	_, err = f.goals.Create(f.ctx, uid, GoalInput{Name: "soon", TargetAmount: money(1), Deadline: &soon})
	require.NoError(t, err)
	_, err = f.goals.Create(f.ctx, uid, GoalInput{Name: "pinned", TargetAmount: money(1), IsPinned: &pinned})
	require.NoError(t, err)

	goals, err := f.goals.List(f.ctx, uid, nil)
	require.NoError(t, err)
	names := make([]string, len(goals))
	for i, g := range goals {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"pinned", "soon", "later", "no deadline"}, names)
}

func TestGoalSummaryAndDueWithin(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 1_000_000)
	now := time.Now().UTC()
	due := now.AddDate(0, 0, 2)
	far := now.AddDate(0, 1, 0)

	_, err := f.goals.Create(f.ctx, uid, GoalInput{Name: "due", TargetAmount: money(500_000), Deadline: &due})
	require.NoError(t, err)
	_, err = f.goals.Create(f.ctx, uid, GoalInput{Name: "far", TargetAmount: money(500_000), Deadline: &far})
	require.NoError(t, err)
	done := f.goal(t, uid, 100_000)
	_, err = f.goals.AddFunds(f.ctx, uid, done.ID, a.ID, money(100_000), "")
	require.NoError(t, err)

	sum, err := f.goals.Summary(f.ctx, uid)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sum.Total)
	assert.EqualValues(t, 2, sum.Active)
	assert.EqualValues(t, 1, sum.Completed)
	assertMoney(t, money(100_000), sum.Saved)
	assertMoney(t, money(1_100_000), sum.Target)

	goals, err := f.goals.DueWithin(f.ctx, now, 3*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "due", goals[0].Name)
}

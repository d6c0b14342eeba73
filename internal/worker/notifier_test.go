package worker

import (
	"context"
	"testing"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/service"
	"finance_tracker/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx           context.Context
	recorder      *events.Recorder
	notifier      *Notifier
	notifications *service.NotificationService
	accounts      *service.AccountService
	categories    *service.CategoryService
	transactions  *service.TransactionService
	goals         *service.GoalService
	userID        uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	recorder := &events.Recorder{}
	f := &fixture{
		ctx:           context.Background(),
		recorder:      recorder,
		notifications: service.NewNotificationService(db),
		accounts:      service.NewAccountService(db),
		categories:    service.NewCategoryService(db),
		transactions:  service.NewTransactionService(db, recorder),
		goals:         service.NewGoalService(db, recorder),
	}
	f.notifier = NewNotifier(f.notifications, f.goals, f.accounts)
	auth := service.NewAuthService(db, f.categories, "secret", time.Hour)
	_, user, err := auth.Register(f.ctx, service.RegisterInput{Username: "lan", Email: "lan@example.com", Password: "secret1"})
	require.NoError(t, err)
	f.userID = user.ID
	return f
}

func (f *fixture) account(t *testing.T, balance int64) *domain.Account {
	t.Helper()
	a, err := f.accounts.Create(f.ctx, f.userID, service.AccountInput{InitialBalance: decimal.NewFromInt(balance)})
	require.NoError(t, err)
	return a
}

// deliver hands every recorded event to the notifier, as the AMQP consumer would
func (f *fixture) deliver(t *testing.T) {
	t.Helper()
	for _, e := range f.recorder.Events {
		require.NoError(t, f.notifier.Handle(f.ctx, e))
	}
	f.recorder.Events = nil
}

func (f *fixture) kinds(t *testing.T) []string {
	t.Helper()
	list, err := f.notifications.List(f.ctx, f.userID, false)
	require.NoError(t, err)
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Kind
	}
	return out
}

func TestLargeExpenseWarning(t *testing.T) {
	f := newFixture(t)
	account := f.account(t, 1_000_000)
	food, err := f.categories.FindByName(f.ctx, f.userID, "Ăn uống", domain.CategoryTypeExpense)
	require.NoError(t, err)

	_, err = f.transactions.Create(f.ctx, f.userID, service.TransactionInput{
		Type: domain.CategoryTypeExpense, Amount: decimal.NewFromInt(100_000), CategoryID: food.ID, AccountID: account.ID,
	})
	require.NoError(t, err)
	f.deliver(t)
	assert.Empty(t, f.kinds(t))

	// 600k out of the remaining 900k
	_, err = f.transactions.Create(f.ctx, f.userID, service.TransactionInput{
		Type: domain.CategoryTypeExpense, Amount: decimal.NewFromInt(600_000), CategoryID: food.ID, AccountID: account.ID,
	})
	require.NoError(t, err)
	f.deliver(t)
	assert.Equal(t, []string{domain.NotificationLargeExpense}, f.kinds(t))
}

func TestIncomeNeverWarns(t *testing.T) {
	f := newFixture(t)
	account := f.account(t, 1_000)
	salary, err := f.categories.FindByName(f.ctx, f.userID, "Lương", domain.CategoryTypeIncome)
	require.NoError(t, err)
	_, err = f.transactions.Create(f.ctx, f.userID, service.TransactionInput{
		Type: domain.CategoryTypeIncome, Amount: decimal.NewFromInt(10_000_000), CategoryID: salary.ID, AccountID: account.ID,
	})
	require.NoError(t, err)
	f.deliver(t)
	assert.Empty(t, f.kinds(t))
}

func TestGoalAchievedNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	account := f.account(t, 2_000_000)
	goal, err := f.goals.Create(f.ctx, f.userID, service.GoalInput{Name: "Xe đạp", TargetAmount: decimal.NewFromInt(500_000)})
	require.NoError(t, err)

	_, err = f.goals.AddFunds(f.ctx, f.userID, goal.ID, account.ID, decimal.NewFromInt(500_000), "")
	require.NoError(t, err)
	assert.Equal(t, []string{events.GoalFunded, events.GoalAchieved}, f.recorder.Types())

	redelivered := append([]events.Event(nil), f.recorder.Events...)
	f.deliver(t)
	for _, e := range redelivered {
		require.NoError(t, f.notifier.Handle(f.ctx, e))
	}
	assert.Equal(t, []string{domain.NotificationGoalAchieved}, f.kinds(t))
}

func TestSweepRemindsOncePerGoal(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	f.notifier.now = func() time.Time { return now }

	soon := now.AddDate(0, 0, 2)
	later := now.AddDate(0, 1, 0)
	_, err := f.goals.Create(f.ctx, f.userID, service.GoalInput{Name: "Du lịch", TargetAmount: decimal.NewFromInt(5_000_000), Deadline: &soon})
	require.NoError(t, err)
	_, err = f.goals.Create(f.ctx, f.userID, service.GoalInput{Name: "Laptop", TargetAmount: decimal.NewFromInt(20_000_000), Deadline: &later})
	require.NoError(t, err)

	created, err := f.notifier.Sweep(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = f.notifier.Sweep(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, []string{domain.NotificationGoalDeadline}, f.kinds(t))
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.notifier.Handle(f.ctx, events.New(events.TransactionDeleted, f.userID, 99)))
	assert.NoError(t, f.notifier.Handle(f.ctx, events.New(events.GoalAchieved, f.userID, 99)))
	assert.Empty(t, f.kinds(t))
}

package service

import (
	"context"
	"testing"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	ctx           context.Context
	db            *gorm.DB
	events        *events.Recorder
	auth          *AuthService
	accounts      *AccountService
	categories    *CategoryService
	transactions  *TransactionService
	goals         *GoalService
	stats         *StatisticsService
	notifications *NotificationService
	admin         *AdminService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &events.Recorder{}
	f := &fixture{ctx: context.Background(), db: db, events: rec}
	f.categories = NewCategoryService(db)
	f.auth = NewAuthService(db, f.categories, "test-secret", time.Hour)
	f.accounts = NewAccountService(db)
	f.transactions = NewTransactionService(db, rec)
	f.goals = NewGoalService(db, rec)
	f.stats = NewStatisticsService(db, f.accounts, f.goals, f.transactions)
	f.notifications = NewNotificationService(db)
	f.admin = NewAdminService(db)
	return f
}

// user registers a user and returns its id
func (f *fixture) user(t *testing.T, name string) uint {
	t.Helper()
	_, u, err := f.auth.Register(f.ctx, RegisterInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret1",
		Fullname: "Test " + name,
	})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) cash(t *testing.T, userID uint, initial int64) *domain.Account {
	t.Helper()
	a, err := f.accounts.Create(f.ctx, userID, AccountInput{Type: domain.AccountTypeCash, InitialBalance: money(initial)})
	require.NoError(t, err)
	return a
}

func (f *fixture) category(t *testing.T, userID uint, name string, typ domain.CategoryType) *domain.Category {
	t.Helper()
	c, err := f.categories.FindByName(f.ctx, userID, name, typ)
	require.NoError(t, err)
	return c
}

func (f *fixture) spend(t *testing.T, userID, accountID uint, amount int64, day time.Time) *domain.Transaction {
	t.Helper()
	tx, err := f.transactions.Create(f.ctx, userID, TransactionInput{
		Type:       domain.CategoryTypeExpense,
		Amount:     money(amount),
		CategoryID: f.category(t, userID, "Ăn uống", domain.CategoryTypeExpense).ID,
		AccountID:  accountID,
		Date:       day,
	})
	require.NoError(t, err)
	return tx
}

func (f *fixture) earn(t *testing.T, userID, accountID uint, amount int64, day time.Time) *domain.Transaction {
	t.Helper()
	tx, err := f.transactions.Create(f.ctx, userID, TransactionInput{
		Type:       domain.CategoryTypeIncome,
		Amount:     money(amount),
		CategoryID: f.category(t, userID, "Lương", domain.CategoryTypeIncome).ID,
		AccountID:  accountID,
		Date:       day,
	})
	require.NoError(t, err)
	return tx
}

// balanceOf re-reads an account balance
func (f *fixture) balanceOf(t *testing.T, userID, accountID uint) decimal.Decimal {
	t.Helper()
	a, err := f.accounts.Get(f.ctx, userID, accountID)
	require.NoError(t, err)
	return a.Balance
}

// assertLedger checks balance = initial + income - expense - contributions
func (f *fixture) assertLedger(t *testing.T, userID, accountID uint) {
	t.Helper()
	a, err := f.accounts.Get(f.ctx, userID, accountID)
	require.NoError(t, err)
	var txs []domain.Transaction
	require.NoError(t, f.db.Where("account_id = ?", accountID).Find(&txs).Error)
	var contribs []domain.GoalContribution
	require.NoError(t, f.db.Where("account_id = ?", accountID).Find(&contribs).Error)
	want := a.InitialBalance
	for _, tx := range txs {
		want = want.Add(tx.SignedAmount())
	}
	for _, c := range contribs {
		want = want.Sub(c.Amount)
	}
	assertMoney(t, want, a.Balance)
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func assertMoney(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

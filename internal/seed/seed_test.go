package seed

import (
	"context"
	"testing"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/service"
	"finance_tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsBalancesConsistent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	categories := service.NewCategoryService(db)
	accounts := service.NewAccountService(db)
	transactions := service.NewTransactionService(db, events.NopPublisher{})
	auth := service.NewAuthService(db, categories, "secret", time.Hour)
	_, user, err := auth.Register(ctx, service.RegisterInput{Username: "demo", Email: "demo@example.com", Password: "secret1"})
	require.NoError(t, err)

	s := New(db, accounts, categories, transactions, 42)
	found, err := s.FindUser(ctx, "DEMO")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	created, err := s.Run(ctx, user.ID, 30, 60, now)
	require.NoError(t, err)
	assert.Equal(t, 32, created) // 30 random plus salaries on Sep 1 and Oct 1

	list, err := accounts.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		var txs []domain.Transaction
		require.NoError(t, db.Where("account_id = ?", a.ID).Find(&txs).Error)
		expected := a.InitialBalance
		for _, tx := range txs {
			expected = expected.Add(tx.SignedAmount())
		}
		assert.True(t, expected.Equal(a.Balance), "account %d: %s != %s", a.ID, expected, a.Balance)
	}

	_, err = s.FindUser(ctx, "nobody")
	assert.Error(t, err)
}

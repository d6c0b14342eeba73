package service

import (
	"testing"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionsMoveBalance(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 1_000_000)

	f.earn(t, uid, a.ID, 500_000, day(2026, 3, 1))
	expense := f.spend(t, uid, a.ID, 300_000, day(2026, 3, 2))
	assertMoney(t, money(1_200_000), f.balanceOf(t, uid, a.ID))
	assert.Equal(t, "Ăn uống", expense.Category.Name)
	assert.Equal(t, a.ID, expense.Account.ID)

	require.NoError(t, f.transactions.Delete(f.ctx, uid, expense.ID))
	assertMoney(t, money(1_500_000), f.balanceOf(t, uid, a.ID))
	f.assertLedger(t, uid, a.ID)

	assert.Equal(t, []string{events.TransactionCreated, events.TransactionCreated, events.TransactionDeleted}, f.events.Types())
	created := f.events.Events[1]
	assert.Equal(t, string(domain.CategoryTypeExpense), created.Kind)
	assertMoney(t, money(1_500_000), created.Balance)
}

func TestExpenseMayOverdraw(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 100_000)

	f.spend(t, uid, a.ID, 250_000, time.Now())
	assertMoney(t, money(-150_000), f.balanceOf(t, uid, a.ID))
}

func TestUpdateTransactionAcrossAccounts(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	cash := f.cash(t, uid, 1_000_000)
	bank, err := f.accounts.Create(f.ctx, uid, AccountInput{BankName: "VCB", InitialBalance: money(2_000_000)})
	require.NoError(t, err)

	tx := f.spend(t, uid, cash.ID, 100_000, day(2026, 4, 10))
	salary := f.category(t, uid, "Lương", domain.CategoryTypeIncome)

	updated, err := f.transactions.Update(f.ctx, uid, tx.ID, TransactionInput{
		Type:        domain.CategoryTypeIncome,
		Amount:      money(400_000),
		CategoryID:  salary.ID,
		AccountID:   bank.ID,
		Date:        day(2026, 4, 11),
		Description: "  lương tháng 4 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "lương tháng 4", updated.Description)
	assert.Equal(t, bank.ID, updated.AccountID)

	assertMoney(t, money(1_000_000), f.balanceOf(t, uid, cash.ID))
	assertMoney(t, money(2_400_000), f.balanceOf(t, uid, bank.ID))
	f.assertLedger(t, uid, cash.ID)
	f.assertLedger(t, uid, bank.ID)
}

func TestFailedUpdateLeavesBalanceUntouched(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 1_000_000)
	tx := f.spend(t, uid, a.ID, 100_000, time.Now())
	salary := f.category(t, uid, "Lương", domain.CategoryTypeIncome)

	_, err := f.transactions.Update(f.ctx, uid, tx.ID, TransactionInput{
		Type:       domain.CategoryTypeExpense,
		Amount:     money(50_000),
		CategoryID: salary.ID,
		AccountID:  a.ID,
	})
	assert.ErrorIs(t, err, ErrCategoryTypeMismatch)
	assertMoney(t, money(900_000), f.balanceOf(t, uid, a.ID))
}

func TestCreateTransactionValidation(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	other := f.user(t, "minh")
	a := f.cash(t, uid, 0)
	food := f.category(t, uid, "Ăn uống", domain.CategoryTypeExpense)
	foreign := f.cash(t, other, 0)

	cases := []struct {
		name string
		in   TransactionInput
		want error
	}{
		{"zero amount", TransactionInput{Type: "CHITIEU", Amount: money(0), CategoryID: food.ID, AccountID: a.ID}, ErrInvalidAmount},
		{"bad type", TransactionInput{Type: "TRANSFER", Amount: money(1), CategoryID: food.ID, AccountID: a.ID}, ErrInvalidCategoryType},
		{"type mismatch", TransactionInput{Type: "THUNHAP", Amount: money(1), CategoryID: food.ID, AccountID: a.ID}, ErrCategoryTypeMismatch},
		{"foreign account", TransactionInput{Type: "CHITIEU", Amount: money(1), CategoryID: food.ID, AccountID: foreign.ID}, ErrNotFound},
		{"missing category", TransactionInput{Type: "CHITIEU", Amount: money(1), CategoryID: 9999, AccountID: a.ID}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.transactions.Create(f.ctx, uid, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.events.Events)
}

func TestCreateTransactionDefaultsDateToToday(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 0)

	tx, err := f.transactions.Create(f.ctx, uid, TransactionInput{
		Type:       domain.CategoryTypeIncome,
		Amount:     money(10_000),
		CategoryID: f.category(t, uid, "Thưởng", domain.CategoryTypeIncome).ID,
		AccountID:  a.ID,
	})
	require.NoError(t, err)
	assert.True(t, utils.Day(time.Now()).Equal(tx.Date.UTC()))
}

func TestListTransactionsFiltersAndPages(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 0)
	for d := 1; d <= 5; d++ {
		f.spend(t, uid, a.ID, int64(d)*1_000, day(2026, 5, d))
	}
	f.earn(t, uid, a.ID, 9_000, day(2026, 6, 1))

	all, total, err := f.transactions.List(f.ctx, uid, TransactionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	require.Len(t, all, 6)
	assert.Equal(t, domain.CategoryTypeIncome, all[0].Type)

	page, total, err := f.transactions.List(f.ctx, uid, TransactionFilter{
		Type:  domain.CategoryTypeExpense,
		Range: utils.DateRange{From: day(2026, 5, 2), To: day(2026, 5, 5)},
		Page:  utils.Page{Page: 2, PageSize: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.True(t, day(2026, 5, 2).Equal(page[0].Date.UTC()))
}

func TestMonthlySummary(t *testing.T) {
	f := setup(t)
	uid := f.user(t, "lan")
	a := f.cash(t, uid, 0)
	f.earn(t, uid, a.ID, 10_000_000, day(2026, 7, 1))
	f.spend(t, uid, a.ID, 2_500_000, day(2026, 7, 15))
	f.spend(t, uid, a.ID, 500_000, day(2026, 7, 31))
	f.spend(t, uid, a.ID, 999, day(2026, 8, 1))

	sum, err := f.transactions.MonthlySummary(f.ctx, uid, 2026, time.July)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Month)
	assertMoney(t, money(10_000_000), sum.TotalIncome)
	assertMoney(t, money(3_000_000), sum.TotalExpense)
	assertMoney(t, money(7_000_000), sum.Net)
	assert.EqualValues(t, 3, sum.TransactionCount)
}

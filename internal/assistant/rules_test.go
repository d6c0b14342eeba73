package assistant

import (
	"testing"
	"time"

	"finance_tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func parse(msg string) *Result {
	return RuleParser{}.Parse(msg, UserContext{
		Today:    testToday,
		Accounts: []AccountRef{{ID: 1, Name: "Tiền mặt"}, {ID: 2, Name: "Techcombank", BankName: "TECHCOMBANK"}},
		Categories: []CategoryRef{
			{ID: 1, Name: "Ăn uống", Type: "CHITIEU"},
			{ID: 2, Name: "Cà phê", Type: "CHITIEU"},
			{ID: 3, Name: "Lương", Type: "THUNHAP"},
		},
	})
}

func TestRulesCreateAccount(t *testing.T) {
	r := parse("tạo tài khoản acb")
	assert.Equal(t, IntentAddAccount, r.Intent)
	require.NotNil(t, r.Account)
	assert.Equal(t, "ACB", r.Account.BankName)
	assert.Equal(t, string(domain.AccountTypeBank), r.Account.Type)

	r = parse("Thêm ví tiền mặt 2 triệu")
	assert.Equal(t, IntentAddAccount, r.Intent)
	assert.Equal(t, string(domain.AccountTypeCash), r.Account.Type)
	assert.True(t, decimal.NewFromInt(2_000_000).Equal(r.Account.InitialBalance.Decimal))

	r = parse("mở tài khoản ngân hàng shinhan")
	assert.Equal(t, "SHINHAN", r.Account.BankName)
}

func TestRulesTransaction(t *testing.T) {
	r := parse("ăn phở 45k")
	require.Equal(t, IntentAddTransaction, r.Intent)
	tx := r.Transaction
	assert.Equal(t, string(domain.CategoryTypeExpense), tx.Type)
	assert.True(t, decimal.NewFromInt(45_000).Equal(tx.Amount.Decimal))
	assert.Equal(t, "Ăn uống", tx.Category)
	assert.Equal(t, "ăn phở", tx.Description)
	assert.Equal(t, "2026-10-19", tx.Date)
	assert.Empty(t, tx.Account)

	r = parse("hôm qua nhận lương 15tr vào techcombank")
	require.Equal(t, IntentAddTransaction, r.Intent)
	tx = r.Transaction
	assert.Equal(t, string(domain.CategoryTypeIncome), tx.Type)
	assert.Equal(t, "Lương", tx.Category)
	assert.Equal(t, "Techcombank", tx.Account)
	assert.Equal(t, "2026-10-18", tx.Date)
	assert.True(t, decimal.NewFromInt(15_000_000).Equal(tx.Amount.Decimal))

	r = parse("uống cà phê 30k ngày 12/10")
	assert.Equal(t, "Cà phê", r.Transaction.Category)
	assert.Equal(t, "2026-10-12", r.Transaction.Date)
}

func TestRulesCategoryGoalStats(t *testing.T) {
	r := parse("tạo danh mục thú cưng")
	require.Equal(t, IntentAddCategory, r.Intent)
	assert.Equal(t, "Thú cưng", r.Category.Name)
	assert.Equal(t, string(domain.CategoryTypeExpense), r.Category.Type)

	r = parse("thêm danh mục thu nhập freelance")
	assert.Equal(t, "Freelance", r.Category.Name)
	assert.Equal(t, string(domain.CategoryTypeIncome), r.Category.Type)

	r = parse("tiết kiệm mua xe máy 30 triệu trước 31/12/2026")
	require.Equal(t, IntentAddGoal, r.Intent)
	assert.Equal(t, "Mua xe máy", r.Goal.Name)
	assert.Equal(t, "2026-12-31", r.Goal.Deadline)
	assert.True(t, decimal.NewFromInt(30_000_000).Equal(r.Goal.TargetAmount.Decimal))

	r = parse("tuần này tiêu bao nhiêu rồi")
	require.Equal(t, IntentQuickStats, r.Intent)
	assert.Equal(t, "week", r.Stats.Period)

	r = parse("thống kê tháng này")
	assert.Equal(t, "month", r.Stats.Period)

	r = parse("chào bạn")
	assert.Equal(t, IntentUnknown, r.Intent)
	assert.NotEmpty(t, r.Reply)
}

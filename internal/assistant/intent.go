package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
)

// Intent is the classified purpose of a message
type Intent string

const (
	IntentAddAccount     Intent = "ADD_ACCOUNT"
	IntentAddTransaction Intent = "ADD_TRANSACTION"
	IntentAddCategory    Intent = "ADD_CATEGORY"
	IntentAddGoal        Intent = "ADD_GOAL"
	IntentQuickStats     Intent = "QUICK_STATS"
	IntentUnknown        Intent = "UNKNOWN"
)

// Amount is a money value the model may send as a number or as text like "50k"
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON accepts 50000, "50000", "50k" and "1,5 triệu"
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" || string(data) == `""` {
		a.Decimal = decimal.Zero
		return nil
	}
	if err := a.Decimal.UnmarshalJSON(data); err == nil {
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	v, ok := ParseAmount(text)
	if !ok {
		return fmt.Errorf("amount: cannot read %q", text)
	}
	a.Decimal = v
	return nil
}

// AccountDraft describes an account to create
type AccountDraft struct {
	Name           string `json:"name,omitempty"`
	Type           string `json:"type,omitempty"`
	BankName       string `json:"bankName,omitempty"`
	AccountNumber  string `json:"accountNumber,omitempty"`
	InitialBalance Amount `json:"initialBalance"`
}

// TransactionDraft describes a transaction by names, as a user would say it
type TransactionDraft struct {
	Type        string `json:"type,omitempty"`
	Amount      Amount `json:"amount"`
	Category    string `json:"category,omitempty"`
	Account     string `json:"account,omitempty"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD
	Description string `json:"description,omitempty"`
}

// CategoryDraft describes a category to create
type CategoryDraft struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// GoalDraft describes a savings goal to create
type GoalDraft struct {
	Name         string `json:"name,omitempty"`
	TargetAmount Amount `json:"targetAmount"`
	Deadline     string `json:"deadline,omitempty"` // YYYY-MM-DD
}

// StatsDraft selects the period of a quick statistics request
type StatsDraft struct {
	Period string `json:"period,omitempty"`
}

// Result is the structured form of a message
type Result struct {
	Intent      Intent            `json:"intent"`
	Account     *AccountDraft     `json:"account,omitempty"`
	Transaction *TransactionDraft `json:"transaction,omitempty"`
	Category    *CategoryDraft    `json:"category,omitempty"`
	Goal        *GoalDraft        `json:"goal,omitempty"`
	Stats       *StatsDraft       `json:"stats,omitempty"`
	Reply       string            `json:"reply,omitempty"`
}

// Normalize canonicalises known values and demotes results missing their payload to UNKNOWN
func (r *Result) Normalize() {
	r.Intent = Intent(strings.ToUpper(strings.TrimSpace(string(r.Intent))))
	switch r.Intent {
	case IntentAddAccount:
		if r.Account == nil {
			r.Account = &AccountDraft{}
		}
		r.Account.normalize()
	case IntentAddTransaction:
		t := r.Transaction
		if t == nil || !t.Amount.IsPositive() {
			r.unknown("Mình chưa đọc được số tiền của giao dịch.")
			return
		}
		t.Type = string(categoryType(t.Type))
		t.Category = strings.TrimSpace(t.Category)
		t.Account = strings.TrimSpace(t.Account)
		t.Description = strings.TrimSpace(t.Description)
		if _, err := utils.ParseDate(t.Date); err != nil {
			t.Date = ""
		}
	case IntentAddCategory:
		c := r.Category
		if c == nil || strings.TrimSpace(c.Name) == "" {
			r.unknown("Bạn muốn đặt tên danh mục là gì?")
			return
		}
		c.Name = strings.TrimSpace(c.Name)
		c.Type = string(categoryType(c.Type))
	case IntentAddGoal:
		g := r.Goal
		if g == nil || strings.TrimSpace(g.Name) == "" || !g.TargetAmount.IsPositive() {
			r.unknown("Mục tiêu cần có tên và số tiền cần đạt.")
			return
		}
		g.Name = strings.TrimSpace(g.Name)
		if _, err := utils.ParseDate(g.Deadline); err != nil {
			g.Deadline = ""
		}
	case IntentQuickStats:
		if r.Stats == nil {
			r.Stats = &StatsDraft{}
		}
		switch p := strings.ToLower(strings.TrimSpace(r.Stats.Period)); p {
		case utils.PeriodDay, utils.PeriodWeek, utils.PeriodMonth, utils.PeriodYear:
			r.Stats.Period = p
		default:
			r.Stats.Period = utils.PeriodMonth
		}
	default:
		r.Intent = IntentUnknown
	}
}

func (r *Result) unknown(reply string) {
	*r = Result{Intent: IntentUnknown, Reply: reply}
}

func (a *AccountDraft) normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)
	if bank, ok := CanonicalBank(a.BankName); ok {
		a.BankName = bank
	} else {
		a.BankName = strings.ToUpper(strings.TrimSpace(a.BankName))
	}
	switch t := Fold(strings.TrimSpace(a.Type)); t {
	case "thenganhang", "bank", "ngan hang", "the ngan hang":
		a.Type = string(domain.AccountTypeBank)
	case "tienmat", "cash", "tien mat", "vi":
		a.Type = string(domain.AccountTypeCash)
	default:
		if a.BankName != "" {
			a.Type = string(domain.AccountTypeBank)
		} else {
			a.Type = string(domain.AccountTypeCash)
		}
	}
	if a.InitialBalance.IsNegative() {
		a.InitialBalance = Amount{}
	}
}

// categoryType maps Vietnamese and English type words; anything unrecognised is an expense
func categoryType(s string) domain.CategoryType {
	switch Fold(strings.TrimSpace(s)) {
	case "thunhap", "thu nhap", "thu", "income":
		return domain.CategoryTypeIncome
	}
	return domain.CategoryTypeExpense
}

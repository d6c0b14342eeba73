// Package assistant turns free-text Vietnamese messages into ledger actions.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrEmptyMessage is returned for blank messages
var ErrEmptyMessage = errors.New("message is required")

// Reply is the outcome of one assistant message
type Reply struct {
	Intent               Intent                 `json:"intent"`
	Message              string                 `json:"message"`
	RequiresConfirmation bool                   `json:"requiresConfirmation"`
	PendingID            string                 `json:"pendingId,omitempty"`
	Account              *domain.Account        `json:"account,omitempty"`
	Category             *domain.Category       `json:"category,omitempty"`
	Goal                 *domain.Goal           `json:"goal,omitempty"`
	Transaction          *PendingTransaction    `json:"transaction,omitempty"`
	Stats                *service.PeriodSummary `json:"stats,omitempty"`
	Parsed               *Result                `json:"parsed"`
	Modified             bool                   `json:"-"` // Something was written, cached reads are stale
}

// Services are the ledger operations the assistant may perform
type Services struct {
	Accounts     *service.AccountService
	Categories   *service.CategoryService
	Transactions *service.TransactionService
	Goals        *service.GoalService
	Statistics   *service.StatisticsService
}

// Assistant parses messages and dispatches them to the ledger services
type Assistant struct {
	parser  Parser
	pending PendingStore
	svc     Services
	now     func() time.Time
}

// New creates an assistant
func New(parser Parser, pending PendingStore, svc Services) *Assistant {
	return &Assistant{parser: parser, pending: pending, svc: svc, now: time.Now}
}

// Handle parses message and executes it. Accounts, categories and goals are created right
// away; transactions are stored as a pending draft the user confirms with Confirm.
func (a *Assistant) Handle(ctx context.Context, userID uint, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	uc, err := a.userContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	r, err := a.parser.Parse(ctx, message, uc)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"intent":  r.Intent,
	}).Info("Assistant message parsed")

	reply := &Reply{Intent: r.Intent, Parsed: r}
	switch r.Intent {
	case IntentAddAccount:
		d := r.Account
		account, err := a.svc.Accounts.Create(ctx, userID, service.AccountInput{
			Name:           d.Name,
			Type:           domain.AccountType(d.Type),
			BankName:       d.BankName,
			AccountNumber:  d.AccountNumber,
			InitialBalance: d.InitialBalance.Decimal,
		})
		if err != nil {
			return nil, err
		}
		reply.Account = account
		reply.Modified = true
		reply.Message = fmt.Sprintf("Đã tạo tài khoản %s với số dư %s.", account.Name, FormatVND(account.Balance))

	case IntentAddCategory:
		d := r.Category
		category, err := a.svc.Categories.Create(ctx, userID, service.CategoryInput{
			Name: d.Name,
			Type: domain.CategoryType(d.Type),
			Icon: d.Icon,
		})
		if err != nil {
			return nil, err
		}
		reply.Category = category
		reply.Modified = true
		reply.Message = fmt.Sprintf("Đã tạo danh mục %s.", category.Name)

	case IntentAddGoal:
		d := r.Goal
		in := service.GoalInput{Name: d.Name, TargetAmount: d.TargetAmount.Decimal}
		if d.Deadline != "" {
			if deadline, err := utils.ParseDate(d.Deadline); err == nil {
				in.Deadline = &deadline
			}
		}
		goal, err := a.svc.Goals.Create(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		reply.Goal = goal
		reply.Modified = true
		reply.Message = fmt.Sprintf("Đã tạo mục tiêu %s: %s.", goal.Name, FormatVND(goal.TargetAmount))

	case IntentAddTransaction:
		p, created, err := a.resolve(ctx, userID, *r.Transaction, 0, 0)
		if err != nil {
			return nil, err
		}
		reply.Modified = created
		if err := a.pending.Save(ctx, userID, p); err != nil {
			return nil, fmt.Errorf("save pending transaction: %w", err)
		}
		verb := "chi"
		if p.Type == domain.CategoryTypeIncome {
			verb = "thu"
		}
		reply.Transaction = p
		reply.PendingID = p.ID
		reply.RequiresConfirmation = true
		reply.Message = fmt.Sprintf("Ghi khoản %s %s, danh mục %s, tài khoản %s, ngày %s?",
			verb, FormatVND(p.Amount), p.CategoryName, p.AccountName, p.Date)

	case IntentQuickStats:
		rng, err := utils.PeriodQuery{Period: r.Stats.Period}.Resolve(a.now())
		if err != nil {
			return nil, err
		}
		sum, err := a.svc.Statistics.Summary(ctx, userID, rng)
		if err != nil {
			return nil, err
		}
		reply.Stats = sum
		reply.Message = fmt.Sprintf("Từ %s đến %s: thu %s, chi %s, còn lại %s.",
			rng.From.Format(utils.DateLayout), rng.To.AddDate(0, 0, -1).Format(utils.DateLayout),
			FormatVND(sum.Current.Income), FormatVND(sum.Current.Expense), FormatVND(sum.Current.Net))

	default:
		reply.Message = r.Reply
		if reply.Message == "" {
			reply.Message = helpReply
		}
	}
	return reply, nil
}

// Confirm creates the transaction of a pending draft. A draft is consumed by a successful
// confirmation; after a failure it stays available.
func (a *Assistant) Confirm(ctx context.Context, userID uint, pendingID string) (*domain.Transaction, error) {
	p, err := a.pending.Take(ctx, userID, pendingID)
	if err != nil {
		return nil, err
	}
	in, err := p.Input()
	if err != nil {
		return nil, err
	}
	t, err := a.svc.Transactions.Create(ctx, userID, in)
	if err != nil && !invalidDraft(err) {
		// Keep the draft so the user can confirm again
		if rerr := a.pending.Restore(context.WithoutCancel(ctx), userID, p); rerr != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,
				"pending_id": p.ID,
				"error":      rerr.Error(),
			}).Warn("Failed to restore pending transaction")
		}
	}
	return t, err
}

// invalidDraft reports errors that confirming the same draft again cannot fix
func invalidDraft(err error) bool {
	return errors.Is(err, service.ErrInvalidAmount) ||
		errors.Is(err, service.ErrInvalidCategoryType) ||
		errors.Is(err, service.ErrCategoryTypeMismatch)
}

// CreateTransaction creates a transaction given by ids or by names without a draft
func (a *Assistant) CreateTransaction(ctx context.Context, userID uint, d TransactionDraft, accountID, categoryID uint) (*domain.Transaction, error) {
	if !d.Amount.IsPositive() {
		return nil, service.ErrInvalidAmount
	}
	p, _, err := a.resolve(ctx, userID, d, accountID, categoryID)
	if err != nil {
		return nil, err
	}
	in, err := p.Input()
	if err != nil {
		return nil, err
	}
	return a.svc.Transactions.Create(ctx, userID, in)
}

// resolve maps the names of a draft onto the user's account and category. created reports
// that the fallback category had to be recreated.
func (a *Assistant) resolve(ctx context.Context, userID uint, d TransactionDraft, accountID, categoryID uint) (*PendingTransaction, bool, error) {
	accounts, err := a.svc.Accounts.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(accounts) == 0 {
		return nil, false, service.ErrNoAccount
	}
	account, err := a.pickAccount(ctx, userID, accounts, d.Account, accountID)
	if err != nil {
		return nil, false, err
	}
	typ := categoryType(d.Type)
	category, created, err := a.pickCategory(ctx, userID, typ, d.Category, categoryID)
	if err != nil {
		return nil, false, err
	}

	date := utils.Day(a.now())
	if d.Date != "" {
		if date, err = utils.ParseDate(d.Date); err != nil {
			return nil, created, err
		}
	}
	return &PendingTransaction{
		Type:         typ,
		Amount:       d.Amount.Decimal,
		AccountID:    account.ID,
		AccountName:  account.Name,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Date:         date.Format(utils.DateLayout),
		Description:  strings.TrimSpace(d.Description),
	}, created, nil
}

// pickAccount prefers an explicit id, then a name match, then the oldest account
func (a *Assistant) pickAccount(ctx context.Context, userID uint, accounts []domain.Account, name string, id uint) (*domain.Account, error) {
	if id != 0 {
		return a.svc.Accounts.Get(ctx, userID, id)
	}
	if name != "" {
		account, err := a.svc.Accounts.FindByName(ctx, userID, name)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, service.ErrNotFound) {
			return nil, err
		}
	}
	return &accounts[0], nil
}

// pickCategory prefers an explicit id, then a name match, then the catch-all category of
// the type, which is recreated when the user deleted it
func (a *Assistant) pickCategory(ctx context.Context, userID uint, typ domain.CategoryType, name string, id uint) (*domain.Category, bool, error) {
	if id != 0 {
		category, err := a.svc.Categories.Get(ctx, userID, id)
		if err != nil {
			return nil, false, err
		}
		if category.Type != typ {
			return nil, false, service.ErrCategoryTypeMismatch
		}
		return category, false, nil
	}
	fallback := fallbackExpenseCategory
	if typ == domain.CategoryTypeIncome {
		fallback = fallbackIncomeCategory
	}
	for _, n := range []string{name, fallback} {
		if strings.TrimSpace(n) == "" {
			continue
		}
		category, err := a.svc.Categories.FindByName(ctx, userID, n, typ)
		if err == nil {
			return category, false, nil
		}
		if !errors.Is(err, service.ErrNotFound) {
			return nil, false, err
		}
	}
	category, err := a.svc.Categories.Create(ctx, userID, service.CategoryInput{Name: fallback, Type: typ})
	if err != nil {
		return nil, false, err
	}
	return category, true, nil
}

func (a *Assistant) userContext(ctx context.Context, userID uint) (UserContext, error) {
	uc := UserContext{Today: utils.Day(a.now())}
	accounts, err := a.svc.Accounts.List(ctx, userID)
	if err != nil {
		return uc, err
	}
	for _, acc := range accounts {
		uc.Accounts = append(uc.Accounts, AccountRef{ID: acc.ID, Name: acc.Name, BankName: acc.BankName})
	}
	categories, err := a.svc.Categories.List(ctx, userID, "", utils.DateRange{})
	if err != nil {
		return uc, err
	}
	for _, c := range categories {
		uc.Categories = append(uc.Categories, CategoryRef{ID: c.ID, Name: c.Name, Type: string(c.Type)})
	}
	return uc, nil
}

// FormatVND renders an amount with dot thousand separators, e.g. 1.500.000đ
func FormatVND(d decimal.Decimal) string {
	s := d.Round(0).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "đ"
}

// Package seed fills a user's ledger with plausible demo data.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var demoBanks = []string{"VCB", "TCB", "ACB", "MB", "BIDV", "TPBANK"}

// Seeder creates demo accounts and transactions through the ledger services
type Seeder struct {
	db           *gorm.DB
	accounts     *service.AccountService
	categories   *service.CategoryService
	transactions *service.TransactionService
	faker        *gofakeit.Faker
}

// New creates a seeder; the same seed produces the same data
func New(db *gorm.DB, accounts *service.AccountService, categories *service.CategoryService,
	transactions *service.TransactionService, seed int64) *Seeder {
	return &Seeder{
		db:           db,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		faker:        gofakeit.New(seed),
	}
}

// FindUser looks a user up by username
func (s *Seeder) FindUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	return &user, nil
}

// Run makes sure the user has a cash and a bank account, then adds count transactions
// spread over the last days days. A salary is paid on the first day of every month.
func (s *Seeder) Run(ctx context.Context, userID uint, count, days int, now time.Time) (int, error) {
	accounts, err := s.ensureAccounts(ctx, userID)
	if err != nil {
		return 0, err
	}
	expense, err := s.categories.List(ctx, userID, domain.CategoryTypeExpense, utils.DateRange{})
	if err != nil {
		return 0, err
	}
	income, err := s.categories.List(ctx, userID, domain.CategoryTypeIncome, utils.DateRange{})
	if err != nil {
		return 0, err
	}
	if len(expense) == 0 || len(income) == 0 {
		return 0, fmt.Errorf("user %d has no categories to seed", userID)
	}

	today := utils.Day(now)
	created := 0
	salary := income[0]
	for _, c := range income {
		if c.Name == "Lương" {
			salary = c
		}
	}
	// Salaries first so expenses rarely overdraw the accounts
	for d := today.AddDate(0, 0, -days); !d.After(today); d = d.AddDate(0, 0, 1) {
		if d.Day() != 1 {
			continue
		}
		_, err := s.transactions.Create(ctx, userID, service.TransactionInput{
			Type:        domain.CategoryTypeIncome,
			Amount:      s.amount(8_000, 25_000),
			CategoryID:  salary.ID,
			AccountID:   accounts[len(accounts)-1].ID,
			Date:        d,
			Description: "Lương tháng " + d.Format("01/2006"),
		})
		if err != nil {
			return created, err
		}
		created++
	}
	for i := 0; i < count; i++ {
		category := expense[s.faker.Number(0, len(expense)-1)]
		typ := domain.CategoryTypeExpense
		amount := s.amount(10, 800)
		if s.faker.Number(1, 10) == 1 {
			category = income[s.faker.Number(0, len(income)-1)]
			typ = domain.CategoryTypeIncome
			amount = s.amount(200, 3_000)
		}
		_, err := s.transactions.Create(ctx, userID, service.TransactionInput{
			Type:        typ,
			Amount:      amount,
			CategoryID:  category.ID,
			AccountID:   accounts[s.faker.Number(0, len(accounts)-1)].ID,
			Date:        today.AddDate(0, 0, -s.faker.Number(0, days)),
			Description: s.faker.Sentence(4),
		})
		if err != nil {
			return created, err
		}
		created++
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "transactions": created}).Info("Demo data seeded")
	return created, nil
}

func (s *Seeder) ensureAccounts(ctx context.Context, userID uint) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil || len(accounts) > 0 {
		return accounts, err
	}
	inputs := []service.AccountInput{
		{Type: domain.AccountTypeCash, InitialBalance: s.amount(500, 3_000)},
		{
			Type:           domain.AccountTypeBank,
			BankName:       demoBanks[s.faker.Number(0, len(demoBanks)-1)],
			AccountNumber:  s.faker.Numerify("##########"),
			InitialBalance: s.amount(5_000, 50_000),
		},
	}
	for _, in := range inputs {
		a, err := s.accounts.Create(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, nil
}

// amount returns a random multiple of 1.000đ between lo and hi thousands
func (s *Seeder) amount(lo, hi int) decimal.Decimal {
	return decimal.NewFromInt(int64(s.faker.Number(lo, hi)) * 1000)
}

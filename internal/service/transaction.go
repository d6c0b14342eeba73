package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionInput holds the editable transaction fields
type TransactionInput struct {
	Type        domain.CategoryType
	Amount      decimal.Decimal
	CategoryID  uint
	AccountID   uint
	Date        time.Time
	Description string
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	Type       domain.CategoryType
	AccountID  uint
	CategoryID uint
	Range      utils.DateRange
	Query      string
	Page       utils.Page
}

// MonthlySummary aggregates one calendar month
type MonthlySummary struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int64           `json:"transactionCount"`
}

// TransactionService records income and expenses and keeps account balances in step
type TransactionService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewTransactionService creates a transaction service publishing to p
func NewTransactionService(db *gorm.DB, p events.Publisher) *TransactionService {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &TransactionService{db: db, publisher: p}
}

// List returns one page of matching transactions, newest first, and the total match count
func (s *TransactionService) List(ctx context.Context, userID uint, f TransactionFilter) ([]domain.Transaction, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.Transaction{}).Where("user_id = ?", userID)
	return listTransactions(q, f)
}

// listTransactions applies f to q and returns one page plus the total match count
func listTransactions(q *gorm.DB, f TransactionFilter) ([]domain.Transaction, int64, error) {
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.AccountID != 0 {
		q = q.Where("account_id = ?", f.AccountID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	q = withinRange(q, "date", f.Range).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	if f.Page.PageSize == 0 {
		f.Page = utils.ParsePage("", "")
	}
	txs := []domain.Transaction{}
	err := q.Preload("Account").Preload("Category").
		Order("date desc").Order("id desc").
		Offset(f.Page.Offset()).Limit(f.Page.PageSize).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// Get returns one transaction with its account and category
func (s *TransactionService) Get(ctx context.Context, userID, id uint) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.db.WithContext(ctx).Preload("Account").Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// Create records a transaction and applies it to the account balance atomically
func (s *TransactionService) Create(ctx context.Context, userID uint, in TransactionInput) (*domain.Transaction, error) {
	var t domain.Transaction
	var before decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.validate(tx, userID, &in)
		if err != nil {
			return err
		}
		before = account.Balance
		t = domain.Transaction{
			UserID:      userID,
			AccountID:   in.AccountID,
			CategoryID:  in.CategoryID,
			Type:        in.Type,
			Amount:      in.Amount,
			Date:        in.Date,
			Description: in.Description,
		}
		if err := tx.Omit(clause.Associations).Create(&t).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return adjustBalance(tx, t.AccountID, t.SignedAmount())
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": t.ID,
		"account_id":     t.AccountID,
		"amount":         t.Amount.String(),
		"type":           t.Type,
	}).Info("Transaction created")
	s.publish(ctx, events.TransactionCreated, t, before)
	return s.Get(ctx, userID, t.ID)
}

// Update replaces a transaction, reversing its old balance effect before applying the new one
func (s *TransactionService) Update(ctx context.Context, userID, id uint, in TransactionInput) (*domain.Transaction, error) {
	var t domain.Transaction
	var before decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return notFound(err)
		}
		if err := adjustBalance(tx, t.AccountID, t.SignedAmount().Neg()); err != nil {
			return err
		}
		account, err := s.validate(tx, userID, &in)
		if err != nil {
			return err
		}
		before = account.Balance
		t.AccountID = in.AccountID
		t.CategoryID = in.CategoryID
		t.Type = in.Type
		t.Amount = in.Amount
		t.Date = in.Date
		t.Description = in.Description
		if err := tx.Omit(clause.Associations).Save(&t).Error; err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return adjustBalance(tx, t.AccountID, t.SignedAmount())
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": t.ID,
		"amount":         t.Amount.String(),
	}).Info("Transaction updated")
	s.publish(ctx, events.TransactionUpdated, t, before)
	return s.Get(ctx, userID, t.ID)
}

// Delete removes a transaction and reverses its balance effect
func (s *TransactionService) Delete(ctx context.Context, userID, id uint) error {
	var t domain.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return notFound(err)
		}
		if err := adjustBalance(tx, t.AccountID, t.SignedAmount().Neg()); err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction deleted")
	s.publish(ctx, events.TransactionDeleted, t, decimal.Zero)
	return nil
}

// MonthlySummary totals income and expense of one calendar month
func (s *TransactionService) MonthlySummary(ctx context.Context, userID uint, year int, month time.Month) (*MonthlySummary, error) {
	from := utils.MonthStart(year, month)
	totals, err := sumByType(s.db.WithContext(ctx), userID, utils.DateRange{From: from, To: from.AddDate(0, 1, 0)})
	if err != nil {
		return nil, err
	}
	return &MonthlySummary{
		Year:             year,
		Month:            int(month),
		TotalIncome:      totals.Income,
		TotalExpense:     totals.Expense,
		Net:              totals.Net,
		TransactionCount: totals.Count,
	}, nil
}

// validate checks ownership and consistency of the input and returns the target account
func (s *TransactionService) validate(tx *gorm.DB, userID uint, in *TransactionInput) (*domain.Account, error) {
	in.Type = domain.CategoryType(strings.ToUpper(string(in.Type)))
	in.Description = strings.TrimSpace(in.Description)
	if !in.Type.Valid() {
		return nil, ErrInvalidCategoryType
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		in.Date = utils.Day(time.Now())
	} else {
		in.Date = utils.Day(in.Date)
	}
	category, err := getCategory(tx, userID, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", in.CategoryID, err)
	}
	if category.Type != in.Type {
		return nil, ErrCategoryTypeMismatch
	}
	account, err := getAccount(tx, userID, in.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", in.AccountID, err)
	}
	return account, nil
}

func (s *TransactionService) publish(ctx context.Context, eventType string, t domain.Transaction, before decimal.Decimal) {
	e := events.New(eventType, t.UserID, t.ID)
	e.AccountID = t.AccountID
	e.Amount = t.Amount
	e.Balance = before
	e.Kind = string(t.Type)
	if err := s.publisher.Publish(ctx, e); err != nil {
		logrus.WithFields(logrus.Fields{
			"type":  eventType,
			"error": err.Error(),
		}).Warn("Failed to publish event")
	}
}

// adjustBalance moves an account balance by delta inside tx
func adjustBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	res := tx.Model(&domain.Account{}).Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjust balance of account %d: %w", accountID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %d: %w", accountID, ErrNotFound)
	}
	return nil
}

// Totals holds income and expense sums over a range
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Count   int64           `json:"count"`
}

func sumByType(q *gorm.DB, userID uint, r utils.DateRange) (Totals, error) {
	var rows []struct {
		Type    domain.CategoryType
		Total   decimal.Decimal
		TxCount int64
	}
	agg := q.Model(&domain.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS tx_count").
		Where("user_id = ?", userID)
	if err := withinRange(agg, "date", r).Group("type").Scan(&rows).Error; err != nil {
		return Totals{}, fmt.Errorf("sum transactions: %w", err)
	}
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case domain.CategoryTypeIncome:
			totals.Income = totals.Income.Add(row.Total)
		case domain.CategoryTypeExpense:
			totals.Expense = totals.Expense.Add(row.Total)
		}
		totals.Count += row.TxCount
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals, nil
}

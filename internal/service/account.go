package service

import (
	"context"
	"fmt"
	"strings"

	"finance_tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultCashAccountName = "Tiền mặt"

// AccountInput holds the editable account fields
type AccountInput struct {
	Name           string
	Type           domain.AccountType
	BankName       string
	AccountNumber  string
	InitialBalance decimal.Decimal
}

// normalize validates the input and fills defaults
func (in *AccountInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.BankName = strings.ToUpper(strings.TrimSpace(in.BankName))
	in.AccountNumber = strings.TrimSpace(in.AccountNumber)
	in.Type = domain.AccountType(strings.ToUpper(string(in.Type)))
	if in.Type == "" {
		if in.BankName != "" {
			in.Type = domain.AccountTypeBank
		} else {
			in.Type = domain.AccountTypeCash
		}
	}
	if !in.Type.Valid() {
		return ErrInvalidAccountType
	}
	if in.Type == domain.AccountTypeBank && in.BankName == "" {
		return ErrBankNameRequired
	}
	if in.Name == "" {
		if in.Type == domain.AccountTypeBank {
			in.Name = in.BankName
		} else {
			in.Name = defaultCashAccountName
		}
	}
	return nil
}

// AccountService manages the user's money sources
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an account service
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// List returns every account of the user, oldest first
func (s *AccountService) List(ctx context.Context, userID uint) ([]domain.Account, error) {
	accounts := []domain.Account{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Get returns one account owned by the user
func (s *AccountService) Get(ctx context.Context, userID, id uint) (*domain.Account, error) {
	return getAccount(s.db.WithContext(ctx), userID, id)
}

// FindByName matches an account by name or bank name, case-insensitively
func (s *AccountService) FindByName(ctx context.Context, userID uint, name string) (*domain.Account, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrNotFound
	}
	accounts, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if strings.ToLower(accounts[i].Name) == name || strings.ToLower(accounts[i].BankName) == name {
			return &accounts[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create opens an account whose balance starts at the initial balance
func (s *AccountService) Create(ctx context.Context, userID uint, in AccountInput) (*domain.Account, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	account := domain.Account{
		UserID:         userID,
		Name:           in.Name,
		Type:           in.Type,
		BankName:       in.BankName,
		AccountNumber:  in.AccountNumber,
		InitialBalance: in.InitialBalance,
		Balance:        in.InitialBalance,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"account_id": account.ID,
		"type":       account.Type,
		"bank":       account.BankName,
	}).Info("Account created")
	return &account, nil
}

// Update edits the account; a new initial balance shifts the balance by the difference
func (s *AccountService) Update(ctx context.Context, userID, id uint, in AccountInput) (*domain.Account, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := getAccount(tx, userID, id)
		if err != nil {
			return err
		}
		delta := in.InitialBalance.Sub(account.InitialBalance)
		return tx.Model(account).Updates(map[string]any{
			"name":            in.Name,
			"type":            in.Type,
			"bank_name":       in.BankName,
			"account_number":  in.AccountNumber,
			"initial_balance": in.InitialBalance,
			"balance":         gorm.Expr("balance + ?", delta),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete removes an account that no transaction or goal contribution references
func (s *AccountService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := getAccount(tx, userID, id)
		if err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&domain.Transaction{}).Where("account_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := tx.Model(&domain.GoalContribution{}).Where("account_id = ?", id).Count(&refs).Error; err != nil {
				return err
			}
		}
		if refs > 0 {
			return fmt.Errorf("account %d: %w", id, ErrInUse)
		}
		return tx.Delete(account).Error
	})
}

// TotalBalance sums the balances of all accounts of the user
func (s *AccountService) TotalBalance(ctx context.Context, userID uint) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&domain.Account{}).
		Select("COALESCE(SUM(balance), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum balances: %w", err)
	}
	return row.Total, row.Count, nil
}

func getAccount(tx *gorm.DB, userID, id uint) (*domain.Account, error) {
	var account domain.Account
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

// Package service holds the ledger business rules on top of GORM.
package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidUsername      = errors.New("username must be 3-30 letters, digits, '_' or '.'")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrWeakPassword         = errors.New("password must be at least 6 characters")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidAccountType   = errors.New("account type must be TIENMAT or THENGANHANG")
	ErrBankNameRequired     = errors.New("bank name is required for bank accounts")
	ErrInvalidCategoryType  = errors.New("category type must be CHITIEU or THUNHAP")
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInUse                = errors.New("resource is still referenced")
	ErrGoalArchived         = errors.New("goal is archived")
	ErrNoAccount            = errors.New("no account found")
)

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes cash from bank-linked money sources
type AccountType string

const (
	AccountTypeCash AccountType = "TIENMAT"     // Cash
	AccountTypeBank AccountType = "THENGANHANG" // Bank card / bank account
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	return t == AccountTypeCash || t == AccountTypeBank
}

// Account Model
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`                                        // Primary key
	UserID         uint            `gorm:"index;not null" json:"userId"`                                // Owner
	Name           string          `gorm:"size:128;not null" json:"name"`                               // Display name
	Type           AccountType     `gorm:"size:16;not null" json:"type"`                                // TIENMAT or THENGANHANG
	BankName       string          `gorm:"size:64" json:"bankName"`                                     // Upper-cased bank code, bank accounts only
	AccountNumber  string          `gorm:"size:64" json:"accountNumber"`                                // Optional account number
	InitialBalance decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"initialBalance"` // Opening balance
	Balance        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`        // Current balance
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

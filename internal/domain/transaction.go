package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Model
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                            // Primary key
	UserID      uint            `gorm:"index;not null" json:"userId"`                    // Owner
	AccountID   uint            `gorm:"index;not null" json:"accountId"`                 // Account the money moved through
	CategoryID  uint            `gorm:"index;not null" json:"categoryId"`                // Category reference
	Type        CategoryType    `gorm:"size:16;not null" json:"type"`                    // CHITIEU or THUNHAP
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`       // Always positive
	Date        time.Time       `gorm:"index;not null" json:"date"`                      // Calendar day (UTC midnight)
	Description string          `gorm:"size:512" json:"description"`                     // Free text
	Account     *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`   // Loaded on reads
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // Loaded on reads
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SignedAmount is the effect of the transaction on its account balance
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == CategoryTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

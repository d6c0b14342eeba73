package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType separates expense and income categories
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "CHITIEU" // Expense
	CategoryTypeIncome  CategoryType = "THUNHAP" // Income
)

// Valid reports whether t is a known category type
func (t CategoryType) Valid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// Category Model
type Category struct {
	ID     uint         `gorm:"primaryKey" json:"id"`
	UserID uint         `gorm:"index;not null" json:"userId"`
	Name   string       `gorm:"size:128;not null" json:"name"`
	Type   CategoryType `gorm:"size:16;not null" json:"type"`
	Icon   string       `gorm:"size:64" json:"icon"`

	// Derived over the requested period, never stored
	TotalAmount      decimal.Decimal `gorm:"-" json:"totalAmount"`
	TransactionCount int64           `gorm:"-" json:"transactionCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultCategory describes a category seeded for new users
type DefaultCategory struct {
	Name string
	Type CategoryType
	Icon string
}

// DefaultCategories are created for every newly registered user
var DefaultCategories = []DefaultCategory{
	{Name: "Ăn uống", Type: CategoryTypeExpense, Icon: "utensils"},
	{Name: "Di chuyển", Type: CategoryTypeExpense, Icon: "car"},
	{Name: "Mua sắm", Type: CategoryTypeExpense, Icon: "shopping-bag"},
	{Name: "Hóa đơn", Type: CategoryTypeExpense, Icon: "file-invoice"},
	{Name: "Giải trí", Type: CategoryTypeExpense, Icon: "film"},
	{Name: "Sức khỏe", Type: CategoryTypeExpense, Icon: "heart-pulse"},
	{Name: "Khác", Type: CategoryTypeExpense, Icon: "ellipsis"},
	{Name: "Lương", Type: CategoryTypeIncome, Icon: "wallet"},
	{Name: "Thưởng", Type: CategoryTypeIncome, Icon: "gift"},
	{Name: "Đầu tư", Type: CategoryTypeIncome, Icon: "chart-line"},
	{Name: "Thu nhập khác", Type: CategoryTypeIncome, Icon: "coins"},
}

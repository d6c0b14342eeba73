package service

import (
	"context"
	"fmt"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserSummary is the admin view of a user
type UserSummary struct {
	domain.Profile
	AccountCount int64           `json:"accountCount"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
}

// AdminService serves the admin-only user listing
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates an admin service
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// IsAdmin reports whether the user has the admin role
func (s *AdminService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error; err != nil {
		return false, notFound(err)
	}
	return user.Role == "admin", nil
}

// ListUsers returns one page of users with their account totals
func (s *AdminService) ListUsers(ctx context.Context, page utils.Page) ([]UserSummary, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	err := s.db.WithContext(ctx).Preload("Accounts").
		Order("id").Offset(page.Offset()).Limit(page.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserSummary, len(users))
	for i, u := range users {
		balance := decimal.Zero
		for _, a := range u.Accounts {
			balance = balance.Add(a.Balance)
		}
		out[i] = UserSummary{
			Profile:      u.Profile(),
			AccountCount: int64(len(u.Accounts)),
			TotalBalance: balance,
		}
	}
	return out, total, nil
}

// ListTransactions pages through transactions of all users, or of one user when userID is set
func (s *AdminService) ListTransactions(ctx context.Context, userID uint, f TransactionFilter) ([]domain.Transaction, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.Transaction{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	return listTransactions(q, f)
}

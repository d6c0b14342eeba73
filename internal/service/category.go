package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryInput holds the editable category fields
type CategoryInput struct {
	Name string
	Type domain.CategoryType
	Icon string
}

func (in *CategoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	in.Type = domain.CategoryType(strings.ToUpper(string(in.Type)))
	if in.Name == "" {
		return ErrNameRequired
	}
	if !in.Type.Valid() {
		return ErrInvalidCategoryType
	}
	return nil
}

// CategoryService manages income and expense categories
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// categoryTotal is one row of the per-category aggregate
type categoryTotal struct {
	CategoryID uint
	Total      decimal.Decimal
	TxCount    int64
}

// List returns categories with totalAmount and transactionCount computed over r.
// An empty typ returns both kinds.
func (s *CategoryService) List(ctx context.Context, userID uint, typ domain.CategoryType, r utils.DateRange) ([]domain.Category, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	categories := []domain.Category{}
	if err := q.Order("type").Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var totals []categoryTotal
	agg := s.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS tx_count").
		Where("user_id = ?", userID)
	if err := withinRange(agg, "date", r).Group("category_id").Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	byID := make(map[uint]categoryTotal, len(totals))
	for _, t := range totals {
		byID[t.CategoryID] = t
	}
	for i := range categories {
		t := byID[categories[i].ID]
		categories[i].TotalAmount = t.Total
		categories[i].TransactionCount = t.TxCount
	}
	return categories, nil
}

// Get returns one category owned by the user
func (s *CategoryService) Get(ctx context.Context, userID, id uint) (*domain.Category, error) {
	return getCategory(s.db.WithContext(ctx), userID, id)
}

// FindByName looks a category up by name within a type, case-insensitively
func (s *CategoryService) FindByName(ctx context.Context, userID uint, name string, typ domain.CategoryType) (*domain.Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var categories []domain.Category
	if err := s.db.WithContext(ctx).Where("user_id = ? AND type = ?", userID, typ).Find(&categories).Error; err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.ToLower(categories[i].Name) == name {
			return &categories[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create adds a category; names are unique per user and type
func (s *CategoryService) Create(ctx context.Context, userID uint, in CategoryInput) (*domain.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, userID, in, 0); err != nil {
		return nil, err
	}
	category := domain.Category{UserID: userID, Name: in.Name, Type: in.Type, Icon: in.Icon}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"category_id": category.ID,
		"type":        category.Type,
	}).Info("Category created")
	return &category, nil
}

// Update edits a category. Changing the type of a category in use is refused.
func (s *CategoryService) Update(ctx context.Context, userID, id uint, in CategoryInput) (*domain.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, userID, in, id); err != nil {
		return nil, err
	}
	if in.Type != category.Type {
		n, err := s.usage(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("change type of category %d: %w", id, ErrInUse)
		}
	}
	err = s.db.WithContext(ctx).Model(category).Updates(map[string]any{
		"name": in.Name,
		"type": in.Type,
		"icon": in.Icon,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// Delete removes a category no transaction references
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	category, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	n, err := s.usage(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("category %d: %w", id, ErrInUse)
	}
	return s.db.WithContext(ctx).Delete(category).Error
}

func (s *CategoryService) usage(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Transaction{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, userID uint, in CategoryInput, exceptID uint) error {
	existing, err := s.FindByName(ctx, userID, in.Name, in.Type)
	if errors.Is(err, ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	if existing.ID != exceptID {
		return ErrDuplicateCategory
	}
	return nil
}

// seedDefaults creates the default categories inside the registration transaction
func (s *CategoryService) seedDefaults(tx *gorm.DB, userID uint) error {
	categories := make([]domain.Category, 0, len(domain.DefaultCategories))
	for _, d := range domain.DefaultCategories {
		categories = append(categories, domain.Category{UserID: userID, Name: d.Name, Type: d.Type, Icon: d.Icon})
	}
	if err := tx.Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}

func getCategory(tx *gorm.DB, userID, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// withinRange restricts column to the half-open range; unbounded ranges pass through
func withinRange(q *gorm.DB, column string, r utils.DateRange) *gorm.DB {
	if !r.From.IsZero() {
		q = q.Where(column+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where(column+" < ?", r.To)
	}
	return q
}

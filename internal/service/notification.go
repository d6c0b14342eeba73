package service

import (
	"context"
	"fmt"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"gorm.io/gorm"
)

const (
	notificationTitleLength   = 120
	notificationMessageLength = 500
)

// NotificationService stores in-app notifications produced by the worker
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the newest notifications of the user, at most 100
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	out := []domain.Notification{}
	if err := q.Order("id DESC").Limit(100).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead flags one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Notify stores a notification unless one of the same kind already exists for refID
func (s *NotificationService) Notify(ctx context.Context, n domain.Notification) (bool, error) {
	if n.RefID != 0 {
		var existing int64
		err := s.db.WithContext(ctx).Model(&domain.Notification{}).
			Where("user_id = ? AND kind = ? AND ref_id = ?", n.UserID, n.Kind, n.RefID).
			Count(&existing).Error
		if err != nil {
			return false, err
		}
		if existing > 0 {
			return false, nil
		}
	}
	n.Title = utils.TruncateText(n.Title, notificationTitleLength)
	n.Message = utils.TruncateText(n.Message, notificationMessageLength)
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}
	return true, nil
}

package domain

import "time"

// Notification kinds
const (
	NotificationGoalAchieved = "GOAL_ACHIEVED"
	NotificationGoalDeadline = "GOAL_DEADLINE"
	NotificationLargeExpense = "LARGE_EXPENSE"
)

// Notification Model
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	RefID     uint      `gorm:"index" json:"refId"` // Goal or transaction the notification is about
	Title     string    `gorm:"size:128;not null" json:"title"`
	Message   string    `gorm:"size:512" json:"message"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

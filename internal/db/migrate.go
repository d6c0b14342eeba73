package db

import (
	"finance_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every table the application owns, in dependency order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Account{},
		&domain.Category{},
		&domain.Transaction{},
		&domain.Goal{},
		&domain.GoalContribution{},
		&domain.Notification{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(Models()...)
}

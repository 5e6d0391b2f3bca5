package db

import (
	"fmt"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.UserProfile{},
		&types.LearningProfile{},
		&types.ConversationState{},
		&types.ChatMessage{},
		&types.Introduction{},
	); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates indexes gorm tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		// at most one live introduction per unordered pair
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_introduction_pair_active ON introduction (pair_key) WHERE status <> 'declined'`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sparkmeet/spark-backend/internal/config"
)

// Migrate brings the schema in sync with the models. Shared by the
// server entrypoint and the sqlite-backed tests.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&User{},
		&Preference{},
		&UserInterest{},
		&Swipe{},
		&Match{},
		&QueueEntry{},
		&DailyAnalytics{},
	)
}

// NewDB initializes the database connection using DSN from config.
//
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey regardless of dialect; the swipe and match
// repositories depend on that to fold race losers into benign outcomes.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(database); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}

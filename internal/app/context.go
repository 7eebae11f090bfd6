package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/sparkmeet/spark-backend/internal/cache"
	"github.com/sparkmeet/spark-backend/internal/config"
	"github.com/sparkmeet/spark-backend/internal/events"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Events     *events.Publisher
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, pub *events.Publisher, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Events:     pub,
		Logger:     logger,
	}
}

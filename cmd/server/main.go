package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/sparkmeet/spark-backend/internal/app"
	"github.com/sparkmeet/spark-backend/internal/cache"
	"github.com/sparkmeet/spark-backend/internal/config"
	"github.com/sparkmeet/spark-backend/internal/db"
	"github.com/sparkmeet/spark-backend/internal/events"
	"github.com/sparkmeet/spark-backend/internal/logger"
	"github.com/sparkmeet/spark-backend/internal/server"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	publisher := events.NewPublisher(redisCache.Client, log)
	appCtx := app.New(cfg, database, redisCache, publisher, log)

	if cfg.App.Env == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	if err := server.Start(appCtx); err != nil {
		log.Error("failed to start http server", "err", err)
	}
}

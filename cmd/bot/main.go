package main

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"medrep-bot/internal/config"
	"medrep-bot/internal/engine"
	"medrep-bot/internal/report"
	"medrep-bot/internal/session"
	"medrep-bot/internal/telegram"

	_ "github.com/lib/pq"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Pick the report backend: Postgres when a DATABASE_URL is configured,
	// flat files under the reports directory otherwise.
	var store report.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		if err := report.Migrate(context.Background(), db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		store = report.NewPGStore(db, cfg.CreateMode, logger)
	} else {
		fs, err := report.NewFileStore(cfg.ReportsDir, cfg.CreateMode, logger)
		if err != nil {
			logger.Fatal("failed to open reports directory", zap.Error(err))
		}
		store = fs
	}

	eng := engine.New(store, cfg.IdentityMode, logger)
	bot, err := telegram.New(cfg.BotToken, eng, session.NewStore(), logger)
	if err != nil {
		logger.Fatal("failed to construct bot", zap.Error(err))
	}

	logger.Info("bot running",
		zap.String("identity_mode", string(cfg.IdentityMode)),
		zap.String("create_mode", string(cfg.CreateMode)))
	bot.Start()
}

// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"medrep-bot/internal/engine"
	"medrep-bot/internal/report"
)

// Config is everything the process reads at startup.  There are no flags.
type Config struct {
	// BotToken is the Telegram bot credential.  The process refuses to start
	// without it.
	BotToken string
	// ReportsDir is where the file store keeps report workbooks.
	ReportsDir string
	// DatabaseURL, when set, switches report persistence to Postgres.
	DatabaseURL string
	// IdentityMode selects single-prompt or two-step name capture.
	IdentityMode engine.IdentityMode
	// CreateMode selects idempotent or overwriting report creation.
	CreateMode report.CreateMode
}

// Load reads the configuration.  A missing .env file is not an error; a
// missing BOT_TOKEN is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		ReportsDir:  getenv("REPORTS_DIR", "reports"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN must be set")
	}

	var err error
	if cfg.IdentityMode, err = engine.ParseIdentityMode(os.Getenv("IDENTITY_MODE")); err != nil {
		return nil, err
	}
	if cfg.CreateMode, err = report.ParseCreateMode(os.Getenv("CREATE_MODE")); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

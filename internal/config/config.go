package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// PlaceholderSheetURL is the value shipped in templates; it means "not configured yet".
const PlaceholderSheetURL = "URL_DE_TU_SCRIPT_DE_GOOGLE_APPS"

const (
	TransportGET  = "get"
	TransportPOST = "post"
)

type Config struct {
	// Spreadsheet endpoint (console)
	SheetURL       string        `env:"SHEET_URL" envDefault:"URL_DE_TU_SCRIPT_DE_GOOGLE_APPS"`
	SheetTransport string        `env:"SHEET_TRANSPORT" envDefault:"get"`
	SheetTimeout   time.Duration `env:"SHEET_TIMEOUT" envDefault:"30s"`

	// Stand-in endpoint (sheetd)
	Port     string `env:"PORT" envDefault:"8080"`
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"LOG_FILE"`

	LogLevel slog.Level `env:"-"`
}

// Load reads configuration from the environment, after seeding it from a
// .env file in the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.SheetURL = strings.TrimSpace(cfg.SheetURL)
	cfg.SheetTransport = strings.ToLower(strings.TrimSpace(cfg.SheetTransport))
	switch cfg.SheetTransport {
	case TransportGET, TransportPOST:
	default:
		return nil, fmt.Errorf("invalid SHEET_TRANSPORT %q: must be %q or %q", cfg.SheetTransport, TransportGET, TransportPOST)
	}
	if cfg.SheetTimeout <= 0 {
		return nil, fmt.Errorf("invalid SHEET_TIMEOUT %s: must be positive", cfg.SheetTimeout)
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return cfg, nil
}

// SheetConfigured reports whether the endpoint URL has been set to something real
func (c *Config) SheetConfigured() bool {
	return c.SheetURL != "" && c.SheetURL != PlaceholderSheetURL
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

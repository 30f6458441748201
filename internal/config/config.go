package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Backend
	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:3000"`
	DoctorsBaseURL string `env:"DOCTORS_BASE_URL" envDefault:"http://localhost:4000/api"`

	// Key-value store for chat sessions and cached blobs: postgres, redis or memory
	KVBackend string `env:"KV_BACKEND" envDefault:"postgres"`
	RedisURL  string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// New user defaults
	DefaultAPIKey string `env:"DEFAULT_API_KEY"`
	DefaultTier   string `env:"DEFAULT_TIER" envDefault:"free"`
	DefaultModel  string `env:"DEFAULT_MODEL" envDefault:"gemini-flash-latest"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Detect markers split across stream chunks
	StreamMarkerCarry bool `env:"STREAM_MARKER_CARRY" envDefault:"true"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Logging
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
	LogTelegramChatID      int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError          int    `env:"LOG_TOPIC_ERROR"`
	LogTopicRegistration   int    `env:"LOG_TOPIC_REGISTRATION"`
	LogTopicTierChange     int    `env:"LOG_TOPIC_TIER_CHANGE"`
	LogTopicSessionExpired int    `env:"LOG_TOPIC_SESSION_EXPIRED"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.KVBackend {
	case KVPostgres, KVRedis, KVMemory:
	default:
		return nil, fmt.Errorf("parse config: unknown KV_BACKEND %q", cfg.KVBackend)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) AdminIDsString() string {
	parts := make([]string, len(c.AdminIDs))
	for i, id := range c.AdminIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

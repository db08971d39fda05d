package config

import (
	"fmt"
	"log/slog"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment with an
// optional .env file for development.
type Config struct {
	Host     string `env:"CHATHUB_HOST,default=0.0.0.0"`
	Port     int    `env:"CHATHUB_PORT,default=9876" validate:"min=1,max=65535"`
	DBPath   string `env:"CHATHUB_DB_PATH,default=chathub.db" validate:"required"`
	LogLevel string `env:"CHATHUB_LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`

	RateLimitPerSecond int           `env:"CHATHUB_RATE_LIMIT_RPS,default=30" validate:"min=1"`
	RateLimitBurst     int           `env:"CHATHUB_RATE_LIMIT_BURST,default=50" validate:"min=1"`
	RateLimitCleanup   time.Duration `env:"CHATHUB_RATE_LIMIT_CLEANUP,default=5m"`
}

// Load reads the configuration. A missing .env file is fine; invalid
// values are not.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address in host:port form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel maps the configured level string onto slog's levels.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvProduction is the SPORTSCHED_ENV value that enables production behaviour.
const EnvProduction = "production"

// Config holds every setting the server reads at boot.
type Config struct {
	Addr          string        `env:"SPORTSCHED_ADDR" envDefault:":3000"`
	DBPath        string        `env:"SPORTSCHED_DB_PATH" envDefault:"sportsched.db"`
	Env           string        `env:"SPORTSCHED_ENV" envDefault:"development"`
	LogLevel      string        `env:"SPORTSCHED_LOG_LEVEL" envDefault:"info"`
	CSRFKey       string        `env:"SPORTSCHED_CSRF_KEY"`
	SessionTTL    time.Duration `env:"SPORTSCHED_SESSION_TTL" envDefault:"24h"`
	SlowRequestMS int           `env:"SPORTSCHED_SLOW_REQUEST_MS" envDefault:"200"`
	SlowQueryMS   int           `env:"SPORTSCHED_SLOW_QUERY_MS" envDefault:"50"`

	// Optional admin account created at boot when both email and password are set.
	AdminName     string `env:"SPORTSCHED_ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"SPORTSCHED_ADMIN_EMAIL"`
	AdminPassword string `env:"SPORTSCHED_ADMIN_PASSWORD"`
}

// Load reads .env (when present) and parses the environment.
// PRE: none
// POST: Returns a validated Config; variables already set in the process win over .env
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.IsProduction() && c.CSRFKey == "" {
		return errors.New("SPORTSCHED_CSRF_KEY is required in production")
	}
	if c.CSRFKey != "" {
		if _, err := decodeKey(c.CSRFKey); err != nil {
			return err
		}
	}
	if c.SessionTTL <= 0 {
		return errors.New("SPORTSCHED_SESSION_TTL must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// CSRFKeyBytes returns the 32-byte anti-forgery key.
// Outside production an unset key is replaced by a random one, so tokens do not survive a restart.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey != "" {
		return decodeKey(c.CSRFKey)
	}
	if c.IsProduction() {
		return nil, errors.New("SPORTSCHED_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// SlowRequest is the request duration above which a request is logged at WARN.
func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

// SlowQuery is the query duration above which a query is logged at WARN.
func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

func decodeKey(raw string) ([]byte, error) {
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, errors.New("SPORTSCHED_CSRF_KEY must be 64 hex characters")
	}
	return key, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("SPORTSCHED_LOG_LEVEL: %w", err)
	}
	return level, nil
}

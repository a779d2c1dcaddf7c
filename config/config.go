// Package config loads runtime settings at startup.
// Precedence: defaults, then an optional YAML file, then .env, then the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the web app.
type Config struct {
	AppEnv         string        `yaml:"app_env"`
	HTTPAddr       string        `yaml:"http_addr"`
	DatabaseURL    string        `yaml:"database_url"`
	RedisURL       string        `yaml:"redis_url"`
	SecretKey      string        `yaml:"secret_key"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	LogLevel       string        `yaml:"log_level"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key"`
	MailFrom       string        `yaml:"mail_from"`
}

func defaults() *Config {
	return &Config{
		AppEnv:     "development",
		HTTPAddr:   ":8080",
		SessionTTL: 24 * time.Hour,
		LogLevel:   "info",
		MailFrom:   "donotreply@internmatch.dev",
	}
}

// Load reads configuration and returns a validated Config.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if os.Getenv("APP_ENV") != "production" {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.AppEnv, "APP_ENV")
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.SecretKey, "SECRET_KEY")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.MailFrom, "MAIL_FROM")

	if s := os.Getenv("SESSION_TTL"); s != "" {
		ttl, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("SESSION_TTL must be a duration such as 24h, got %q", s)
		}
		c.SessionTTL = ttl
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL))
	}
	return errors.Join(errs...)
}

// Production reports whether the app runs with APP_ENV=production.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// SlogLevel maps LogLevel onto slog; unknown values fall back to info.
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

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

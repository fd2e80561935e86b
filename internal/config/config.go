package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// MailConfig keeps SMTP transport settings. An empty Server disables
// real delivery.
type MailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	UseTLS   bool
	Sender   string
}

// Config keeps runtime settings for the service.
type Config struct {
	DatabaseURL  string
	HTTPAddr     string
	Mail         MailConfig
	PollInterval time.Duration
	Lookback     time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:    strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		Mail: MailConfig{
			Server:   strings.TrimSpace(os.Getenv("MAIL_SERVER")),
			Port:     parseInt(os.Getenv("MAIL_PORT"), 587),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			UseTLS:   parseBool(os.Getenv("MAIL_USE_TLS")),
			Sender:   strings.TrimSpace(os.Getenv("MAIL_DEFAULT_SENDER")),
		},
		PollInterval: parseDuration(os.Getenv("REMINDER_POLL_INTERVAL"), 20*time.Second),
		Lookback:     parseDuration(os.Getenv("REMINDER_LOOKBACK"), 24*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "notekeeper.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

func parseInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return v
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/reportview/internal/loader"
)

type Config struct {
	Port string

	// Report source
	ReportPath      string
	MissionDataPath string

	// Auth
	APIKey string

	// Sessions
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	MaxSessions     int

	// Request limits
	MaxBodyBytes int64

	// PDF
	PDFFallbackPdftotext bool

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ReportPath:      os.Getenv("REPORT_PATH"),
		MissionDataPath: os.Getenv("MISSION_DATA_PATH"),

		APIKey: os.Getenv("REPORTVIEW_API_KEY"),

		SessionTTL:      envDuration("SESSION_TTL", 30*time.Minute),
		CleanupInterval: envDuration("SESSION_CLEANUP_INTERVAL", time.Minute),
		MaxSessions:     envInt("MAX_SESSIONS", 256),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1<<20), // 1MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 256
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ReportPath == "" {
		return fmt.Errorf("REPORT_PATH is required")
	}
	if !loader.IsSupportedExtension(c.ReportPath) {
		return fmt.Errorf("REPORT_PATH %q: %w", c.ReportPath, loader.ErrUnsupported)
	}
	return nil
}

// LoaderOptions returns the loader settings derived from the config.
func (c Config) LoaderOptions() loader.Options {
	return loader.Options{PDFFallbackPdftotext: c.PDFFallbackPdftotext}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return lvl
}

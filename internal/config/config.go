package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Backing data file
	DataPath string

	// Auth for write endpoints; empty disables them.
	APIKey string

	LogLevel slog.Level

	// Request limits
	MaxBodyBytes   int64
	MaxUploadBytes int64

	// Optional surfaces
	MCPEnabled bool

	// Search stats window
	StatsWindow time.Duration

	ShutdownTimeout time.Duration

	// PDF import
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "3333"),

		DataPath: envOr("DATA_PATH", "data/materi.json"),

		APIKey: os.Getenv("API_KEY"),

		LogLevel: parseLevel(os.Getenv("LOG_LEVEL")),

		MaxBodyBytes:   envInt64("MAX_BODY_BYTES", 5<<20),    // 5MB
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10<<20), // 10MB

		MCPEnabled: envBool("MCP_ENABLED", true),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 << 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

// WritesEnabled reports whether replace, reload and import are served.
func (c Config) WritesEnabled() bool {
	return c.APIKey != ""
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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

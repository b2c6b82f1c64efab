package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/locate"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Localization policy defaults (overridable per request)
	MinClusterSize           int
	MaxClusterLines          float64
	VerticalThresholdLines   float64
	HorizontalThresholdChars float64

	// Multi-page locate fan-out
	MaxConcurrentLocate int

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	defaults := locate.DefaultPolicy()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("LOCATOR_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MinClusterSize:           envInt("MIN_CLUSTER_SIZE", defaults.MinClusterSize),
		MaxClusterLines:          envFloat("MAX_CLUSTER_LINES", defaults.MaxLines),
		VerticalThresholdLines:   envFloat("VERTICAL_THRESHOLD_LINES", defaults.VerticalThresholdLines),
		HorizontalThresholdChars: envFloat("HORIZONTAL_THRESHOLD_CHARS", defaults.HorizontalThresholdChars),

		MaxConcurrentLocate: envInt("MAX_CONCURRENT_LOCATE", 4),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MinClusterSize <= 0 {
		cfg.MinClusterSize = defaults.MinClusterSize
	}
	if cfg.MaxClusterLines <= 0 {
		cfg.MaxClusterLines = defaults.MaxLines
	}
	if cfg.VerticalThresholdLines <= 0 {
		cfg.VerticalThresholdLines = defaults.VerticalThresholdLines
	}
	if cfg.HorizontalThresholdChars <= 0 {
		cfg.HorizontalThresholdChars = defaults.HorizontalThresholdChars
	}
	if cfg.MaxConcurrentLocate <= 0 {
		cfg.MaxConcurrentLocate = 4
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LOCATOR_API_KEY is required")
	}
	return nil
}

// Policy returns the configured default localization policy.
func (c Config) Policy() locate.Policy {
	return locate.Policy{
		MinClusterSize:           c.MinClusterSize,
		MaxLines:                 c.MaxClusterLines,
		VerticalThresholdLines:   c.VerticalThresholdLines,
		HorizontalThresholdChars: c.HorizontalThresholdChars,
	}
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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

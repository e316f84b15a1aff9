// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading accepts context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by the provider key.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderFake   = "fake"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// Provider selects the summary backend: gemini, openai or fake.
	Provider string `koanf:"provider"`

	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model"`

	OpenAIAPIKey  string `koanf:"openai_api_key"`
	OpenAIModel   string `koanf:"openai_model"`
	OpenAIBaseURL string `koanf:"openai_base_url"`

	// MissingValuePolicy is lenient (fill defaults) or strict (reject the upload).
	MissingValuePolicy string `koanf:"missing_value_policy"`

	// MaxUploadBytes caps the request body of POST /upload-csv.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxRows caps data rows per upload. Zero means unlimited.
	MaxRows int `koanf:"max_rows"`

	// SummaryTimeoutMS bounds a single provider call. Zero disables it.
	SummaryTimeoutMS int `koanf:"summary_timeout_ms"`

	ReadTimeoutMS     int `koanf:"read_timeout_ms"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8000",
		Provider:           ProviderGemini,
		GeminiModel:        "gemini-2.0-flash",
		OpenAIModel:        "gpt-4o-mini",
		MissingValuePolicy: "lenient",
		MaxUploadBytes:     10 << 20,
		MaxRows:            0,
		SummaryTimeoutMS:   60_000,
		ReadTimeoutMS:      30_000,
		WriteTimeoutMS:     600_000,
		ShutdownTimeoutMS:  10_000,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	switch c.MissingValuePolicy {
	case "lenient", "strict":
	default:
		return fmt.Errorf("%w: missing_value_policy %q must be lenient or strict", ErrInvalidConfig, c.MissingValuePolicy)
	}
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingAPIKey)
		}
		if c.GeminiModel == "" {
			return fmt.Errorf("%w: gemini_model must not be empty", ErrInvalidConfig)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingAPIKey)
		}
		if c.OpenAIModel == "" {
			return fmt.Errorf("%w: openai_model must not be empty", ErrInvalidConfig)
		}
	case ProviderFake:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	if c.MaxRows < 0 || c.SummaryTimeoutMS < 0 || c.ReadTimeoutMS < 0 ||
		c.WriteTimeoutMS < 0 || c.ShutdownTimeoutMS < 0 {
		return fmt.Errorf("%w: limits and timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SummaryTimeout returns the per-call provider bound.
func (c *Config) SummaryTimeout() time.Duration {
	return time.Duration(c.SummaryTimeoutMS) * time.Millisecond
}

// ReadTimeout returns the HTTP server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP server write timeout. Uploads wait on one
// provider call per row, so this is much longer than the read timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

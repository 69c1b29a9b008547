package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	if c.Database.URL == "" {
		errs = append(errs, "DB_URL (or DATABASE_URL) is required")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxConcurrentSnapshots <= 0 {
		errs = append(errs, "SERVER_MAX_CONCURRENT_SNAPSHOTS must be positive")
	}

	errs = append(errs, c.ETL.validate()...)
	errs = append(errs, c.Analytics.validate()...)

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func (e *ETLConfig) validate() []string {
	var errs []string
	if utf8.RuneCountInString(e.Delimiter) != 1 {
		errs = append(errs, fmt.Sprintf("ETL_DELIMITER (%q) must be a single character", e.Delimiter))
	}
	if strings.TrimSpace(e.FallbackPaymentMethod) == "" {
		errs = append(errs, "ETL_FALLBACK_PAYMENT_METHOD must not be blank")
	}
	if e.RatingMin > e.RatingMax {
		errs = append(errs, fmt.Sprintf("ETL_RATING_MIN (%d) must be <= ETL_RATING_MAX (%d)", e.RatingMin, e.RatingMax))
	}
	if e.MaxHeaderSearchRows <= 0 {
		errs = append(errs, "ETL_MAX_HEADER_SEARCH_ROWS must be positive")
	}
	if e.Timeout <= 0 {
		errs = append(errs, "ETL_TIMEOUT must be positive")
	}
	return errs
}

func (a *AnalyticsConfig) validate() []string {
	var errs []string
	if a.RepeatThreshold < 0 {
		errs = append(errs, "ANALYTICS_REPEAT_THRESHOLD must be non-negative")
	}
	if a.ChurnMonths <= 0 {
		errs = append(errs, "ANALYTICS_CHURN_MONTHS must be positive")
	}
	if a.Quintiles <= 0 {
		errs = append(errs, "ANALYTICS_QUINTILES must be positive")
	}
	if a.TopN <= 0 {
		errs = append(errs, "ANALYTICS_TOP_N must be positive")
	}
	return errs
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("ETL: {Delimiter: %q, DayFirst: %v, FallbackPayment: %q, Upsert: %v}, ",
		c.ETL.Delimiter, c.ETL.DayFirst, c.ETL.FallbackPaymentMethod, c.ETL.Upsert))
	b.WriteString(fmt.Sprintf("Analytics: {RepeatThreshold: %d, ChurnMonths: %d, Quintiles: %d, TopN: %d}, ",
		c.Analytics.RepeatThreshold, c.Analytics.ChurnMonths, c.Analytics.Quintiles, c.Analytics.TopN))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

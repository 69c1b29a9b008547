// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database  DatabaseConfig  `envconfig:"DB"`
	Server    ServerConfig    `envconfig:"SERVER"`
	Logging   LoggingConfig   `envconfig:"LOG"`
	ETL       ETLConfig       `envconfig:"ETL"`
	Analytics AnalyticsConfig `envconfig:"ANALYTICS"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	// DATABASE_URL is accepted as a fallback for DB_URL.
	URL string `envconfig:"URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `envconfig:"MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `envconfig:"MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `envconfig:"MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `envconfig:"MAX_CONN_IDLE_TIME" default:"30m"`
}

// ServerConfig holds settings for the read-only reporting API.
type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`

	// MaxConcurrentSnapshots bounds how many requests may hold a full
	// table snapshot in memory at once (default: 4)
	MaxConcurrentSnapshots int           `envconfig:"MAX_CONCURRENT_SNAPSHOTS" default:"4"`
	SnapshotWait           time.Duration `envconfig:"SNAPSHOT_WAIT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `envconfig:"FORMAT" default:"text"`
}

// ETLConfig holds the cleaning and loading settings.
type ETLConfig struct {
	// InputDir is the directory holding the five source CSV files.
	InputDir string `envconfig:"INPUT_DIR" default:"data"`

	// Delimiter is the single field separator character (default: ",")
	Delimiter string `envconfig:"DELIMITER" default:","`

	// DayFirst reads ambiguous numeric dates as DD/MM/YYYY (default: true)
	DayFirst bool `envconfig:"DAY_FIRST" default:"true"`

	// NullSentinels are cell values treated as missing, case-insensitive.
	NullSentinels []string `envconfig:"NULL_SENTINELS" default:"nan,null,none,n/a,<na>,nat"`

	// FallbackPaymentMethod replaces a missing payment method (default: Unknown)
	FallbackPaymentMethod string `envconfig:"FALLBACK_PAYMENT_METHOD" default:"Unknown"`

	// RatingMin and RatingMax bound review ratings (default: 1..5)
	RatingMin int `envconfig:"RATING_MIN" default:"1"`
	RatingMax int `envconfig:"RATING_MAX" default:"5"`

	// Upsert overwrites rows with an existing primary key instead of rejecting them.
	Upsert bool `envconfig:"UPSERT" default:"false"`

	// MaxHeaderSearchRows is how many leading rows are scanned for the header.
	MaxHeaderSearchRows int `envconfig:"MAX_HEADER_SEARCH_ROWS" default:"20"`

	// Timeout bounds a whole load run (default: 30m)
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30m"`
}

// AnalyticsConfig holds the thresholds used by the analytics views.
type AnalyticsConfig struct {
	// RepeatThreshold is the order count a customer must exceed to be a repeat buyer.
	RepeatThreshold int `envconfig:"REPEAT_THRESHOLD" default:"3"`

	// ChurnMonths is the inactivity window after which a customer is churned.
	ChurnMonths int `envconfig:"CHURN_MONTHS" default:"3"`

	// Quintiles is the number of RFM buckets per dimension.
	Quintiles int `envconfig:"QUINTILES" default:"5"`

	// TopN caps the Pareto and product performance views.
	TopN int `envconfig:"TOP_N" default:"10"`
}

// Defaults returns a configuration with every default applied and no
// database URL. Useful for tests and for pure pipeline stages.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{MaxConns: 4, MinConns: 1, MaxConnLifetime: time.Hour, MaxConnIdleTime: 30 * time.Minute},
		Server: ServerConfig{
			Host: "0.0.0.0", Port: 8080,
			ReadTimeout: 15 * time.Second, WriteTimeout: time.Minute, IdleTimeout: time.Minute,
			ShutdownTimeout: 30 * time.Second, RequestTimeout: time.Minute,
			MaxConcurrentSnapshots: 4, SnapshotWait: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		ETL: ETLConfig{
			InputDir:              "data",
			Delimiter:             ",",
			DayFirst:              true,
			NullSentinels:         []string{"nan", "null", "none", "n/a", "<na>", "nat"},
			FallbackPaymentMethod: "Unknown",
			RatingMin:             1,
			RatingMax:             5,
			MaxHeaderSearchRows:   20,
			Timeout:               30 * time.Minute,
		},
		Analytics: AnalyticsConfig{RepeatThreshold: 3, ChurnMonths: 3, Quintiles: 5, TopN: 10},
	}
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *ETLConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

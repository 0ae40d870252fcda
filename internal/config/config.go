// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory ingest queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize caps how many article keys are remembered for duplicate checks.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxTopLimit caps the limit parameter of the list endpoints.
	MaxTopLimit int `koanf:"max_top_limit"`

	// Profile names a bundled scoring profile. ProfileFile, when set, wins.
	Profile     string `koanf:"profile"`
	ProfileFile string `koanf:"profile_file"`

	// DBPath is the SQLite file for scored articles; ":memory:" keeps them in RAM.
	DBPath string `koanf:"db_path"`

	// AIProvider enables model scoring when set: anthropic or openai.
	AIProvider      string  `koanf:"ai_provider"`
	AIAPIKey        string  `koanf:"ai_api_key"`
	AIModel         string  `koanf:"ai_model"`
	AIBaseURL       string  `koanf:"ai_base_url"`
	AITimeoutMS     int     `koanf:"ai_timeout_ms"`
	AIRatePerSecond float64 `koanf:"ai_rate_per_second"`
	AIConcurrency   int     `koanf:"ai_concurrency"`

	// Feeds lists RSS or Atom URLs to poll. Empty disables polling.
	Feeds            []string `koanf:"feeds"`
	FeedSchedule     string   `koanf:"feed_schedule"`
	FeedItemsPerFeed int      `koanf:"feed_items_per_feed"`
	FeedTimeoutMS    int      `koanf:"feed_timeout_ms"`
	FeedFetchContent bool     `koanf:"feed_fetch_content"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       100_000,
		MaxTopLimit:      100,
		Profile:          "emotional",
		DBPath:           "newsheat.db",
		AITimeoutMS:      15_000,
		AIRatePerSecond:  2,
		AIConcurrency:    4,
		FeedSchedule:     "@every 15m",
		FeedItemsPerFeed: 20,
		FeedTimeoutMS:    30_000,
	}
}

// AITimeout returns AITimeoutMS as a duration.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutMS) * time.Millisecond
}

// FeedTimeout returns FeedTimeoutMS as a duration.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutMS) * time.Millisecond
}

// ModelEnabled reports whether a model provider is configured.
func (c *Config) ModelEnabled() bool { return c.AIProvider != "" }

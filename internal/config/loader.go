package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/newsheat/internal/domain/scoring"
)

// Environment names.
const (
	EnvPrefix = "NEWSHEAT_"
	EnvFile   = "NEWSHEAT_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if NEWSHEAT_CONFIG is set
//  3. env (prefix NEWSHEAT_); list values such as feeds are comma separated
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// NEWSHEAT_QUEUE_SIZE -> queue_size; underscores are kept to match the tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.Feeds = cleanList(cfg.Feeds)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and cross-field rules.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(strings.TrimSpace(c.Addr) != "", "addr must not be empty")
	check(slices.Contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)), "log_format must be text or json")
	check(c.QueueSize > 0, "queue_size must be positive")
	check(c.WorkerCount >= 0, "worker_count must not be negative")
	check(c.DedupeSize > 0, "dedupe_size must be positive")
	check(c.MaxTopLimit > 0, "max_top_limit must be positive")
	check(strings.TrimSpace(c.DBPath) != "", "db_path must not be empty")
	if c.ProfileFile == "" {
		check(slices.Contains(scoring.ProfileNames(), c.Profile),
			fmt.Sprintf("profile must be one of %s", strings.Join(scoring.ProfileNames(), ", ")))
	}

	switch c.AIProvider {
	case "":
	case "anthropic", "openai":
		check(c.AIAPIKey != "", "ai_api_key is required when ai_provider is set")
	default:
		problems = append(problems, fmt.Sprintf("unknown ai_provider %q", c.AIProvider))
	}
	check(c.AITimeoutMS > 0, "ai_timeout_ms must be positive")
	check(c.AIRatePerSecond >= 0, "ai_rate_per_second must not be negative")
	check(c.AIConcurrency > 0, "ai_concurrency must be positive")

	check(c.FeedItemsPerFeed > 0, "feed_items_per_feed must be positive")
	check(c.FeedTimeoutMS > 0, "feed_timeout_ms must be positive")
	check(len(c.Feeds) == 0 || strings.TrimSpace(c.FeedSchedule) != "", "feed_schedule is required when feeds are set")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

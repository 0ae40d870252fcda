package service

import (
	"context"
	"fmt"

	"github.com/okian/newsheat/internal/adapters/feed"
	"github.com/okian/newsheat/internal/adapters/llm"
	"github.com/okian/newsheat/internal/config"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
)

// LoadProfile resolves the scoring profile named by cfg. A profile file
// takes precedence over a bundled profile name.
func LoadProfile(cfg *config.Config) (*scoring.Profile, error) {
	if cfg.ProfileFile != "" {
		return scoring.LoadProfile(cfg.ProfileFile)
	}
	return scoring.ProfileByName(cfg.Profile)
}

// NewModel builds the language model client configured by cfg.
func NewModel(cfg *config.Config, log logger.Logger) (*llm.Client, error) {
	client, err := llm.New(cfg.AIProvider, cfg.AIAPIKey,
		llm.WithModel(cfg.AIModel),
		llm.WithBaseURL(cfg.AIBaseURL),
		llm.WithTimeout(cfg.AITimeout()),
		llm.WithRatePerSecond(cfg.AIRatePerSecond),
		llm.WithLogger(log.Named("llm")),
	)
	if err != nil {
		return nil, fmt.Errorf("model client: %w", err)
	}
	return client, nil
}

// NewFetcher builds the feed fetcher configured by cfg.
func NewFetcher(cfg *config.Config, log logger.Logger) *feed.Fetcher {
	return feed.NewFetcher(
		feed.WithTimeout(cfg.FeedTimeout()),
		feed.WithItemsPerFeed(cfg.FeedItemsPerFeed),
		feed.WithFetchContent(cfg.FeedFetchContent),
		feed.WithLogger(log.Named("feed")),
	)
}

// OptionsFromConfig translates cfg into service options, building the model
// client and feed fetcher it asks for.
func OptionsFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) ([]Option, error) {
	profile, err := LoadProfile(cfg)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	opts := []Option{
		WithLogger(log),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithDBPath(cfg.DBPath),
		WithProfile(profile),
		WithModelTimeout(cfg.AITimeout()),
		WithModelConcurrency(cfg.AIConcurrency),
	}

	if cfg.ModelEnabled() {
		client, err := NewModel(cfg, log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithModel(client, client.Provider()+"/"+client.Model()))
		log.Info(ctx, "model scoring enabled",
			logger.String("provider", client.Provider()),
			logger.String("model", client.Model()),
		)
	}

	if len(cfg.Feeds) > 0 {
		opts = append(opts, WithFeeds(NewFetcher(cfg, log), cfg.Feeds,
			feed.WithSchedule(cfg.FeedSchedule),
			feed.WithPollerLogger(log.Named("poller")),
		))
	}
	return opts, nil
}

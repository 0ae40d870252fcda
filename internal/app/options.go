package service

import (
	"strings"
	"time"

	"github.com/okian/newsheat/internal/adapters/feed"
	"github.com/okian/newsheat/internal/domain/batch"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDBPath sets the SQLite database file.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if strings.TrimSpace(path) != "" {
			s.dbPath = path
		}
	}
}

// WithProfile sets the scoring profile.
func WithProfile(p *scoring.Profile) Option {
	return func(s *Service) {
		s.profile = p
	}
}

// WithModel enables model scoring for batches that ask for it. name is only
// reported in stats.
func WithModel(m batch.ModelScorer, name string) Option {
	return func(s *Service) {
		s.model = m
		s.modelName = name
	}
}

// WithModelTimeout bounds each model call.
func WithModelTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.modelTimeout = d
	}
}

// WithModelConcurrency bounds concurrent model calls within one batch.
func WithModelConcurrency(n int) Option {
	return func(s *Service) {
		s.modelConcurrency = n
	}
}

// WithFeeds polls urls through source and ingests what they return.
func WithFeeds(source feed.Source, urls []string, opts ...feed.PollerOption) Option {
	return func(s *Service) {
		s.feedSource = source
		s.feeds = urls
		s.pollerOpts = opts
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

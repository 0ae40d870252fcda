// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/newsheat/internal/adapters/feed"
	articlequeue "github.com/okian/newsheat/internal/adapters/mq/queue"
	workerpool "github.com/okian/newsheat/internal/adapters/mq/worker"
	"github.com/okian/newsheat/internal/adapters/repository"
	"github.com/okian/newsheat/internal/domain/batch"
	"github.com/okian/newsheat/internal/domain/categorize"
	"github.com/okian/newsheat/internal/domain/dedupe"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
	"github.com/okian/newsheat/pkg/metrics"
)

const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 100_000
	drainTimeout      = 30 * time.Second
)

// ErrNoFeeds is returned by PollNow when no feed poller is running.
var ErrNoFeeds = feed.ErrNoFeeds

// Service implements the API dependencies for the relevance scorer.
type Service struct {
	mu sync.RWMutex

	// Core components
	scorer      *scoring.Heuristic
	runner      *batch.Runner
	categorizer *categorize.Categorizer
	deduper     dedupe.Deduper
	queue       *articlequeue.InMemoryQueue
	pool        *workerpool.Pool
	store       repository.Store
	poller      *feed.Poller

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	dbPath           string
	profile          *scoring.Profile
	model            batch.ModelScorer
	modelName        string
	modelTimeout     time.Duration
	modelConcurrency int
	feedSource       feed.Source
	feeds            []string
	pollerOpts       []feed.PollerOption

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration. Components are
// built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		dbPath:      repository.MemoryPath,
		logger:      logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds and starts the service components. Workers and the feed
// poller run until Stop, independent of ctx cancellation.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting newsheat service...")

	scorerOpts := []scoring.Option{}
	if s.profile != nil {
		scorerOpts = append(scorerOpts, scoring.WithProfile(s.profile))
	}
	scorer, err := scoring.NewHeuristic(scorerOpts...)
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}

	runnerOpts := []batch.Option{batch.WithScorer(scorer), batch.WithLogger(s.logger.Named("batch"))}
	if s.model != nil {
		runnerOpts = append(runnerOpts, batch.WithModel(s.model))
	}
	if s.modelTimeout > 0 {
		runnerOpts = append(runnerOpts, batch.WithModelTimeout(s.modelTimeout))
	}
	if s.modelConcurrency > 0 {
		runnerOpts = append(runnerOpts, batch.WithConcurrency(s.modelConcurrency))
	}

	store, err := repository.Open(ctx, s.dbPath)
	if err != nil {
		return fmt.Errorf("open store %q: %w", s.dbPath, err)
	}

	s.scorer = scorer
	s.runner = batch.NewRunner(runnerOpts...)
	s.categorizer = categorize.Default()
	s.store = store
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = articlequeue.NewInMemoryQueue(articlequeue.WithCapacity(s.queueSize))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.runner, s.store)
	s.pool.Start(runCtx)

	if len(s.feeds) > 0 && s.feedSource != nil {
		poller, err := feed.NewPoller(s.feedSource, s, s.feeds, s.pollerOpts...)
		if err == nil {
			err = poller.Start(runCtx)
		}
		if err != nil {
			cancel()
			_ = s.pool.Shutdown(ctx)
			_ = store.Close()
			return fmt.Errorf("start feed poller: %w", err)
		}
		s.poller = poller
	}

	s.started = true
	s.logger.Info(ctx, "newsheat service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("profile", scorer.Profile().Name),
		logger.Bool("model", s.model != nil),
		logger.Int("feeds", len(s.feeds)),
	)
	return nil
}

// Stop stops the poller, drains queued articles into the store and closes it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping newsheat service...")

	if s.poller != nil {
		s.poller.Stop()
		s.poller = nil
	}

	drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	if err := s.pool.Shutdown(drainCtx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.cancel()

	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "newsheat service stopped",
		logger.Int("processed", int(s.pool.Processed())),
		logger.Int("failed", int(s.pool.Failed())),
	)
}

// Score rates a single headline with the heuristic.
func (s *Service) Score(in scoring.Input) scoring.Result {
	res := s.scorer.Score(in)
	metrics.RecordArticleScored(model.ScoredByHeuristic, res.Score)
	return res
}

// ScoreBatch scores items, most relevant first. useAI only has an effect
// when a model scorer is configured.
func (s *Service) ScoreBatch(ctx context.Context, items []model.Article, useAI bool) []model.ScoredArticle {
	return s.runner.Run(ctx, items, useAI)
}

// Group buckets scored articles for display.
func (s *Service) Group(items []model.ScoredArticle) categorize.Groups {
	groups := s.categorizer.Group(items)
	for _, g := range groups {
		metrics.RecordBucketPlacement(g.Label, len(g.Articles))
	}
	return groups
}

// SeenAndRecord atomically checks if an article key was seen and records it if not.
// Returns true if the key was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordArticleDuplicate()
	}
	return seen
}

// Unrecord removes a key from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an article for asynchronous scoring. It returns false when
// the queue is full or closed.
func (s *Service) Enqueue(ctx context.Context, a model.Article) bool {
	return s.queue.Enqueue(ctx, a)
}

// Offer queues a polled feed article unless it was seen recently or is
// already stored.
func (s *Service) Offer(ctx context.Context, a model.Article) bool {
	key := a.Key()
	if s.SeenAndRecord(ctx, key) {
		return false
	}
	if _, err := s.store.Get(ctx, a.ID); err == nil {
		return false
	}
	if !s.Enqueue(ctx, a) {
		s.Unrecord(ctx, key)
		return false
	}
	return true
}

// PollNow runs one feed polling round immediately.
func (s *Service) PollNow(ctx context.Context) (feed.PollStats, error) {
	s.mu.RLock()
	p := s.poller
	s.mu.RUnlock()
	if p == nil {
		return feed.PollStats{}, ErrNoFeeds
	}
	return p.PollOnce(ctx), nil
}

// Feeds returns the configured feed URLs.
func (s *Service) Feeds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.feeds...)
}

// Recent returns up to limit stored articles, most recently scored first.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.ScoredArticle, error) {
	return s.store.Recent(ctx, limit)
}

// TopN returns the n highest scoring stored articles.
func (s *Service) TopN(ctx context.Context, n int) ([]model.ScoredArticle, error) {
	return s.store.TopN(ctx, n)
}

// Search returns stored articles matching query, newest first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]model.ScoredArticle, error) {
	return s.store.Search(ctx, query, limit)
}

// Get returns one stored article.
func (s *Service) Get(ctx context.Context, id string) (model.ScoredArticle, error) {
	return s.store.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"queueSize":    s.queueSize,
		"modelEnabled": s.model != nil,
		"feeds":        len(s.feeds),
	}
	if s.modelName != "" {
		stats["model"] = s.modelName
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	queueLen := s.queue.Len(ctx)
	stats["queueLength"] = queueLen
	stats["queueCapacity"] = s.queue.Cap()
	stats["workerCount"] = s.pool.Size()
	stats["processed"] = s.pool.Processed()
	stats["failed"] = s.pool.Failed()
	stats["dedupeEntries"] = s.deduper.Size()
	stats["profile"] = s.scorer.Profile().Name
	if n, err := s.store.Count(ctx); err == nil {
		stats["articlesStored"] = n
		metrics.UpdateArticlesStored(n)
	}
	if s.poller != nil {
		stats["lastPoll"] = s.poller.LastStats()
	}

	metrics.UpdateQueueSize(queueLen)
	return stats
}

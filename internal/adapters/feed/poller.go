package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/pkg/logger"
)

// DefaultSchedule polls every fifteen minutes.
const DefaultSchedule = "@every 15m"

const defaultPollConcurrency = 4

// Source fetches one feed. *Fetcher satisfies it.
type Source interface {
	Fetch(ctx context.Context, feedURL string) ([]model.Article, error)
}

// Sink receives fetched articles and reports whether each one was queued.
type Sink interface {
	Offer(ctx context.Context, a model.Article) bool
}

// PollStats describes one polling round.
type PollStats struct {
	Feeds    int       `json:"feeds"`
	Failed   int       `json:"failed"`
	Fetched  int       `json:"fetched"`
	Queued   int       `json:"queued"`
	Finished time.Time `json:"finished"`
}

// Poller fetches a fixed list of feeds on a cron schedule.
type Poller struct {
	source      Source
	sink        Sink
	feeds       []string
	schedule    string
	concurrency int
	logger      logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	last    PollStats
	started bool
}

// PollerOption applies a configuration option to the Poller.
type PollerOption func(*Poller)

// WithSchedule sets the cron spec; descriptors such as "@every 5m" work too.
func WithSchedule(spec string) PollerOption {
	return func(p *Poller) {
		if strings.TrimSpace(spec) != "" {
			p.schedule = strings.TrimSpace(spec)
		}
	}
}

// WithPollConcurrency bounds how many feeds are fetched at once.
func WithPollConcurrency(n int) PollerOption {
	return func(p *Poller) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithPollerLogger sets the poller logger.
func WithPollerLogger(l logger.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a poller. The schedule is checked here so a bad spec
// fails at startup.
func NewPoller(source Source, sink Sink, feeds []string, opts ...PollerOption) (*Poller, error) {
	p := &Poller{
		source:      source,
		sink:        sink,
		schedule:    DefaultSchedule,
		concurrency: defaultPollConcurrency,
		logger:      logger.Get().Named("poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, f := range feeds {
		if f = strings.TrimSpace(f); f != "" {
			p.feeds = append(p.feeds, f)
		}
	}
	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, p.schedule, err)
	}
	return p, nil
}

// Feeds returns the polled feed URLs.
func (p *Poller) Feeds() []string { return append([]string(nil), p.feeds...) }

// Start schedules polling until Stop or until ctx is canceled. A round that
// is still running when the next one is due makes that one skip.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(p.schedule, func() { p.PollOnce(ctx) }); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	c.Start()
	p.cron = c
	p.started = true

	p.logger.Info(ctx, "feed poller started",
		logger.String("schedule", p.schedule),
		logger.Int("feeds", len(p.feeds)),
	)
	return nil
}

// Stop halts the schedule and waits for a running round to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.started = false
	p.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// PollOnce fetches every feed now and offers each article to the sink.
// A feed that fails is logged and counted; the others still run.
func (p *Poller) PollOnce(ctx context.Context) PollStats {
	var failed, fetched, queued atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for _, feedURL := range p.feeds {
		g.Go(func() error {
			articles, err := p.source.Fetch(ctx, feedURL)
			if err != nil {
				failed.Add(1)
				p.logger.Warn(ctx, "feed fetch failed",
					logger.String("feed", feedURL),
					logger.Error(err),
				)
				return nil
			}
			fetched.Add(int64(len(articles)))
			for _, a := range articles {
				if p.sink.Offer(ctx, a) {
					queued.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := PollStats{
		Feeds:    len(p.feeds),
		Failed:   int(failed.Load()),
		Fetched:  int(fetched.Load()),
		Queued:   int(queued.Load()),
		Finished: time.Now().UTC(),
	}
	p.mu.Lock()
	p.last = stats
	p.mu.Unlock()

	p.logger.Info(ctx, "feed poll finished",
		logger.Int("feeds", stats.Feeds),
		logger.Int("failed", stats.Failed),
		logger.Int("fetched", stats.Fetched),
		logger.Int("queued", stats.Queued),
	)
	return stats
}

// LastStats returns the result of the latest round, zero before the first.
func (p *Poller) LastStats() PollStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

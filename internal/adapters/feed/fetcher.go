// Package feed reads RSS and Atom feeds into articles.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/sethvargo/go-retry"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/pkg/logger"
	"github.com/okian/newsheat/pkg/metrics"
)

// Limits applied to every fetched entry.
const (
	MaxTitleRunes   = 500
	MaxSummaryRunes = 2000
)

const (
	defaultTimeout      = 30 * time.Second
	defaultItemsPerFeed = 20
	defaultMaxRetries   = 3
	defaultBackoffBase  = 500 * time.Millisecond
	maxFeedBytes        = 10 << 20
	userAgent           = "newsheat/1.0 (+https://github.com/okian/newsheat)"
)

// Fetch results reported to metrics.
const (
	resultOK    = "ok"
	resultError = "error"
)

// Fetcher downloads and parses feeds.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	itemsPerFeed int
	fetchContent bool
	maxRetries   uint64
	backoffBase  time.Duration
	logger       logger.Logger
}

// NewFetcher creates a Fetcher with configuration options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      defaultTimeout,
		itemsPerFeed: defaultItemsPerFeed,
		maxRetries:   defaultMaxRetries,
		backoffBase:  defaultBackoffBase,
		logger:       logger.Get().Named("feed"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// Fetch returns the first entries of the feed at feedURL as articles. Network
// failures and 5xx or 429 responses are retried with a Fibonacci backoff;
// other statuses and parse errors fail at once.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]model.Article, error) {
	var parsed *gofeed.Feed

	b := retry.WithMaxRetries(f.maxRetries, retry.NewFibonacci(f.backoffBase))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		parsed, err = f.fetchOnce(ctx, feedURL)
		return err
	})
	if err != nil {
		metrics.RecordFeedFetch(resultError, 0)
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}

	items := parsed.Items
	if len(items) > f.itemsPerFeed {
		items = items[:f.itemsPerFeed]
	}

	source := strings.TrimSpace(parsed.Title)
	if source == "" {
		if u, err := url.Parse(feedURL); err == nil {
			source = u.Host
		}
	}

	out := make([]model.Article, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		a := convertItem(it, source)
		if a.Summary == "" && f.fetchContent && a.URL != "" {
			text, err := f.FetchContent(ctx, a.URL)
			if err != nil {
				f.logger.Debug(ctx, "content extraction failed",
					logger.String("url", a.URL),
					logger.Error(err),
				)
			} else {
				a.Summary = text
			}
		}
		out = append(out, a)
	}

	metrics.RecordFeedFetch(resultOK, len(out))
	return out, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retry.RetryableError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("%w: %d", ErrFeedStatus, resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return nil, retry.RetryableError(err)
		}
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, retry.RetryableError(fmt.Errorf("read feed: %w", err))
		}
		return nil, fmt.Errorf("%w: %w", ErrFeedParse, err)
	}
	return parsed, nil
}

func convertItem(it *gofeed.Item, source string) model.Article {
	a := model.Article{
		ID:     strings.TrimSpace(it.GUID),
		Title:  truncateRunes(strings.TrimSpace(it.Title), MaxTitleRunes),
		URL:    strings.TrimSpace(it.Link),
		Source: source,
	}
	if a.ID == "" {
		a.ID = a.URL
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	summary := strings.TrimSpace(it.Description)
	if summary == "" {
		summary = strings.TrimSpace(it.Content)
	}
	a.Summary = truncateRunes(summary, MaxSummaryRunes)

	switch {
	case it.PublishedParsed != nil:
		a.PublishedAt = it.PublishedParsed.UTC()
	case it.UpdatedParsed != nil:
		a.PublishedAt = it.UpdatedParsed.UTC()
	}
	return a
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

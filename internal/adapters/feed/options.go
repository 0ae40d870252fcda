package feed

import (
	"net/http"
	"time"

	"github.com/okian/newsheat/pkg/logger"
)

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		if hc != nil {
			f.client = hc
		}
	}
}

// WithItemsPerFeed caps how many entries are taken from each feed.
func WithItemsPerFeed(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.itemsPerFeed = n
		}
	}
}

// WithFetchContent enables filling empty summaries from the article page.
func WithFetchContent(enabled bool) Option {
	return func(f *Fetcher) {
		f.fetchContent = enabled
	}
}

// WithRetry sets the retry budget and the first backoff step. Steps grow
// along the Fibonacci sequence.
func WithRetry(maxRetries uint64, base time.Duration) Option {
	return func(f *Fetcher) {
		f.maxRetries = maxRetries
		if base > 0 {
			f.backoffBase = base
		}
	}
}

// WithLogger sets the fetcher logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

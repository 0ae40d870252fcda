package batch

import (
	"time"

	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithScorer replaces the default heuristic scorer.
func WithScorer(s *scoring.Heuristic) Option {
	return func(r *Runner) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithModel enables the model path. A nil scorer leaves it disabled.
func WithModel(m ModelScorer) Option {
	return func(r *Runner) {
		r.model = m
	}
}

// WithModelTimeout bounds each model call.
func WithModelTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.modelTimeout = d
		}
	}
}

// WithConcurrency caps the number of model calls in flight.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

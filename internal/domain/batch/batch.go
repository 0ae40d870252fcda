// Package batch scores lists of articles and orders them by relevance.
package batch

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
	"github.com/okian/newsheat/pkg/metrics"
)

// Defaults for the model path.
const (
	defaultModelTimeout = 15 * time.Second
	defaultConcurrency  = 4
)

// Fallback reasons reported to metrics.
const (
	reasonTimeout  = "timeout"
	reasonCanceled = "canceled"
	reasonError    = "error"
)

// ModelResult is what a model scorer returns for one article.
type ModelResult struct {
	Score             int
	Categories        scoring.CategorySet
	EmotionalTriggers []string
	HookPotential     string
	CopyAngle         string
}

// ModelScorer scores an article with an external language model. Any error
// makes the runner fall back to the heuristic for that article.
type ModelScorer interface {
	ScoreArticle(ctx context.Context, a model.Article) (ModelResult, error)
}

// Runner scores batches. It is safe for concurrent use.
type Runner struct {
	scorer       *scoring.Heuristic
	model        ModelScorer
	modelTimeout time.Duration
	concurrency  int
	logger       logger.Logger
}

// NewRunner creates a runner using the default heuristic unless WithScorer is given.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		modelTimeout: defaultModelTimeout,
		concurrency:  defaultConcurrency,
		logger:       logger.Get().Named("batch"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.scorer == nil {
		r.scorer = scoring.Default()
	}
	return r
}

// ModelEnabled reports whether a model scorer is configured.
func (r *Runner) ModelEnabled() bool { return r.model != nil }

// Scorer returns the heuristic scorer.
func (r *Runner) Scorer() *scoring.Heuristic { return r.scorer }

// Run scores items and returns them sorted by relevance, highest first.
// Articles with equal scores keep their input order. With useAI the model
// scorer is tried for each article; without one, or when it fails, the
// heuristic result is used. Run never fails.
func (r *Runner) Run(ctx context.Context, items []model.Article, useAI bool) []model.ScoredArticle {
	out := make([]model.ScoredArticle, len(items))

	if useAI && r.model != nil {
		g := new(errgroup.Group)
		g.SetLimit(r.concurrency)
		for i := range items {
			g.Go(func() error {
				out[i] = r.scoreWithModel(ctx, items[i])
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, a := range items {
			out[i] = r.Heuristic(a)
		}
	}

	slices.SortStableFunc(out, func(a, b model.ScoredArticle) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})
	return out
}

// Heuristic scores a single article with the heuristic scorer.
func (r *Runner) Heuristic(a model.Article) model.ScoredArticle {
	start := time.Now()
	res := r.scorer.Score(scoring.Input{Title: a.Title, Summary: a.Summary})
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordArticleScored(model.ScoredByHeuristic, res.Score)
	return model.FromResult(a, res)
}

func (r *Runner) scoreWithModel(ctx context.Context, a model.Article) model.ScoredArticle {
	callCtx, cancel := context.WithTimeout(ctx, r.modelTimeout)
	defer cancel()

	res, err := r.model.ScoreArticle(callCtx, a)
	if err != nil {
		reason := fallbackReason(err)
		metrics.RecordModelFallback(reason)
		r.logger.Warn(ctx, "model scoring failed, using heuristic",
			logger.String("article_id", a.ID),
			logger.String("reason", reason),
			logger.Error(err),
		)
		return r.Heuristic(a)
	}

	score := scoring.Clamp(res.Score)
	cats := res.Categories
	if cats == nil {
		cats = scoring.NewCategorySet()
	}
	triggers := res.EmotionalTriggers
	if triggers == nil {
		triggers = []string{}
	}
	metrics.RecordArticleScored(model.ScoredByModel, score)
	return model.ScoredArticle{
		Article:           a,
		RelevanceScore:    score,
		Categories:        cats,
		EmotionalTriggers: triggers,
		IsGeneric:         score < r.scorer.Profile().GenericThreshold,
		HookPotential:     res.HookPotential,
		CopyAngle:         res.CopyAngle,
		ScoredBy:          model.ScoredByModel,
	}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, context.Canceled):
		return reasonCanceled
	default:
		return reasonError
	}
}

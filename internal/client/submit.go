package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/types"
	"github.com/okian/newsheat/pkg/logger"
)

// ErrNotSorted is returned by VerifyRanking for a list out of score order.
var ErrNotSorted = errors.New("ranking not sorted by score")

// Report counts the outcome of a SubmitAll run.
type Report struct {
	Submitted int
	Accepted  int
	Duplicate int
	Failed    int
	Duration  time.Duration
}

// PerSecond is the submission throughput.
func (r Report) PerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Submitted) / r.Duration.Seconds()
}

// SubmitOptions tunes SubmitAll.
type SubmitOptions struct {
	// Workers is the number of concurrent requests; at least one is used.
	Workers int
	// Rate caps requests per second across all workers. Zero means no cap.
	Rate float64
}

// SubmitAll posts every article with a bounded number of workers. Individual
// failures are counted, not returned; only a canceled ctx is an error.
func (c *Client) SubmitAll(ctx context.Context, articles []model.Article, opts SubmitOptions) (Report, error) {
	log := logger.Get().Named("client")
	start := time.Now()

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	var accepted, duplicate, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))
	for _, a := range articles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			ack, err := c.Submit(gctx, a)
			switch {
			case err != nil:
				failed.Add(1)
				log.Debug(gctx, "submit failed", logger.String("id", a.ID), logger.Error(err))
			case ack.Duplicate:
				duplicate.Add(1)
			default:
				accepted.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	r := Report{
		Accepted:  int(accepted.Load()),
		Duplicate: int(duplicate.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(start),
	}
	r.Submitted = r.Accepted + r.Duplicate + r.Failed

	log.Info(ctx, "submission finished",
		logger.Int("submitted", r.Submitted),
		logger.Int("accepted", r.Accepted),
		logger.Int("duplicate", r.Duplicate),
		logger.Int("failed", r.Failed),
		logger.Float64("perSecond", r.PerSecond()),
	)
	if err == nil {
		err = ctx.Err()
	}
	return r, err
}

// WaitStored polls the server's stats until at least want articles are stored
// or ctx ends.
func (c *Client) WaitStored(ctx context.Context, want int, every time.Duration) error {
	b := retry.NewConstant(every)
	return retry.Do(ctx, b, func(ctx context.Context) error {
		stats, err := c.Stats(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		// JSON numbers decode as float64.
		stored, _ := stats["articlesStored"].(float64)
		if int(stored) < want {
			return retry.RetryableError(fmt.Errorf("%d of %d articles stored", int(stored), want))
		}
		return nil
	})
}

// VerifyRanking checks that entries are numbered from one and never rise in
// score.
func VerifyRanking(entries []types.Entry) error {
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrNotSorted, i, e.Rank)
		}
		if i > 0 && e.Score > entries[i-1].Score {
			return fmt.Errorf("%w: entry %d scores %d above %d", ErrNotSorted, i, e.Score, entries[i-1].Score)
		}
	}
	return nil
}

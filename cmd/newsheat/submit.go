package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/newsheat/internal/client"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/pkg/logger"
)

const (
	defaultServerURL = "http://localhost:9080"
	defaultTopN      = 50
	defaultWait      = 30 * time.Second
	pollEvery        = 250 * time.Millisecond
)

type submitOptions struct {
	url     string
	workers int
	rate    float64
	timeout time.Duration
	wait    time.Duration
	top     int
	asJSON  bool
}

func newSubmitCmd() *cobra.Command {
	var opts submitOptions
	cmd := &cobra.Command{
		Use:   "submit <file|->",
		Short: "Send articles to a running server and show the result",
		Long: `Posts every article in a JSON file (or stdin, "-") to a running server's
ingest endpoint concurrently, waits for the workers to store them, and
prints the server's grouped top list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			var (
				articles []model.Article
				err      error
			)
			if args[0] == "-" {
				articles, err = client.ReadArticles(cmd.InOrStdin())
			} else {
				var f *os.File
				if f, err = os.Open(args[0]); err != nil {
					return fmt.Errorf("open articles: %w", err)
				}
				articles, err = client.ReadArticles(f)
				f.Close()
			}
			if err != nil {
				return err
			}
			return submit(cmd, articles, opts)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", defaultServerURL, "base URL of the server")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU()*2, "concurrent requests")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "requests per second across workers, 0 for no cap")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().DurationVar(&opts.wait, "wait", defaultWait, "how long to wait for articles to be stored, 0 to skip")
	cmd.Flags().IntVar(&opts.top, "top", defaultTopN, "number of top articles to show")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the grouped top list as JSON")
	return cmd
}

func submit(cmd *cobra.Command, articles []model.Article, opts submitOptions) error {
	ctx := cmd.Context()
	log := logger.Get().Named("submit")
	c := client.New(opts.url, client.WithTimeout(opts.timeout))

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	before := storedCount(ctx, c)

	report, err := c.SubmitAll(ctx, articles, client.SubmitOptions{Workers: opts.workers, Rate: opts.rate})
	if err != nil {
		return fmt.Errorf("submit articles: %w", err)
	}
	if !opts.asJSON {
		renderReport(cmd.OutOrStdout(), report)
	}

	if opts.wait > 0 && report.Accepted > 0 {
		wctx, cancel := context.WithTimeout(ctx, opts.wait)
		err := c.WaitStored(wctx, before+report.Accepted, pollEvery)
		cancel()
		if err != nil {
			log.Warn(ctx, "not every article was stored in time", logger.Error(err))
		}
	}

	top, err := c.Top(ctx, opts.top)
	if err != nil {
		return fmt.Errorf("fetch top articles: %w", err)
	}
	if err := client.VerifyRanking(top); err != nil {
		log.Warn(ctx, "ranking check failed", logger.Error(err))
	}
	groups, err := c.Grouped(ctx, opts.top)
	if err != nil {
		return fmt.Errorf("fetch grouped articles: %w", err)
	}

	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), groups)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	renderGroups(cmd.OutOrStdout(), groups)
	return nil
}

func storedCount(ctx context.Context, c *client.Client) int {
	stats, err := c.Stats(ctx)
	if err != nil {
		return 0
	}
	n, _ := stats["articlesStored"].(float64)
	return int(n)
}

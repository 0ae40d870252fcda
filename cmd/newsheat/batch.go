package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/newsheat/internal/app"
	"github.com/okian/newsheat/internal/client"
	"github.com/okian/newsheat/internal/config"
	"github.com/okian/newsheat/internal/domain/batch"
	"github.com/okian/newsheat/internal/domain/categorize"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
)

type batchOutput struct {
	Groups  categorize.Groups `json:"groups"`
	Summary model.Summary     `json:"summary"`
}

func newBatchCmd() *cobra.Command {
	var (
		profile profileFlags
		useAI   bool
		asJSON  bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "batch <file|url|->",
		Short: "Score a batch of articles and print them grouped",
		Long: `Scores articles read from a JSON file, from stdin ("-"), or from an RSS or
Atom feed URL, and prints them in display buckets, most relevant first.

With --ai and a configured model provider, each article is scored by the
model; articles the model cannot score fall back to the heuristic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if limit > 0 {
				cfg.FeedItemsPerFeed = limit
			}
			p, err := profile.resolve(cfg)
			if err != nil {
				return err
			}

			items, err := readBatch(cmd.Context(), cfg, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			runner, err := newBatchRunner(cfg, p, useAI)
			if err != nil {
				return err
			}
			scored := runner.Run(cmd.Context(), items, useAI)
			out := batchOutput{
				Groups:  categorize.Default().Group(scored),
				Summary: model.Summarize(scored),
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			renderGroups(cmd.OutOrStdout(), out.Groups)
			renderSummary(cmd.OutOrStdout(), out.Summary)
			return nil
		},
	}
	profile.register(cmd)
	cmd.Flags().BoolVar(&useAI, "ai", false, "score with the configured model provider")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print groups and summary as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "entries to keep from a feed (overrides config)")
	return cmd
}

func readBatch(ctx context.Context, cfg *config.Config, src string, stdin io.Reader) ([]model.Article, error) {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return service.NewFetcher(cfg, logger.Get()).Fetch(ctx, src)
	case src == "-":
		return client.ReadArticles(stdin)
	default:
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open articles: %w", err)
		}
		defer f.Close()
		return client.ReadArticles(f)
	}
}

func newBatchRunner(cfg *config.Config, p *scoring.Profile, useAI bool) (*batch.Runner, error) {
	h, err := scoring.NewHeuristic(scoring.WithProfile(p))
	if err != nil {
		return nil, err
	}
	opts := []batch.Option{
		batch.WithScorer(h),
		batch.WithModelTimeout(cfg.AITimeout()),
		batch.WithConcurrency(cfg.AIConcurrency),
	}
	if useAI {
		if !cfg.ModelEnabled() {
			return nil, fmt.Errorf("--ai needs a model provider; set %sAI_PROVIDER and %sAI_API_KEY",
				config.EnvPrefix, config.EnvPrefix)
		}
		m, err := service.NewModel(cfg, logger.Get())
		if err != nil {
			return nil, err
		}
		opts = append(opts, batch.WithModel(m))
	}
	return batch.NewRunner(opts...), nil
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/metrics"
)

func newScoreCmd() *cobra.Command {
	var (
		profile profileFlags
		summary string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "score <headline>",
		Short: "Score one headline",
		Long:  `Scores a single headline with the keyword heuristic and prints the breakdown.`,
		Example: `  newsheat score "BREAKING: Trump Slams Congress Over Shutdown Scandal!"
  newsheat score --profile mild --json "Fed holds rates steady"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p, err := profile.resolve(cfg)
			if err != nil {
				return err
			}
			h, err := scoring.NewHeuristic(scoring.WithProfile(p))
			if err != nil {
				return err
			}

			title := strings.Join(args, " ")
			res := h.Score(scoring.Input{Title: title, Summary: summary})
			metrics.RecordArticleScored(model.ScoredByHeuristic, res.Score)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			renderResult(cmd.OutOrStdout(), title, res)
			return nil
		},
	}
	profile.register(cmd)
	cmd.Flags().StringVar(&summary, "summary", "", "article summary scored along with the headline")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// Command newsheat scores news headlines for emotional engagement, either
// locally or as an HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/newsheat/internal/app"
	"github.com/okian/newsheat/internal/config"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "newsheat",
		Short: "Score news headlines for engagement potential",
		Long: `newsheat rates headlines 0-100 for how likely they are to drive clicks and
shares, then groups them into display buckets.

Commands run locally (score, batch), as a server (serve), or against a
running server (submit).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML config file (overrides "+config.EnvFile+")")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newServeCmd(), newScoreCmd(), newBatchCmd(), newSubmitCmd())
	return root
}

// loadConfig reads the layered config and initializes logging to stderr.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv(config.EnvFile, path); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if err := logger.Init(
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
		logger.WithWriter(cmd.ErrOrStderr()),
	); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	return cfg, nil
}

// profileFlags selects a scoring profile on the command line.
type profileFlags struct {
	name string
	file string
}

func (p *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.name, "profile", "",
		"bundled scoring profile ("+strings.Join(scoring.ProfileNames(), ", ")+")")
	cmd.Flags().StringVar(&p.file, "profile-file", "", "YAML scoring profile")
}

// resolve applies the flags over cfg and loads the resulting profile.
func (p *profileFlags) resolve(cfg *config.Config) (*scoring.Profile, error) {
	if p.file != "" {
		cfg.ProfileFile = p.file
	}
	if p.name != "" {
		cfg.Profile = p.name
		if p.file == "" {
			cfg.ProfileFile = ""
		}
	}
	profile, err := service.LoadProfile(cfg)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

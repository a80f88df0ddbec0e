package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/draftwatch/go/internal/cache"
	"github.com/mcdev12/draftwatch/go/internal/config"
	"github.com/mcdev12/draftwatch/go/internal/lock"
	"github.com/mcdev12/draftwatch/go/internal/logging"
	"github.com/mcdev12/draftwatch/go/internal/printer"
	"github.com/mcdev12/draftwatch/go/internal/watcher"
)

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Check every configured league once and announce new picks",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return printer.Error(
			"failed to load configuration",
			err.Error(),
			[]string{"Check that the config file exists and is valid YAML with at least one league."},
		)
	}

	closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return printer.Error("failed to set up logging", err.Error(), nil)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	log.Info().Int("pid", os.Getpid()).Str("version", version).Msg("Starting up")

	deps, cleanup, err := setupDeps(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up clients")
		return printer.Error("failed to set up clients", err.Error(), nil)
	}
	defer cleanup()

	clock := clockwork.NewRealClock()
	app := watcher.NewApp(deps.Source, cache.New(cfg.CacheTTL, clock), clock)
	runner := watcher.NewRunner(app, cfg, deps.Watcher)

	if err := runner.Run(ctx); err != nil {
		var suggestions []string
		if errors.Is(err, lock.ErrLocked) {
			suggestions = []string{"Another run is still in progress. Raise lock_timeout or run less often."}
		}
		return printer.Error("draft check failed", err.Error(), suggestions)
	}

	log.Info().Msg("Run complete")
	printer.Success("checked %d leagues", len(cfg.Leagues))
	return nil
}

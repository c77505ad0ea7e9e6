package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/pipeline"
	"github.com/amishk599/internwatch/internal/runlock"
	"github.com/amishk599/internwatch/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the pipeline on an interval",
	Long:  "Runs the pipeline immediately and then every polling_interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
		"aggregator", cfg.Aggregator.Enabled,
		"listing", cfg.Listing.Enabled,
		"greenhouse_boards", len(cfg.ATS.Boards),
	)

	// Held for the daemon's lifetime so a cron-triggered `run` cannot overlap.
	release, err := runlock.Acquire(cfg.LockFile)
	if err != nil {
		logger.Error("failed to acquire run lock", "error", err)
		os.Exit(1)
	}
	defer release()

	httpClient := newHTTPClient(cfg)
	n, err := setupNotifier(cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to set up notifier", "error", err)
		os.Exit(1)
	}

	sources := buildSources(cfg, httpClient, logger)
	if len(sources) == 0 {
		logger.Error("no sources to run")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(sources, setupFilter(cfg), n, logger)
	sched := scheduler.NewScheduler(func(ctx context.Context) error {
		return runPipeline(ctx, cfg, p, logger)
	}, cfg.PollingInterval, logger)

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

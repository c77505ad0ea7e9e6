package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/pipeline"
	"github.com/amishk599/internwatch/internal/runlock"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once and exit",
	Long:  "Fetches every enabled source once, alerts on new matching postings and records them in the seen-set. Intended for cron or a systemd timer.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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
	if err := runPipeline(ctx, cfg, p, logger); err != nil {
		logger.Error("run failed", "error", err)
		release()
		os.Exit(1)
	}
	return nil
}

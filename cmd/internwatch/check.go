package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/notifier"
	"github.com/amishk599/internwatch/internal/pipeline"
	"github.com/amishk599/internwatch/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run once without alerting or recording",
	Long:  "Dry run: fetches every enabled source, logs the postings that pass the role filter, exits. Nothing is sent and the seen-set is not touched.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be sent or recorded")

	sources := buildSources(cfg, newHTTPClient(cfg), logger)
	if len(sources) == 0 {
		logger.Error("no sources to run")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(sources, setupFilter(cfg), notifier.NewLogNotifier(logger), logger)
	summary, err := p.Run(ctx, store.NewNopStore())
	logSummary(logger, summary)
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("check complete")
	return nil
}

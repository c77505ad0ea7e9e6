package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/adapter"
	"github.com/amishk599/internwatch/internal/config"
	"github.com/amishk599/internwatch/internal/filter"
	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/notifier"
	"github.com/amishk599/internwatch/internal/pipeline"
	"github.com/amishk599/internwatch/internal/ratelimit"
	"github.com/amishk599/internwatch/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "internwatch",
	Short: "Internship radar for Singapore tech roles",
	Long:  "internwatch harvests internship postings from job boards, InternSG and Greenhouse, and sends a Telegram alert for every new match.",
	// Default to `run` so that a cron entry can invoke the bare binary.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: INTERNWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: --config > INTERNWATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	resolved, explicit := config.ResolvePath(path)
	return config.Load(resolved, explicit)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

// setupNotifier checks the notifier credentials and builds the configured
// notifier without contacting it. An unreachable Bot API shows up as Notify
// errors, which the pipeline logs.
func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Notifier, error) {
	if err := cfg.ValidateNotifier(); err != nil {
		return nil, err
	}
	switch cfg.Notification.Type {
	case "telegram":
		t := cfg.Notification.Telegram
		n, err := notifier.NewTelegramNotifier(notifier.TelegramConfig{
			Token:       t.Token,
			ChatID:      t.ChatID,
			APIEndpoint: t.APIEndpoint,
			MinInterval: t.MinInterval,
		}, httpClient, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using telegram notifier", "chat_id", t.ChatID)
		return n, nil
	default:
		return notifier.NewLogNotifier(logger), nil
	}
}

func setupFilter(cfg *config.Config) *filter.RoleFilter {
	return filter.NewRoleFilter(cfg.Filters.Blacklist, cfg.Filters.Whitelist)
}

// buildSources returns the enabled sources in run order: aggregator, listing
// site, then ATS. All of them share one per-host limiter.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Source {
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.Burst)
	logger.Debug("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String(), "burst", cfg.RateLimit.Burst)

	var sources []model.Source

	if agg := cfg.Aggregator; agg.Enabled {
		query := adapter.SearchQuery{
			Term:          adapter.BroadSearchTerm,
			Location:      agg.Location,
			Country:       agg.Country,
			ResultsWanted: agg.ResultsWanted,
			HoursOld:      agg.HoursOld,
		}
		sources = append(sources, adapter.NewAggregatorAdapter(agg.Sites, query, logger,
			adapter.NewLinkedInSearcher(httpClient, limiter),
			adapter.NewIndeedSearcher(httpClient, limiter),
		))
		logger.Info("registered source", "source", "aggregator", "sites", agg.Sites)
	}

	if lst := cfg.Listing; lst.Enabled {
		sources = append(sources, adapter.NewListingAdapter(adapter.ListingConfig{
			Name:               lst.Name,
			URL:                lst.URL,
			PathMarker:         lst.PathMarker,
			MinTextLength:      lst.MinTextLength,
			PlaceholderCompany: lst.PlaceholderCompany,
		}, httpClient, limiter))
		logger.Info("registered source", "source", lst.Name, "url", lst.URL)
	}

	if cfg.ATS.Enabled {
		if len(cfg.ATS.Boards) == 0 {
			logger.Warn("greenhouse enabled but no boards configured, skipping")
		} else {
			boards := make([]adapter.Board, len(cfg.ATS.Boards))
			for i, b := range cfg.ATS.Boards {
				boards[i] = adapter.Board{Token: b.Token, Name: b.Name}
			}
			sources = append(sources, adapter.NewGreenhouseAdapter(boards, httpClient, limiter, logger))
			logger.Info("registered source", "source", model.SourceGreenhouse, "boards", len(boards))
		}
	}

	return sources
}

// runPipeline opens the seen-set for a single run, executes p against it and
// closes it on every exit path.
func runPipeline(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) error {
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing seen-set", "error", err)
		}
	}()
	logger.Debug("seen-set opened", "backend", store.Backend(cfg.DatabaseURL))

	summary, err := p.Run(ctx, st)
	logSummary(logger, summary)
	return err
}

func logSummary(logger *slog.Logger, s pipeline.Summary) {
	for _, f := range s.Failed() {
		logger.Warn("source failed this run", "run_id", s.RunID, "source", f.Source, "error", f.Err)
	}
	logger.Info("run summary", "run_id", s.RunID, "sources", len(s.Sources), "failed", len(s.Failed()), "new", s.NewPostings())
}

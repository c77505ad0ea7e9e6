package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amishk599/internwatch/internal/model"
)

// SourceStats counts what happened to one source's postings during a run.
type SourceStats struct {
	Source  string
	Fetched int
	Matched int
	New     int
	Err     error // non-nil when the source failed and was skipped
}

// Summary describes one completed (or aborted) run.
type Summary struct {
	RunID   string
	Sources []SourceStats
}

// NewPostings returns the number of alerts sent across all sources.
func (s Summary) NewPostings() int {
	n := 0
	for _, st := range s.Sources {
		n += st.New
	}
	return n
}

// Failed returns the sources that were skipped this run.
func (s Summary) Failed() []SourceStats {
	var failed []SourceStats
	for _, st := range s.Sources {
		if st.Err != nil {
			failed = append(failed, st)
		}
	}
	return failed
}

// Pipeline drives every source in order through
// fetch → filter → dedup → notify → record.
type Pipeline struct {
	sources  []model.Source
	filter   model.PostingFilter
	notifier model.Notifier
	logger   *slog.Logger
}

// New creates a pipeline. Sources are processed in the given order.
func New(sources []model.Source, filter model.PostingFilter, notifier model.Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		sources:  sources,
		filter:   filter,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one pass over all sources against seen. Source failures are
// contained in the summary; the returned error is non-nil only when the
// seen-set fails (wrapping model.ErrStoreUnavailable) or ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, seen model.SeenSet) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", summary.RunID)

	if err := seen.EnsureSchema(ctx); err != nil {
		return summary, fmt.Errorf("%w: ensure schema: %w", model.ErrStoreUnavailable, err)
	}

	logger.Info("run started", "sources", len(p.sources))

	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			logger.Info("run cancelled", "error", err)
			return summary, err
		}

		out := harvest(ctx, src)
		stats := SourceStats{Source: out.Source, Fetched: len(out.Postings)}
		if out.Failed() {
			stats.Err = out.Err
			summary.Sources = append(summary.Sources, stats)
			logger.Warn("source skipped", "source", out.Source, "error", out.Err)
			continue
		}

		err := p.process(ctx, logger, seen, out.Postings, &stats)
		summary.Sources = append(summary.Sources, stats)
		if err != nil {
			logger.Error("run aborted", "source", out.Source, "error", err)
			return summary, err
		}

		logger.Info("processed source",
			"source", out.Source,
			"fetched", stats.Fetched,
			"matched", stats.Matched,
			"new", stats.New,
		)
	}

	logger.Info("run finished", "new", summary.NewPostings(), "failed_sources", len(summary.Failed()))
	return summary, nil
}

// process classifies, dedups, notifies and records one source's postings.
func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, seen model.SeenSet, postings []model.Posting, stats *SourceStats) error {
	for _, posting := range postings {
		if !posting.Valid() || !p.filter.Match(posting) {
			continue
		}
		stats.Matched++

		id := posting.Identity()
		exists, err := seen.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: checking %s: %w", model.ErrStoreUnavailable, id, err)
		}
		if exists {
			logger.Debug("already seen", "identity", id)
			continue
		}

		// Notify before recording: a crash in between re-sends the alert on
		// the next run instead of losing it.
		if err := p.notifier.Notify(ctx, posting); err != nil {
			logger.Warn("notify failed", "identity", id, "error", err)
		}

		if err := seen.Record(ctx, model.RecordFor(posting)); err != nil {
			if errors.Is(err, model.ErrDuplicateRecord) {
				logger.Debug("already recorded", "identity", id)
				continue
			}
			return fmt.Errorf("%w: recording %s: %w", model.ErrStoreUnavailable, id, err)
		}
		stats.New++
	}
	return nil
}

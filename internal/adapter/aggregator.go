package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

// BroadSearchTerm is the single boolean query sent to every aggregated board.
// The role filter narrows the results afterwards.
const BroadSearchTerm = "(software OR developer OR data OR quant OR AI OR machine learning OR engineer) AND intern"

// SearchQuery holds the search parameters fixed for one aggregator run.
type SearchQuery struct {
	Term          string
	Location      string
	Country       string
	ResultsWanted int // per board
	HoursOld      int // 0 means no recency filter
}

// SearchRow is one result row as reported by a job board.
type SearchRow struct {
	ID      string // site-qualified, e.g. "li-3812345"
	Site    string
	Title   string
	Company string
	URL     string
}

// BoardSearcher runs a job search against a single board.
type BoardSearcher interface {
	Site() string
	Search(ctx context.Context, q SearchQuery) ([]SearchRow, error)
}

// AggregatorAdapter fans one broad query out to a configured set of boards
// and normalizes their result rows.
type AggregatorAdapter struct {
	sites     []string
	searchers map[string]BoardSearcher
	query     SearchQuery
	logger    *slog.Logger
}

// NewAggregatorAdapter creates an aggregator over sites. Each site name is
// resolved against the given searchers; names without a searcher are skipped
// at fetch time.
func NewAggregatorAdapter(sites []string, query SearchQuery, logger *slog.Logger, searchers ...BoardSearcher) *AggregatorAdapter {
	m := make(map[string]BoardSearcher, len(searchers))
	for _, s := range searchers {
		m[strings.ToLower(s.Site())] = s
	}
	return &AggregatorAdapter{
		sites:     sites,
		searchers: m,
		query:     query,
		logger:    logger,
	}
}

func (a *AggregatorAdapter) Name() string { return "aggregator" }

// Fetch searches each configured board in order. A failing board is logged and
// skipped; Fetch only fails when every searched board failed.
func (a *AggregatorAdapter) Fetch(ctx context.Context) ([]model.Posting, error) {
	var (
		postings  []model.Posting
		attempted int
		failed    int
		lastErr   error
	)
	for _, site := range a.sites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		searcher, ok := a.searchers[strings.ToLower(site)]
		if !ok {
			a.logger.Warn("no searcher for board, skipping", "site", site)
			continue
		}

		attempted++
		rows, err := searcher.Search(ctx, a.query)
		if err != nil {
			a.logger.Warn("board search failed", "site", site, "error", err)
			failed++
			lastErr = err
			continue
		}
		a.logger.Debug("board search complete", "site", site, "rows", len(rows))

		for _, row := range rows {
			postings = append(postings, rowToPosting(row, site))
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("all %d aggregated boards failed, last error: %w", failed, lastErr)
	}
	return postings, nil
}

func rowToPosting(row SearchRow, site string) model.Posting {
	source := row.Site
	if source == "" {
		source = strings.ToLower(site)
	}
	company := row.Company
	if company == "" {
		company = "Unknown"
	}
	return model.Posting{
		Source:     source,
		Title:      cleanText(row.Title),
		Company:    company,
		ExternalID: row.ID,
		URL:        orPlaceholder(row.URL),
	}
}

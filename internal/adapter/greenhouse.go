package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/ratelimit"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseID is a job id sent either as a JSON number or as a string.
type greenhouseID string

func (id *greenhouseID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = greenhouseID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("greenhouse job id: %w", err)
	}
	*id = greenhouseID(n.String())
	return nil
}

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          greenhouseID `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Board is one company job board on an ATS.
type Board struct {
	Token string // board token in the API path
	Name  string // display name; derived from Token when empty
}

// CompanyName returns the display form of the board's company.
func (b Board) CompanyName() string {
	if b.Name != "" {
		return b.Name
	}
	return displayName(b.Token)
}

// GreenhouseAdapter fetches jobs from the Greenhouse public boards API for a
// fixed list of company boards.
type GreenhouseAdapter struct {
	boards  []Board
	client  *http.Client
	limiter *ratelimit.HostLimiter
	logger  *slog.Logger
}

// NewGreenhouseAdapter creates an adapter that queries every board in turn.
func NewGreenhouseAdapter(boards []Board, client *http.Client, limiter *ratelimit.HostLimiter, logger *slog.Logger) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		boards:  boards,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (a *GreenhouseAdapter) Name() string { return model.SourceGreenhouse }

// Fetch queries each board and concatenates the normalized postings. A board
// that fails is logged and skipped; Fetch only fails when every board did.
func (a *GreenhouseAdapter) Fetch(ctx context.Context) ([]model.Posting, error) {
	var (
		postings []model.Posting
		failed   int
		lastErr  error
	)
	for _, b := range a.boards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		boardPostings, err := a.fetchBoard(ctx, b)
		if err != nil {
			a.logger.Warn("skipping greenhouse board", "token", b.Token, "error", err)
			failed++
			lastErr = err
			continue
		}
		a.logger.Debug("fetched greenhouse board", "token", b.Token, "jobs", len(boardPostings))
		postings = append(postings, boardPostings...)
	}

	if len(a.boards) > 0 && failed == len(a.boards) {
		return nil, fmt.Errorf("all %d greenhouse boards failed, last error: %w", failed, lastErr)
	}
	return postings, nil
}

// fetchBoard retrieves all jobs from one board and normalizes them.
func (a *GreenhouseAdapter) fetchBoard(ctx context.Context, b Board) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s/jobs", greenhouseBaseURL, b.Token)

	body, err := get(ctx, a.client, a.limiter, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", b.Token, err)
	}
	defer body.Close()

	var ghResp greenhouseResponse
	if err := json.NewDecoder(body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", b.Token, err)
	}

	company := b.CompanyName()
	postings := make([]model.Posting, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		postings = append(postings, model.Posting{
			Source:     model.SourceGreenhouse,
			Title:      strings.TrimSpace(gj.Title),
			Company:    company,
			ExternalID: string(gj.ID),
			URL:        orPlaceholder(gj.AbsoluteURL),
		})
	}
	return postings, nil
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/amishk599/internwatch/internal/model"
)

// Outcome is the result of fetching one source: either postings or the reason
// the source yielded nothing this run.
type Outcome struct {
	Source   string
	Postings []model.Posting
	Err      error
}

// Failed reports whether the source could not be harvested.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// harvest fetches src and turns both returned errors and parse panics into a
// failed Outcome, so one broken source never takes the run down.
func harvest(ctx context.Context, src model.Source) (out Outcome) {
	out.Source = src.Name()
	defer func() {
		if r := recover(); r != nil {
			out.Postings = nil
			out.Err = fmt.Errorf("source %s panicked: %v", out.Source, r)
		}
	}()

	postings, err := src.Fetch(ctx)
	if err != nil {
		out.Err = fmt.Errorf("fetching %s: %w", out.Source, err)
		return out
	}
	out.Postings = postings
	return out
}

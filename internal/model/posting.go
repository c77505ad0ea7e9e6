package model

import (
	"context"
	"time"
)

// PlaceholderURL stands in for a posting link the source could not provide.
const PlaceholderURL = "#"

// Source tags for the postings each adapter produces. Aggregator rows carry
// the board name they were found on instead (linkedin, indeed, ...).
const (
	SourceInternSG   = "internsg"
	SourceGreenhouse = "greenhouse"
)

// Posting is one normalized job listing, whichever source produced it.
type Posting struct {
	Source     string // site tag of the producing source
	Title      string // required
	Company    string // may be a placeholder
	ExternalID string // raw id, unique only within Source
	URL        string // absolute link or PlaceholderURL
}

// Valid reports whether the posting carries the fields the pipeline needs.
func (p Posting) Valid() bool {
	return p.Title != "" && p.ExternalID != ""
}

// Identity returns the global dedup key for the posting.
func (p Posting) Identity() string {
	return Identity(p.Source, p.ExternalID)
}

// Identity composes the dedup key from a source tag and the source's raw id.
// Two sources reusing the same raw id still get distinct keys.
func Identity(source, externalID string) string {
	return source + "_" + externalID
}

// SeenRecord is the persisted proof that an alert went out for an identity.
type SeenRecord struct {
	Identity  string
	Company   string
	Title     string
	Source    string
	FirstSeen time.Time // set by the store on insert
}

// RecordFor builds the SeenRecord written after a posting was announced.
func RecordFor(p Posting) SeenRecord {
	return SeenRecord{
		Identity: p.Identity(),
		Company:  p.Company,
		Title:    p.Title,
		Source:   p.Source,
	}
}

// Source produces normalized postings from one upstream listing format.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Posting, error)
}

// SeenSet is the persistent membership set of announced identities.
type SeenSet interface {
	EnsureSchema(ctx context.Context) error
	Exists(ctx context.Context, identity string) (bool, error)
	// Record inserts rec and returns ErrDuplicateRecord if the identity is
	// already present.
	Record(ctx context.Context, rec SeenRecord) error
}

// Notifier sends a one-way alert for a new posting.
type Notifier interface {
	Notify(ctx context.Context, p Posting) error
}

// PostingFilter decides whether a posting is relevant.
type PostingFilter interface {
	Match(p Posting) bool
}

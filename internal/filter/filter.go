package filter

import (
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

// DefaultBlacklist lists title terms that reject a posting outright.
var DefaultBlacklist = []string{
	"sales", "marketing", "hr", "human resources", "accounting",
	"civil", "mechanical", "electrical",
}

// DefaultWhitelist lists title terms of which at least one must appear.
var DefaultWhitelist = []string{
	"software", "swe", "developer", "programmer",
	"quant", "trading", "trader", "algorithmic", "researcher",
	"data", "ai", "machine learning", "ml", "backend", "frontend", "fullstack",
}

var defaultFilter = NewRoleFilter(nil, nil)

// IsTargetRole reports whether title names a role worth alerting on, using the
// default term lists.
func IsTargetRole(title string) bool {
	return defaultFilter.Accept(title)
}

// RoleFilter classifies postings by plain case-insensitive substring matching
// on the title. A blacklist hit always wins over a whitelist hit, and a title
// matching neither list is rejected.
type RoleFilter struct {
	blacklist []string
	whitelist []string
}

// NewRoleFilter returns a filter over the given term lists. A nil or empty list
// falls back to the corresponding default.
func NewRoleFilter(blacklist, whitelist []string) *RoleFilter {
	if len(blacklist) == 0 {
		blacklist = DefaultBlacklist
	}
	if len(whitelist) == 0 {
		whitelist = DefaultWhitelist
	}
	return &RoleFilter{
		blacklist: lowerAll(blacklist),
		whitelist: lowerAll(whitelist),
	}
}

// Match applies Accept to the posting title.
func (f *RoleFilter) Match(p model.Posting) bool {
	return f.Accept(p.Title)
}

// Accept returns true if title contains no blacklist term and at least one
// whitelist term.
func (f *RoleFilter) Accept(title string) bool {
	titleLower := strings.ToLower(title)

	for _, bad := range f.blacklist {
		if strings.Contains(titleLower, bad) {
			return false
		}
	}

	for _, good := range f.whitelist {
		if strings.Contains(titleLower, good) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

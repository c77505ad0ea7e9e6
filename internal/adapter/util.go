package adapter

import (
	"net/url"
	"strings"

	"github.com/amishk599/internwatch/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cleanText collapses whitespace (including non-breaking spaces) in scraped
// text.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// lastPathSegment returns the final non-empty path element of rawURL, or ""
// when there is none.
func lastPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return ""
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// displayName turns a board token into a company name: "stripe" -> "Stripe",
// "jane-street" -> "Jane Street".
func displayName(token string) string {
	words := strings.FieldsFunc(token, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// stripQuery drops the query string and fragment from rawURL. Tracking
// parameters change between requests and would make links look distinct.
func stripQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func orPlaceholder(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return model.PlaceholderURL
	}
	return rawURL
}

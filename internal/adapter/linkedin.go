package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internwatch/internal/ratelimit"
)

const (
	linkedInSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	linkedInMaxPages  = 10
)

// LinkedInSearcher queries LinkedIn's guest job search, which returns server
// rendered result cards without a login.
type LinkedInSearcher struct {
	client  *http.Client
	limiter *ratelimit.HostLimiter
}

// NewLinkedInSearcher creates a searcher using client for all requests.
func NewLinkedInSearcher(client *http.Client, limiter *ratelimit.HostLimiter) *LinkedInSearcher {
	return &LinkedInSearcher{client: client, limiter: limiter}
}

func (s *LinkedInSearcher) Site() string { return "linkedin" }

// Search pages through results until ResultsWanted rows are collected or a
// page comes back empty. A failure after the first page ends the search with
// the rows collected so far.
func (s *LinkedInSearcher) Search(ctx context.Context, q SearchQuery) ([]SearchRow, error) {
	want := q.ResultsWanted
	if want <= 0 {
		want = 25
	}

	seen := map[string]bool{}
	var rows []SearchRow
	start := 0
	for page := 0; page < linkedInMaxPages && len(rows) < want; page++ {
		cards, err := s.fetchPage(ctx, q, start)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			break
		}
		if len(cards) == 0 {
			break
		}
		start += len(cards)

		for _, c := range cards {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			rows = append(rows, c)
		}
	}

	if len(rows) > want {
		rows = rows[:want]
	}
	return rows, nil
}

func (s *LinkedInSearcher) fetchPage(ctx context.Context, q SearchQuery, start int) ([]SearchRow, error) {
	params := url.Values{}
	params.Set("keywords", q.Term)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	if q.HoursOld > 0 {
		params.Set("f_TPR", "r"+strconv.Itoa(q.HoursOld*3600))
	}
	params.Set("start", strconv.Itoa(start))
	pageURL := linkedInSearchURL + "?" + params.Encode()

	body, err := get(ctx, s.client, s.limiter, pageURL, browserHeader())
	if err != nil {
		return nil, fmt.Errorf("linkedin search page at %d: %w", start, err)
	}
	defer body.Close()

	cards, err := parseLinkedInCards(body)
	if err != nil {
		return nil, fmt.Errorf("linkedin search page at %d: %w", start, err)
	}
	return cards, nil
}

// parseLinkedInCards extracts result rows from a guest search results
// fragment. Cards without a job posting urn are dropped.
func parseLinkedInCards(r io.Reader) ([]SearchRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var rows []SearchRow
	doc.Find("div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		urn, _ := card.Attr("data-entity-urn")
		id := urn[strings.LastIndex(urn, ":")+1:]
		if id == "" {
			return
		}

		href, _ := card.Find("a.base-card__full-link").Attr("href")
		rows = append(rows, SearchRow{
			ID:      "li-" + id,
			Site:    "linkedin",
			Title:   cleanText(card.Find("h3.base-search-card__title").Text()),
			Company: cleanText(card.Find("h4.base-search-card__subtitle").Text()),
			URL:     stripQuery(strings.TrimSpace(href)),
		})
	})
	return rows, nil
}

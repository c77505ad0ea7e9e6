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
	indeedPageSize = 10
	indeedMaxPages = 10
)

// indeedHosts maps a search country to its Indeed domain.
var indeedHosts = map[string]string{
	"singapore":      "sg.indeed.com",
	"malaysia":       "malaysia.indeed.com",
	"usa":            "www.indeed.com",
	"us":             "www.indeed.com",
	"united states":  "www.indeed.com",
	"uk":             "uk.indeed.com",
	"united kingdom": "uk.indeed.com",
	"india":          "in.indeed.com",
	"australia":      "au.indeed.com",
	"canada":         "ca.indeed.com",
	"hong kong":      "hk.indeed.com",
}

// IndeedHost returns the Indeed domain serving country.
func IndeedHost(country string) (string, error) {
	if country == "" {
		country = "singapore"
	}
	host, ok := indeedHosts[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return "", fmt.Errorf("indeed: unsupported country %q", country)
	}
	return host, nil
}

// IndeedSearcher scrapes Indeed's server rendered search results on the
// domain of the query's country.
type IndeedSearcher struct {
	client  *http.Client
	limiter *ratelimit.HostLimiter
}

// NewIndeedSearcher creates a searcher using client for all requests.
func NewIndeedSearcher(client *http.Client, limiter *ratelimit.HostLimiter) *IndeedSearcher {
	return &IndeedSearcher{client: client, limiter: limiter}
}

func (s *IndeedSearcher) Site() string { return "indeed" }

// Search pages through results ten at a time until ResultsWanted rows are
// collected or a page adds nothing new.
func (s *IndeedSearcher) Search(ctx context.Context, q SearchQuery) ([]SearchRow, error) {
	host, err := IndeedHost(q.Country)
	if err != nil {
		return nil, err
	}
	want := q.ResultsWanted
	if want <= 0 {
		want = 25
	}

	seen := map[string]bool{}
	var rows []SearchRow
	for page := 0; page < indeedMaxPages && len(rows) < want; page++ {
		cards, err := s.fetchPage(ctx, host, q, page*indeedPageSize)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			break
		}

		added := 0
		for _, c := range cards {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			rows = append(rows, c)
			added++
		}
		// Indeed repeats the last page instead of returning an empty one.
		if added == 0 {
			break
		}
	}

	if len(rows) > want {
		rows = rows[:want]
	}
	return rows, nil
}

func (s *IndeedSearcher) fetchPage(ctx context.Context, host string, q SearchQuery, start int) ([]SearchRow, error) {
	params := url.Values{}
	params.Set("q", q.Term)
	if q.Location != "" {
		params.Set("l", q.Location)
	}
	if q.HoursOld > 0 {
		days := (q.HoursOld + 23) / 24
		params.Set("fromage", strconv.Itoa(days))
	}
	params.Set("start", strconv.Itoa(start))
	pageURL := "https://" + host + "/jobs?" + params.Encode()

	body, err := get(ctx, s.client, s.limiter, pageURL, browserHeader())
	if err != nil {
		return nil, fmt.Errorf("indeed search page at %d: %w", start, err)
	}
	defer body.Close()

	cards, err := parseIndeedCards(body, host)
	if err != nil {
		return nil, fmt.Errorf("indeed search page at %d: %w", start, err)
	}
	return cards, nil
}

// parseIndeedCards extracts result rows from an Indeed results page. Cards
// without a job key are dropped.
func parseIndeedCards(r io.Reader, host string) ([]SearchRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var rows []SearchRow
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("a[data-jk]").First()
		jk, _ := link.Attr("data-jk")
		jk = strings.TrimSpace(jk)
		if jk == "" {
			return
		}

		title, ok := link.Find("span[title]").Attr("title")
		if !ok {
			title = link.Text()
		}
		rows = append(rows, SearchRow{
			ID:      "in-" + jk,
			Site:    "indeed",
			Title:   cleanText(title),
			Company: cleanText(card.Find(`[data-testid="company-name"]`).Text()),
			URL:     "https://" + host + "/viewjob?jk=" + url.QueryEscape(jk),
		})
	})
	return rows, nil
}

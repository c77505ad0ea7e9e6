package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/ratelimit"
)

// ListingConfig describes a job index page scraped for anchors.
type ListingConfig struct {
	Name               string // source tag, e.g. "internsg"
	URL                string // category page to fetch
	PathMarker         string // substring an href must contain, e.g. "/job/"
	MinTextLength      int    // anchor text must be longer than this
	PlaceholderCompany string // the index page does not expose companies reliably
}

// ListingAdapter scrapes one site's HTML job index. It only looks at anchors,
// so Company is always the configured placeholder.
type ListingAdapter struct {
	cfg     ListingConfig
	client  *http.Client
	limiter *ratelimit.HostLimiter
}

// NewListingAdapter creates an adapter for the given listing page.
func NewListingAdapter(cfg ListingConfig, client *http.Client, limiter *ratelimit.HostLimiter) *ListingAdapter {
	return &ListingAdapter{cfg: cfg, client: client, limiter: limiter}
}

func (a *ListingAdapter) Name() string { return a.cfg.Name }

// Fetch downloads the index page and turns every job-looking anchor into a
// posting keyed by the last segment of its URL.
func (a *ListingAdapter) Fetch(ctx context.Context) ([]model.Posting, error) {
	base, err := url.Parse(a.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s listing url %q: %w", a.cfg.Name, a.cfg.URL, err)
	}

	body, err := get(ctx, a.client, a.limiter, a.cfg.URL, browserHeader())
	if err != nil {
		return nil, fmt.Errorf("%s listing fetch: %w", a.cfg.Name, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%s listing parse html: %w", a.cfg.Name, err)
	}

	seen := map[string]bool{}
	var postings []model.Posting
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !strings.Contains(href, a.cfg.PathMarker) {
			return
		}

		text := cleanText(s.Text())
		if utf8.RuneCountInString(text) <= a.cfg.MinTextLength {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()

		slug := lastPathSegment(abs)
		if slug == "" || seen[slug] {
			return
		}
		seen[slug] = true

		postings = append(postings, model.Posting{
			Source:     a.cfg.Name,
			Title:      text,
			Company:    a.cfg.PlaceholderCompany,
			ExternalID: slug,
			URL:        abs,
		})
	})

	return postings, nil
}

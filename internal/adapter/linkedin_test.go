package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedInCard(id int, title, company string) string {
	return fmt.Sprintf(`<li>
  <div class="base-card relative w-full base-search-card base-search-card--link job-search-card" data-entity-urn="urn:li:jobPosting:%d">
    <a class="base-card__full-link absolute" href="https://sg.linkedin.com/jobs/view/intern-%d?position=1&amp;refId=abc">
      <span class="sr-only">%s</span>
    </a>
    <div class="base-search-card__info">
      <h3 class="base-search-card__title">
        %s
      </h3>
      <h4 class="base-search-card__subtitle">
        <a class="hidden-nested-link" href="https://sg.linkedin.com/company/x">%s</a>
      </h4>
    </div>
  </div>
</li>`, id, id, title, title, company)
}

func TestParseLinkedInCards(t *testing.T) {
	html := linkedInCard(3812345, "Software Engineer Intern", "Acme Pte Ltd") +
		`<li><div class="base-search-card">no urn here</div></li>`

	rows, err := parseLinkedInCards(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "li-3812345", r.ID)
	assert.Equal(t, "linkedin", r.Site)
	assert.Equal(t, "Software Engineer Intern", r.Title)
	assert.Equal(t, "Acme Pte Ltd", r.Company)
	assert.Equal(t, "https://sg.linkedin.com/jobs/view/intern-3812345", r.URL)
}

func TestLinkedInSearch_PagesUntilWanted(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs-guest/jobs/api/seeMoreJobPostings/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, BroadSearchTerm, q.Get("keywords"))
		assert.Equal(t, "Singapore", q.Get("location"))
		assert.Equal(t, "r86400", q.Get("f_TPR"))

		start := q.Get("start")
		starts = append(starts, start)
		n, _ := strconv.Atoi(start)

		var b strings.Builder
		for i := 0; i < 2; i++ {
			b.WriteString(linkedInCard(1000+n+i, "Data Intern", "Beta"))
		}
		w.Write([]byte(b.String()))
	}))
	defer srv.Close()

	s := NewLinkedInSearcher(redirectClient(srv), nil)
	rows, err := s.Search(context.Background(), SearchQuery{
		Term:          BroadSearchTerm,
		Location:      "Singapore",
		ResultsWanted: 5,
		HoursOld:      24,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, []string{"0", "2", "4"}, starts)
	assert.Equal(t, "li-1000", rows[0].ID)
	assert.Equal(t, "li-1004", rows[4].ID)
}

func TestLinkedInSearch_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("start") == "0" {
			w.Write([]byte(linkedInCard(1, "Quant Intern", "Gamma")))
			return
		}
		w.Write([]byte(""))
	}))
	defer srv.Close()

	s := NewLinkedInSearcher(redirectClient(srv), nil)
	rows, err := s.Search(context.Background(), SearchQuery{Term: "x", ResultsWanted: 30})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, calls)
}

func TestLinkedInSearch_FirstPageErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewLinkedInSearcher(redirectClient(srv), nil)
	_, err := s.Search(context.Background(), SearchQuery{Term: "x", ResultsWanted: 10})
	require.Error(t, err)
}

func TestLinkedInSearch_LaterPageErrorKeepsRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "0" {
			w.Write([]byte(linkedInCard(1, "Quant Intern", "Gamma")))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewLinkedInSearcher(redirectClient(srv), nil)
	rows, err := s.Search(context.Background(), SearchQuery{Term: "x", ResultsWanted: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

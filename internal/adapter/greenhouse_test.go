package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGreenhouseFetch_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 55,
				"title": "Backend Engineering Intern",
				"location": {"name": "Singapore"},
				"absolute_url": "https://x/55",
				"updated_at": "2026-02-13T10:00:00Z"
			},
			{
				"id": 67890,
				"title": "  Data Science Intern ",
				"absolute_url": ""
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/boards/stripe/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter([]Board{{Token: "stripe"}}, redirectClient(srv), nil, discardLogger())

	postings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.ExternalID != "55" {
		t.Errorf("expected ExternalID 55, got %s", p.ExternalID)
	}
	if p.Company != "Stripe" {
		t.Errorf("expected company Stripe, got %s", p.Company)
	}
	if p.Title != "Backend Engineering Intern" {
		t.Errorf("expected title Backend Engineering Intern, got %s", p.Title)
	}
	if p.URL != "https://x/55" {
		t.Errorf("expected URL https://x/55, got %s", p.URL)
	}
	if p.Source != "greenhouse" {
		t.Errorf("expected source greenhouse, got %s", p.Source)
	}
	if p.Identity() != "greenhouse_55" {
		t.Errorf("expected identity greenhouse_55, got %s", p.Identity())
	}

	if postings[1].Title != "Data Science Intern" {
		t.Errorf("expected trimmed title, got %q", postings[1].Title)
	}
	if postings[1].URL != "#" {
		t.Errorf("expected placeholder URL, got %q", postings[1].URL)
	}
}

func TestGreenhouseFetch_ConfiguredNameWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": [{"id": 1, "title": "Quant Intern", "absolute_url": "https://x/1"}]}`))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter([]Board{{Token: "janestreet", Name: "Jane Street"}}, redirectClient(srv), nil, discardLogger())
	postings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 || postings[0].Company != "Jane Street" {
		t.Fatalf("unexpected postings: %+v", postings)
	}
}

func TestGreenhouseFetch_StringAndNumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": [
			{"id": "55", "title": "Backend Engineering Intern", "absolute_url": "https://x/55"},
			{"id": 4012345678901, "title": "Platform Intern", "absolute_url": "https://x/4012345678901"}
		]}`))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter([]Board{{Token: "stripe"}}, redirectClient(srv), nil, discardLogger())
	postings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if postings[0].ExternalID != "55" || postings[0].Identity() != "greenhouse_55" {
		t.Errorf("string id: got ExternalID %q identity %q", postings[0].ExternalID, postings[0].Identity())
	}
	if postings[1].ExternalID != "4012345678901" {
		t.Errorf("numeric id: got ExternalID %q", postings[1].ExternalID)
	}
}

func TestGreenhouseFetch_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs": []}`))
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter([]Board{{Token: "empty-co"}}, redirectClient(srv), nil, discardLogger())

	postings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected 0 postings, got %d", len(postings))
	}
}

func TestGreenhouseFetch_FailingBoardSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/boards/gone/jobs":
			w.WriteHeader(http.StatusNotFound)
		case "/v1/boards/broken/jobs":
			w.Write([]byte(`{not valid json`))
		default:
			w.Write([]byte(`{"jobs": [{"id": 7, "title": "Software Intern", "absolute_url": "https://x/7"}]}`))
		}
	}))
	defer srv.Close()

	boards := []Board{{Token: "gone"}, {Token: "broken"}, {Token: "acme"}}
	a := NewGreenhouseAdapter(boards, redirectClient(srv), nil, discardLogger())

	postings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting from the healthy board, got %d", len(postings))
	}
	if postings[0].Company != "Acme" {
		t.Errorf("expected company Acme, got %s", postings[0].Company)
	}
}

func TestGreenhouseFetch_AllBoardsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewGreenhouseAdapter([]Board{{Token: "a"}, {Token: "b"}}, redirectClient(srv), nil, discardLogger())

	if _, err := a.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when every board fails, got nil")
	}
}

func TestGreenhouseFetch_CancelledContext(t *testing.T) {
	a := NewGreenhouseAdapter([]Board{{Token: "acme"}}, http.DefaultClient, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Fetch(ctx); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

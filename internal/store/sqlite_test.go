package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/internwatch/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func record(identity string) model.SeenRecord {
	return model.SeenRecord{Identity: identity, Company: "Stripe", Title: "Backend Engineering Intern", Source: "greenhouse"}
}

func TestRecordThenExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, record("greenhouse_55")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	seen, err := s.Exists(ctx, "greenhouse_55")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !seen {
		t.Error("expected Exists to return true after Record")
	}
}

func TestExistsUnknownReturnsFalse(t *testing.T) {
	s := newTestStore(t)

	seen, err := s.Exists(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if seen {
		t.Error("expected Exists to return false for unknown identity")
	}
}

func TestRecordDuplicateReturnsErrDuplicateRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, record("linkedin_li-1")); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	err := s.Record(ctx, record("linkedin_li-1"))
	if !errors.Is(err, model.ErrDuplicateRecord) {
		t.Fatalf("second Record = %v, want ErrDuplicateRecord", err)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Record(ctx, record("internsg_data-intern")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	seen, err := s.Exists(ctx, "internsg_data-intern")
	if err != nil || !seen {
		t.Fatalf("record lost after EnsureSchema: seen=%v err=%v", seen, err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "seen.db")

	first, err := Open(ctx, "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := first.Record(ctx, record("greenhouse_55")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	first.Close()

	second, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if err := second.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema after reopen: %v", err)
	}

	seen, err := second.Exists(ctx, "greenhouse_55")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !seen {
		t.Error("expected record to survive reopening the database")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(
		"INSERT INTO seen_jobs (job_id, company, title, site, created_at) VALUES (?, ?, ?, ?, ?)",
		"greenhouse_1", "Old Co", "Data Intern", "greenhouse", time.Now().Add(-48*time.Hour).UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		t.Fatalf("inserting old record: %v", err)
	}
	if err := s.Record(ctx, record("greenhouse_2")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	recs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Identity != "greenhouse_2" || recs[1].Identity != "greenhouse_1" {
		t.Errorf("unexpected order: %s, %s", recs[0].Identity, recs[1].Identity)
	}
	if recs[1].Company != "Old Co" || recs[1].Source != "greenhouse" {
		t.Errorf("unexpected record: %+v", recs[1])
	}
	if recs[0].FirstSeen.IsZero() {
		t.Error("expected FirstSeen to be populated")
	}

	limited, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestBackend(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost/db":   "postgres",
		"postgresql://u:p@localhost/db": "postgres",
		"sqlite://seen.db":              "sqlite",
		"seen_jobs.db":                  "sqlite",
	}
	for dsn, want := range tests {
		if got := Backend(dsn); got != want {
			t.Errorf("Backend(%q) = %q, want %q", dsn, got, want)
		}
	}
}

func TestNopStoreNeverRemembers(t *testing.T) {
	s := NewNopStore()
	ctx := context.Background()

	if err := s.Record(ctx, record("greenhouse_55")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	seen, err := s.Exists(ctx, "greenhouse_55")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if seen {
		t.Error("NopStore should never report a record as seen")
	}
}

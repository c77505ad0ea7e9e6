package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/amishk599/internwatch/internal/model"
)

func TestIsPgDuplicate(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !isPgDuplicate(dup) {
		t.Error("expected 23505 to be reported as duplicate")
	}
	if isPgDuplicate(&pgconn.PgError{Code: "23502"}) {
		t.Error("not-null violation is not a duplicate")
	}
	if isPgDuplicate(errors.New("connection refused")) {
		t.Error("plain error is not a duplicate")
	}
	if isPgDuplicate(nil) {
		t.Error("nil is not a duplicate")
	}
}

// newPostgresTestStore connects to INTERNWATCH_TEST_POSTGRES_DSN, skipping the
// test when it is unset.
func newPostgresTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("INTERNWATCH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INTERNWATCH_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func TestPostgresRecordExistsDuplicate(t *testing.T) {
	s := newPostgresTestStore(t)
	ctx := context.Background()

	identity := fmt.Sprintf("test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		s.pool.Exec(context.Background(), "DELETE FROM seen_jobs WHERE job_id = $1", identity)
	})

	seen, err := s.Exists(ctx, identity)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if seen {
		t.Fatal("fresh identity reported as seen")
	}

	if err := s.Record(ctx, record(identity)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if seen, err = s.Exists(ctx, identity); err != nil || !seen {
		t.Fatalf("Exists after Record: seen=%v err=%v", seen, err)
	}

	if err := s.Record(ctx, record(identity)); !errors.Is(err, model.ErrDuplicateRecord) {
		t.Fatalf("second Record = %v, want ErrDuplicateRecord", err)
	}

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

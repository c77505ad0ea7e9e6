package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/amishk599/internwatch/internal/model"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS seen_jobs (
	job_id     TEXT PRIMARY KEY,
	company    TEXT,
	title      TEXT,
	site       TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps the seen-set in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath. The schema is
// not touched until EnsureSchema.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// EnsureSchema creates the seen_jobs table if it does not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating seen_jobs table: %w", err)
	}
	return nil
}

// Exists returns true if the identity has already been recorded.
func (s *SQLiteStore) Exists(ctx context.Context, identity string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM seen_jobs WHERE job_id = ?", identity).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", identity, err)
	}
	return true, nil
}

// Record inserts rec. An existing identity yields model.ErrDuplicateRecord.
func (s *SQLiteStore) Record(ctx context.Context, rec model.SeenRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO seen_jobs (job_id, company, title, site) VALUES (?, ?, ?, ?)",
		rec.Identity, rec.Company, rec.Title, rec.Source,
	)
	if isSQLiteDuplicate(err) {
		return fmt.Errorf("recording %s: %w", rec.Identity, model.ErrDuplicateRecord)
	}
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.Identity, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]model.SeenRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, COALESCE(company, ''), COALESCE(title, ''), COALESCE(site, ''), created_at
		 FROM seen_jobs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent seen jobs: %w", err)
	}
	defer rows.Close()

	var out []model.SeenRecord
	for rows.Next() {
		var (
			rec       model.SeenRecord
			createdAt time.Time
		)
		if err := rows.Scan(&rec.Identity, &rec.Company, &rec.Title, &rec.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning seen job: %w", err)
		}
		rec.FirstSeen = createdAt
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing recent seen jobs: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isSQLiteDuplicate(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// The primary key is the only constraint on seen_jobs; match the base
	// code so both plain and extended result codes are covered.
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amishk599/internwatch/internal/model"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS seen_jobs (
	job_id     TEXT PRIMARY KEY,
	company    TEXT,
	title      TEXT,
	site       TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// PostgresStore keeps the seen-set in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database at connString and verifies it is
// reachable.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	// One run issues one statement at a time.
	cfg.MaxConns = 2
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	// Hosted poolers in transaction mode reject named prepared statements.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the seen_jobs table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("creating seen_jobs table: %w", err)
	}
	return nil
}

// Exists returns true if the identity has already been recorded.
func (s *PostgresStore) Exists(ctx context.Context, identity string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM seen_jobs WHERE job_id = $1)", identity).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", identity, err)
	}
	return exists, nil
}

// Record inserts rec. An existing identity yields model.ErrDuplicateRecord.
func (s *PostgresStore) Record(ctx context.Context, rec model.SeenRecord) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO seen_jobs (job_id, company, title, site) VALUES ($1, $2, $3, $4)",
		rec.Identity, rec.Company, rec.Title, rec.Source,
	)
	if isPgDuplicate(err) {
		return fmt.Errorf("recording %s: %w", rec.Identity, model.ErrDuplicateRecord)
	}
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.Identity, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]model.SeenRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id, COALESCE(company, ''), COALESCE(title, ''), COALESCE(site, ''), created_at
		 FROM seen_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent seen jobs: %w", err)
	}
	defer rows.Close()

	var out []model.SeenRecord
	for rows.Next() {
		var rec model.SeenRecord
		if err := rows.Scan(&rec.Identity, &rec.Company, &rec.Title, &rec.Source, &rec.FirstSeen); err != nil {
			return nil, fmt.Errorf("scanning seen job: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing recent seen jobs: %w", err)
	}
	return out, nil
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isPgDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

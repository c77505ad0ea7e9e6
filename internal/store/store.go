package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

// Store is a seen-set backend owned by one pipeline run.
type Store interface {
	model.SeenSet
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]model.SeenRecord, error)
	Close() error
}

// Open connects to the seen-set named by dsn. postgres:// and postgresql://
// URLs use Postgres; "sqlite://path" or a bare file path uses SQLite.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn)
	case dsn == "":
		return nil, fmt.Errorf("opening seen-set: empty database url")
	default:
		return NewSQLiteStore(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	}
}

// Backend names the store kind dsn selects, for logging.
func Backend(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

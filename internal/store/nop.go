package store

import (
	"context"

	"github.com/amishk599/internwatch/internal/model"
)

// NopStore is a no-op store used in dry-run mode. It never records anything,
// so every posting appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) EnsureSchema(context.Context) error                      { return nil }
func (s *NopStore) Exists(context.Context, string) (bool, error)            { return false, nil }
func (s *NopStore) Record(context.Context, model.SeenRecord) error          { return nil }
func (s *NopStore) Recent(context.Context, int) ([]model.SeenRecord, error) { return nil, nil }
func (s *NopStore) Close() error                                            { return nil }

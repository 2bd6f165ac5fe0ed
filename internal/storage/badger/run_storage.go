package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jzhengTT/compatibility-matrix/internal/interfaces"
	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// RunStorage persists conversion run summaries.
type RunStorage struct {
	store *badgerhold.Store
}

var _ interfaces.RunStorage = (*RunStorage)(nil)

// NewRunStorage wraps an open store.
func NewRunStorage(store *badgerhold.Store) *RunStorage {
	return &RunStorage{store: store}
}

// SaveRun inserts or replaces a run summary keyed by run ID.
func (s *RunStorage) SaveRun(ctx context.Context, run *models.RunSummary) error {
	if err := s.store.Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns up to limit summaries, most recent first. limit <= 0
// returns all.
func (s *RunStorage) ListRuns(ctx context.Context, limit int) ([]*models.RunSummary, error) {
	var runs []*models.RunSummary
	if err := s.store.Find(&runs, nil); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close releases the underlying store.
func (s *RunStorage) Close() error {
	return s.store.Close()
}

package interfaces

import (
	"context"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// RunStorage persists conversion run summaries for operator visibility.
type RunStorage interface {
	SaveRun(ctx context.Context, run *models.RunSummary) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*models.RunSummary, error)
}

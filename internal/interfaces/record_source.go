// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// RecordSource fetches the raw compatibility records from an upstream
// collaborator (relational database, spreadsheet, ...). Implementations skip
// malformed rows rather than failing the fetch.
type RecordSource interface {
	// Name identifies the source in document metadata and run summaries.
	Name() string

	// Fetch returns all usable records. An empty slice is a valid result;
	// the pipeline treats it as "nothing supported", not as an error.
	Fetch(ctx context.Context) ([]models.RawRecord, error)
}

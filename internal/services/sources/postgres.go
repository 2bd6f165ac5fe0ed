// Package sources provides the upstream record sources: a PostgreSQL
// benchmark database and an Excel export. Both yield the same RawRecord
// stream so the rest of the pipeline is source-agnostic.
package sources

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

//go:embed queries/fetch_compatibility_data.sql
var fetchCompatibilityDataQuery string

// PostgresSource fetches benchmark records from the results database.
type PostgresSource struct {
	db     *sql.DB
	logger arbor.ILogger
}

// OpenPostgres connects to the database described by dsn and verifies the
// connection before returning a source.
func OpenPostgres(ctx context.Context, dsn string, logger arbor.ILogger) (*PostgresSource, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return NewPostgresSource(db, logger), nil
}

// NewPostgresSource wraps an existing connection pool. Used by OpenPostgres
// and by tests that inject a mock.
func NewPostgresSource(db *sql.DB, logger arbor.ILogger) *PostgresSource {
	return &PostgresSource{db: db, logger: logger}
}

// Name identifies this source in document metadata and run summaries.
func (s *PostgresSource) Name() string {
	return "database"
}

// Fetch runs the benchmark query and returns one record per row. Rows with
// an empty model or device identifier are skipped; NULL metric values are
// preserved as nil so extraction can reject them per-metric.
func (s *PostgresSource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, fetchCompatibilityDataQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark results: %w", err)
	}
	defer rows.Close()

	var records []models.RawRecord
	skipped := 0
	for rows.Next() {
		var (
			modelName  sql.NullString
			deviceName sql.NullString
			metricName sql.NullString
			value      sql.NullFloat64
		)
		if err := rows.Scan(&modelName, &deviceName, &metricName, &value); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark row: %w", err)
		}

		if modelName.String == "" || deviceName.String == "" {
			skipped++
			continue
		}

		rec := models.RawRecord{
			ModelName:  modelName.String,
			DeviceName: deviceName.String,
			MetricName: metricName.String,
		}
		if value.Valid {
			v := value.Float64
			rec.MetricValue = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while reading benchmark rows: %w", err)
	}

	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Msg("Skipped rows with missing identifiers")
	}
	s.logger.Info().Int("records", len(records)).Msg("Fetched benchmark records from database")

	return records, nil
}

// Close releases the underlying connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

package sources

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/xuri/excelize/v2"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// Column headers expected in the first row of the sheet. Matching is
// case-insensitive and order-independent.
const (
	headerModel  = "ml_model_name"
	headerDevice = "device_name"
	headerMetric = "metric_name"
	headerValue  = "metric_value"
)

// ExcelSource fetches benchmark records from a spreadsheet export. The sheet
// carries the same four columns as the database query.
type ExcelSource struct {
	path   string
	sheet  string
	logger arbor.ILogger
}

// NewExcelSource builds a source reading from path. sheet may be empty, in
// which case the workbook's first sheet is used.
func NewExcelSource(path, sheet string, logger arbor.ILogger) *ExcelSource {
	return &ExcelSource{path: path, sheet: sheet, logger: logger}
}

// Name identifies this source by the workbook file name.
func (s *ExcelSource) Name() string {
	return filepath.Base(s.path)
}

// Fetch reads the sheet and returns one record per data row. Rows with an
// empty model or device cell are skipped; an empty or non-numeric value cell
// yields a nil metric value.
func (s *ExcelSource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	var records []models.RawRecord
	skipped := 0
	for _, row := range rows[1:] {
		modelName := cell(row, cols[headerModel])
		deviceName := cell(row, cols[headerDevice])
		if modelName == "" || deviceName == "" {
			skipped++
			continue
		}

		rec := models.RawRecord{
			ModelName:  modelName,
			DeviceName: deviceName,
			MetricName: cell(row, cols[headerMetric]),
		}
		if raw := cell(row, cols[headerValue]); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				rec.MetricValue = &v
			}
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Msg("Skipped rows with missing identifiers")
	}
	s.logger.Info().
		Str("workbook", s.path).
		Str("sheet", sheet).
		Int("records", len(records)).
		Msg("Fetched benchmark records from workbook")

	return records, nil
}

func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, 4)
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{headerModel, headerDevice, headerMetric, headerValue} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

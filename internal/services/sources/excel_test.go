package sources

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
)

func writeTestWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "compatibility.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelSourceFetch(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"ml_model_name", "device_name", "metric_name", "metric_value"},
		{"resnet-50", "n150", "mean_tps", 4100.0},
		{"resnet-50", "n150", "accuracy_check", 1},
		{"vit", "t3k", "ttft", ""},
		{"", "n150", "mean_tps", 5.0},
	})

	src := NewExcelSource(path, "", common.GetLogger())
	assert.Equal(t, "compatibility.xlsx", src.Name())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)

	assert.Equal(t, "resnet-50", records[0].ModelName)
	assert.Equal(t, "n150", records[0].DeviceName)
	assert.Equal(t, "mean_tps", records[0].MetricName)
	require.NotNil(t, records[0].MetricValue)
	assert.Equal(t, 4100.0, *records[0].MetricValue)

	// Empty value cell yields a nil metric value.
	assert.Equal(t, "vit", records[2].ModelName)
	assert.Nil(t, records[2].MetricValue)
}

func TestExcelSourceFetchHeaderOrderIndependent(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"metric_value", "Device_Name", "ML_MODEL_NAME", "metric_name"},
		{12.5, "n150", "resnet-50", "mean_ttft_ms"},
	})

	src := NewExcelSource(path, "", common.GetLogger())
	records, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "resnet-50", records[0].ModelName)
	assert.Equal(t, "n150", records[0].DeviceName)
	assert.Equal(t, "mean_ttft_ms", records[0].MetricName)
	require.NotNil(t, records[0].MetricValue)
	assert.Equal(t, 12.5, *records[0].MetricValue)
}

func TestExcelSourceFetchMissingColumn(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"ml_model_name", "device_name", "metric_name"},
		{"resnet-50", "n150", "mean_tps"},
	})

	src := NewExcelSource(path, "", common.GetLogger())
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metric_value")
}

func TestExcelSourceFetchMissingFile(t *testing.T) {
	src := NewExcelSource(filepath.Join(t.TempDir(), "missing.xlsx"), "", common.GetLogger())
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
	"github.com/jzhengTT/compatibility-matrix/internal/models"
	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
)

func testRegistry(t *testing.T) *registry.Service {
	t.Helper()
	reg, err := registry.New(
		[]models.DeviceConfig{
			{Name: "n150", Hardware: "n150 (Wormhole)"},
			{Name: "t3k", Hardware: "Loudbox (Wormhole)"},
		},
		[]models.ModelConfig{
			{Name: "resnet-50", DisplayName: "ResNet-50", Family: "ResNet", Tasks: []string{"Vision", "Image-Classification"}},
			{Name: "Mistral-7B-Instruct-v0.3", DisplayName: "Mistral 7B Instruct v0.3", Family: "Mistral", Tasks: []string{"LLM", "Text-Generation"}},
		},
		common.GetLogger(),
	)
	require.NoError(t, err)
	return reg
}

func TestAggregateBuildsCompleteMatrix(t *testing.T) {
	reg := testRegistry(t)
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	records := []models.RawRecord{
		{ModelName: "resnet-50", DeviceName: "n150", MetricName: "mean_tps", MetricValue: fv(4100)},
	}

	doc, totals := Aggregate(records, reg, "database", now)

	assert.Equal(t, "2026-03-15T10:30:00Z", doc.Metadata.GeneratedAt)
	assert.Equal(t, "database", doc.Metadata.Source)
	assert.Equal(t, "1.0", doc.Metadata.SchemaVersion)

	// Every registry model appears with every registry device, supported
	// or not.
	require.Len(t, doc.Models, 2)
	for _, m := range doc.Models {
		assert.Len(t, m.Compatibility, 2)
	}

	assert.Equal(t, 1, totals.Supported)
	assert.Equal(t, 3, totals.NotSupported)
}

func TestAggregateSortsModelsByID(t *testing.T) {
	reg := testRegistry(t)

	doc, _ := Aggregate(nil, reg, "database", time.Now())

	require.Len(t, doc.Models, 2)
	assert.Equal(t, "mistral-7b-instruct-v0-3", doc.Models[0].ID)
	assert.Equal(t, "resnet-50", doc.Models[1].ID)
}

func TestAggregateSupportedEntryCarriesMetrics(t *testing.T) {
	reg := testRegistry(t)

	records := []models.RawRecord{
		{ModelName: "resnet-50", DeviceName: "n150", MetricName: "mean_tps", MetricValue: fv(4100)},
		{ModelName: "resnet-50", DeviceName: "n150", MetricName: "accuracy_check", MetricValue: fv(1)},
	}

	doc, _ := Aggregate(records, reg, "database", time.Now())

	var resnet *models.ModelEntry
	for i := range doc.Models {
		if doc.Models[i].ID == "resnet-50" {
			resnet = &doc.Models[i]
		}
	}
	require.NotNil(t, resnet)

	// Devices appear in registry order.
	require.Len(t, resnet.Compatibility, 2)
	n150 := resnet.Compatibility[0]
	t3k := resnet.Compatibility[1]

	assert.Equal(t, "n150 (Wormhole)", n150.Hardware)
	assert.True(t, n150.Supported())
	assert.Equal(t, models.StatusSupported, n150.Status)
	assert.Equal(t, map[string]any{"mean_tps": 4100.0, "accuracy_check": true}, n150.Metrics)

	assert.Equal(t, "Loudbox (Wormhole)", t3k.Hardware)
	assert.Equal(t, models.StatusNotSupported, t3k.Status)
	assert.Nil(t, t3k.Metrics)
}

func TestAggregateEmptyRecords(t *testing.T) {
	reg := testRegistry(t)

	doc, totals := Aggregate(nil, reg, "database", time.Now())

	require.Len(t, doc.Models, 2)
	for _, m := range doc.Models {
		for _, c := range m.Compatibility {
			assert.Equal(t, models.StatusNotSupported, c.Status)
			assert.Nil(t, c.Metrics)
		}
	}
	assert.Equal(t, 0, totals.Supported)
	assert.Equal(t, 4, totals.NotSupported)
}

func TestAggregateIgnoresUnknownIdentifiers(t *testing.T) {
	reg := testRegistry(t)

	records := []models.RawRecord{
		{ModelName: "brand-new-model", DeviceName: "n150", MetricName: "mean_tps", MetricValue: fv(10)},
		{ModelName: "resnet-50", DeviceName: "unknown-device", MetricName: "mean_tps", MetricValue: fv(10)},
	}

	doc, totals := Aggregate(records, reg, "database", time.Now())

	require.Len(t, doc.Models, 2)
	assert.Equal(t, 0, totals.Supported)
}

func TestAggregateDeterministicOutput(t *testing.T) {
	reg := testRegistry(t)
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	records := []models.RawRecord{
		{ModelName: "resnet-50", DeviceName: "n150", MetricName: "mean_tps", MetricValue: fv(4100)},
		{ModelName: "Mistral-7B-Instruct-v0.3", DeviceName: "t3k", MetricName: "ttft", MetricValue: fv(0.4)},
	}

	docA, _ := Aggregate(records, reg, "database", now)
	docB, _ := Aggregate(records, reg, "database", now)

	bytesA, err := Marshal(docA)
	require.NoError(t, err)
	bytesB, err := Marshal(docB)
	require.NoError(t, err)

	assert.Equal(t, bytesA, bytesB)
}

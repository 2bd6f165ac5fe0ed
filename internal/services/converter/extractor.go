// Package converter implements the conversion pipeline: raw records are
// extracted into typed metrics, aggregated into a compatibility document
// against the registry, and serialized to canonical JSON. Unknown identifiers
// are detected and reported alongside, never included in the document.
package converter

import (
	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// ExtractMetrics returns the coerced metric values recorded for one
// (model, device) pair. Rows with other identifiers, unaccepted metric names,
// or null values are skipped. The accuracy check metric coerces to a boolean
// (true iff non-zero); all other metrics coerce to float64.
//
// An empty result is the normal "not supported" case, not a failure.
func ExtractMetrics(records []models.RawRecord, modelName, deviceName string) map[string]any {
	metrics := make(map[string]any)

	for _, rec := range records {
		if rec.ModelName != modelName || rec.DeviceName != deviceName {
			continue
		}
		if rec.MetricValue == nil || !models.IsAcceptedMetric(rec.MetricName) {
			continue
		}

		if rec.MetricName == models.MetricAccuracyCheck {
			metrics[rec.MetricName] = *rec.MetricValue != 0
		} else {
			metrics[rec.MetricName] = *rec.MetricValue
		}
	}

	return metrics
}

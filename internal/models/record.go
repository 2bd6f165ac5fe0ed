package models

// Metric names accepted by the conversion pipeline. Records carrying any
// other metric name are ignored during extraction.
const (
	MetricMeanTTFTMs    = "mean_ttft_ms"
	MetricTTFT          = "ttft"
	MetricMeanTPS       = "mean_tps"
	MetricAccuracyCheck = "accuracy_check"
)

var acceptedMetrics = map[string]struct{}{
	MetricMeanTTFTMs:    {},
	MetricTTFT:          {},
	MetricMeanTPS:       {},
	MetricAccuracyCheck: {},
}

// IsAcceptedMetric reports whether the pipeline includes this metric name.
func IsAcceptedMetric(name string) bool {
	_, ok := acceptedMetrics[name]
	return ok
}

// RawRecord is one observed fact from an upstream source: a single metric
// value for a (model, device) pair. MetricValue is nil when the source
// reported a null value.
type RawRecord struct {
	ModelName   string
	DeviceName  string
	MetricName  string
	MetricValue *float64
}

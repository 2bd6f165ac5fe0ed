package converter

import (
	"sort"
	"time"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
)

// Totals counts supported / not-supported pairs across one aggregation.
// Reported for operator visibility only, never embedded in the document.
type Totals struct {
	Supported    int
	NotSupported int
}

// Aggregate builds the compatibility document for every configured model ×
// configured device pair. A pair is Supported iff extraction yields at least
// one metric; metrics are attached only when present. Identifiers absent from
// the registry never appear in the output.
//
// An empty record set is a defined case: every pair comes out Not Supported
// and the document is still structurally complete.
func Aggregate(records []models.RawRecord, reg *registry.Service, source string, now time.Time) (*models.CompatibilityDocument, Totals) {
	var totals Totals

	devices := reg.Devices()
	entries := make([]models.ModelEntry, 0, len(reg.Models()))

	for _, mc := range reg.Models() {
		entry := models.ModelEntry{
			ID:            models.ModelID(mc.Name),
			DisplayName:   mc.DisplayName,
			Family:        mc.Family,
			Tasks:         mc.Tasks,
			Compatibility: make([]models.CompatibilityEntry, 0, len(devices)),
		}

		for _, dc := range devices {
			metrics := ExtractMetrics(records, mc.Name, dc.Name)

			ce := models.CompatibilityEntry{
				Hardware: dc.Hardware,
				Status:   models.StatusNotSupported,
			}
			if len(metrics) > 0 {
				ce.Status = models.StatusSupported
				ce.Metrics = metrics
				totals.Supported++
			} else {
				totals.NotSupported++
			}

			entry.Compatibility = append(entry.Compatibility, ce)
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	doc := &models.CompatibilityDocument{
		Metadata: models.DocumentMetadata{
			GeneratedAt:   now.UTC().Format(models.GeneratedAtFormat),
			Source:        source,
			SchemaVersion: models.SchemaVersion,
		},
		Models: entries,
	}

	return doc, totals
}

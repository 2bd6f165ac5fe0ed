package models

// Compatibility status values. A (model, device) pair is Supported when at
// least one accepted, non-null metric exists for it.
const (
	StatusSupported    = "Supported"
	StatusNotSupported = "Not Supported"
)

// SchemaVersion is stamped into every generated document.
const SchemaVersion = "1.0"

// GeneratedAtFormat renders UTC timestamps with second precision and a
// literal Z suffix, e.g. 2026-01-02T15:04:05Z.
const GeneratedAtFormat = "2006-01-02T15:04:05Z"

// CompatibilityEntry describes the support status of one model on one
// configured device. Metrics is only present when Status is Supported.
type CompatibilityEntry struct {
	Hardware string         `json:"hardware"`
	Status   string         `json:"status"`
	Metrics  map[string]any `json:"metrics,omitempty"`
}

// ModelEntry is one model with its compatibility across all configured
// devices, in registry order.
type ModelEntry struct {
	ID            string               `json:"id"`
	DisplayName   string               `json:"display_name"`
	Family        string               `json:"family"`
	Tasks         []string             `json:"tasks"`
	Compatibility []CompatibilityEntry `json:"compatibility"`
}

// DocumentMetadata identifies when and from what source a document was built.
type DocumentMetadata struct {
	GeneratedAt   string `json:"generated_at"`
	Source        string `json:"source"`
	SchemaVersion string `json:"schema_version"`
}

// CompatibilityDocument is the output artifact served to the front-end.
// Models are sorted ascending by ID.
type CompatibilityDocument struct {
	Metadata DocumentMetadata `json:"metadata"`
	Models   []ModelEntry     `json:"models"`
}

// Supported reports whether this entry carries usable metrics.
func (e CompatibilityEntry) Supported() bool {
	return e.Status == StatusSupported
}

package models

import "time"

// RunSummary records the outcome of one conversion run for operator review.
// Persisted best-effort; a failed save never affects the run itself.
type RunSummary struct {
	ID           string    `json:"id" badgerhold:"key"`
	Source       string    `json:"source"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	Records      int       `json:"records"`
	Supported    int       `json:"supported"`
	NotSupported int       `json:"not_supported"`
	NewModels    []string  `json:"new_models,omitempty"`
	NewDevices   []string  `json:"new_devices,omitempty"`
	OutputPath   string    `json:"output_path"`
	Uploaded     bool      `json:"uploaded"`
	Error        string    `json:"error,omitempty"`
}

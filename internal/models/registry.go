package models

import "strings"

// DeviceConfig maps a raw device identifier to its hardware display name.
type DeviceConfig struct {
	Name     string `toml:"name" json:"name" validate:"required"`
	Hardware string `toml:"hardware" json:"hardware" validate:"required"`
}

// ModelConfig holds the display metadata for a known model identifier.
// Keyed by the raw model name as it appears in upstream data.
type ModelConfig struct {
	Name        string   `toml:"name" json:"name" validate:"required"`
	DisplayName string   `toml:"display_name" json:"display_name" validate:"required"`
	Family      string   `toml:"family" json:"family" validate:"required"`
	Tasks       []string `toml:"tasks" json:"tasks" validate:"min=1"`
}

var idReplacer = strings.NewReplacer(".", "-", "_", "-", " ", "-")

// ModelID derives the kebab-case document ID from a raw model name.
func ModelID(name string) string {
	return idReplacer.Replace(strings.ToLower(name))
}

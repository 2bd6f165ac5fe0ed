// Package registry loads the static model/device registry and manages its
// durable TOML form. The registry is read-mostly: the only write path is the
// advisory append of scaffold entries for newly observed identifiers.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// File is the durable on-disk form of the registry. Entry order in the file
// is the iteration order used when building documents.
type File struct {
	Devices []models.DeviceConfig `toml:"devices"`
	Models  []models.ModelConfig  `toml:"models"`
}

// Service provides lookups over the loaded registry and the append path for
// new entries. Lookups are read-only for the process lifetime; AppendEntries
// only touches the durable file, taking effect on the next load.
type Service struct {
	path        string
	logger      arbor.ILogger
	devices     []models.DeviceConfig
	modelList   []models.ModelConfig
	deviceNames map[string]int
	modelNames  map[string]int
}

// Load reads and validates the registry file at path.
func Load(path string, logger arbor.ILogger) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}

	svc, err := New(file.Devices, file.Models, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid registry file %s: %w", path, err)
	}
	svc.path = path

	logger.Info().
		Str("path", path).
		Int("models", len(file.Models)).
		Int("devices", len(file.Devices)).
		Msg("Registry loaded")

	return svc, nil
}

// New builds a registry service from in-memory entries. Used by Load and by
// tests that do not need a durable file.
func New(devices []models.DeviceConfig, modelConfigs []models.ModelConfig, logger arbor.ILogger) (*Service, error) {
	validate := validator.New()

	s := &Service{
		logger:      logger,
		devices:     devices,
		modelList:   modelConfigs,
		deviceNames: make(map[string]int, len(devices)),
		modelNames:  make(map[string]int, len(modelConfigs)),
	}

	for i, d := range devices {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("device entry %d: %w", i, err)
		}
		if _, dup := s.deviceNames[d.Name]; dup {
			return nil, fmt.Errorf("duplicate device entry %q", d.Name)
		}
		s.deviceNames[d.Name] = i
	}

	for i, m := range modelConfigs {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("model entry %d: %w", i, err)
		}
		if _, dup := s.modelNames[m.Name]; dup {
			return nil, fmt.Errorf("duplicate model entry %q", m.Name)
		}
		s.modelNames[m.Name] = i
	}

	return s, nil
}

// Devices returns the configured devices in registry order.
func (s *Service) Devices() []models.DeviceConfig {
	return s.devices
}

// Models returns the configured models in registry order.
func (s *Service) Models() []models.ModelConfig {
	return s.modelList
}

// LookupModel returns the configuration for a raw model name. The second
// return value is false for unknown identifiers; callers must handle that
// branch instead of synthesizing a default entry.
func (s *Service) LookupModel(name string) (models.ModelConfig, bool) {
	i, ok := s.modelNames[name]
	if !ok {
		return models.ModelConfig{}, false
	}
	return s.modelList[i], true
}

// LookupDevice returns the configuration for a raw device identifier.
func (s *Service) LookupDevice(name string) (models.DeviceConfig, bool) {
	i, ok := s.deviceNames[name]
	if !ok {
		return models.DeviceConfig{}, false
	}
	return s.devices[i], true
}

// HasModel reports whether the raw model name is configured.
func (s *Service) HasModel(name string) bool {
	_, ok := s.modelNames[name]
	return ok
}

// HasDevice reports whether the raw device identifier is configured.
func (s *Service) HasDevice(name string) bool {
	_, ok := s.deviceNames[name]
	return ok
}

// AppendEntries appends scaffold entries for new identifiers to the durable
// registry file via a structured read-modify-write: the current file is
// re-read, the new entries appended, and the whole file rewritten atomically.
// Existing entries are preserved exactly as parsed; nothing is ever removed.
// Appended entries take effect on the next load, not in this process.
func (s *Service) AppendEntries(newModels, newDevices []string) error {
	if len(newModels) == 0 && len(newDevices) == 0 {
		return nil
	}
	if s.path == "" {
		return fmt.Errorf("registry has no durable file to append to")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to re-read registry file: %w", err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse registry file for append: %w", err)
	}

	existingDevices := make(map[string]struct{}, len(file.Devices))
	for _, d := range file.Devices {
		existingDevices[d.Name] = struct{}{}
	}
	existingModels := make(map[string]struct{}, len(file.Models))
	for _, m := range file.Models {
		existingModels[m.Name] = struct{}{}
	}

	appended := 0
	for _, name := range newDevices {
		if _, ok := existingDevices[name]; ok {
			continue
		}
		file.Devices = append(file.Devices, ScaffoldDevice(name))
		appended++
	}
	for _, name := range newModels {
		if _, ok := existingModels[name]; ok {
			continue
		}
		file.Models = append(file.Models, ScaffoldModel(name))
		appended++
	}

	if appended == 0 {
		return nil
	}

	out, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to serialize registry file: %w", err)
	}

	// Write to a temp file in the same directory, then rename over the
	// original so a failed write never corrupts existing entries.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".registry-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp registry file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace registry file: %w", err)
	}

	s.logger.Info().
		Str("path", s.path).
		Int("appended", appended).
		Msg("Appended scaffold entries to registry; review display metadata before the next run")

	return nil
}

// ScaffoldModel builds a placeholder model entry for a newly observed
// identifier. Display metadata is expected to be corrected by an operator.
func ScaffoldModel(name string) models.ModelConfig {
	return models.ModelConfig{
		Name:        name,
		DisplayName: name,
		Family:      "Other",
		Tasks:       []string{"Unknown"},
	}
}

// ScaffoldDevice builds a placeholder device entry for a newly observed
// identifier.
func ScaffoldDevice(name string) models.DeviceConfig {
	return models.DeviceConfig{
		Name:     name,
		Hardware: capitalize(name),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

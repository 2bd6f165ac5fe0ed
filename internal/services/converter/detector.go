package converter

import (
	"sort"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
)

// DetectUnknown returns the model and device identifiers observed in records
// but absent from the registry, sorted ascending. Pure function; reporting
// and registry appends are handled by the caller.
func DetectUnknown(records []models.RawRecord, reg *registry.Service) (newModels, newDevices []string) {
	seenModels := make(map[string]struct{})
	seenDevices := make(map[string]struct{})

	for _, rec := range records {
		if rec.ModelName != "" && !reg.HasModel(rec.ModelName) {
			seenModels[rec.ModelName] = struct{}{}
		}
		if rec.DeviceName != "" && !reg.HasDevice(rec.DeviceName) {
			seenDevices[rec.DeviceName] = struct{}{}
		}
	}

	newModels = make([]string, 0, len(seenModels))
	for name := range seenModels {
		newModels = append(newModels, name)
	}
	newDevices = make([]string, 0, len(seenDevices))
	for name := range seenDevices {
		newDevices = append(newDevices, name)
	}

	sort.Strings(newModels)
	sort.Strings(newDevices)

	return newModels, newDevices
}

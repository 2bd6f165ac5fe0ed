package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
)

// WriteNewEntriesReport writes an operator-facing report listing identifiers
// seen upstream but missing from the registry, with ready-to-paste TOML
// scaffold snippets. The report is overwritten on each run; when nothing is
// new, any stale report from a previous run is removed.
func WriteNewEntriesReport(path string, newModels, newDevices []string, now time.Time) error {
	if len(newModels) == 0 && len(newDevices) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale report: %w", err)
		}
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# New entries detected %s\n", now.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "# Review and merge into the registry, then correct display metadata.\n\n")

	if len(newDevices) > 0 {
		b.WriteString("## New devices\n\n")
		for _, name := range newDevices {
			snippet, err := toml.Marshal(struct {
				Devices []any `toml:"devices"`
			}{Devices: []any{registry.ScaffoldDevice(name)}})
			if err != nil {
				return fmt.Errorf("failed to render device scaffold for %q: %w", name, err)
			}
			b.Write(snippet)
			b.WriteString("\n")
		}
	}

	if len(newModels) > 0 {
		b.WriteString("## New models\n\n")
		for _, name := range newModels {
			snippet, err := toml.Marshal(struct {
				Models []any `toml:"models"`
			}{Models: []any{registry.ScaffoldModel(name)}})
			if err != nil {
				return fmt.Errorf("failed to render model scaffold for %q: %w", name, err)
			}
			b.Write(snippet)
			b.WriteString("\n")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

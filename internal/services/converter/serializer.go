package converter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jzhengTT/compatibility-matrix/internal/models"
)

// Marshal renders the document as indented JSON with a trailing newline.
// Models are already ordered by the aggregator, so equal inputs produce
// byte-identical output.
func Marshal(doc *models.CompatibilityDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the serialized document to path, creating parent
// directories as needed. The write goes through a temp file and rename so a
// partial write never clobbers the previous artifact.
func WriteFile(doc *models.CompatibilityDocument, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".compatibility-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp output file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace output file %s: %w", path, err)
	}

	return nil
}

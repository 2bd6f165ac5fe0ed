// Package badger persists run summaries in an embedded BadgerHold store.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"
)

// Open creates or opens the run store at path.
func Open(path string) (*badgerhold.Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store at %s: %w", path, err)
	}
	return store, nil
}

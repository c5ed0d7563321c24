// Package storage persists run snapshots in named slots, either as YAML
// files in a save directory or as rows in a SQLite database.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/tatianab/student-sim/internal/models"
)

// Backend names accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Store is a slot-addressed snapshot store.
type Store interface {
	Save(ctx context.Context, slot string, snap *models.Snapshot) error
	// Load returns nil and no error for an empty slot.
	Load(ctx context.Context, slot string) (*models.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// Open returns the store for backend. path is the save directory for the
// yaml backend and the database file for sqlite.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendYAML, "":
		return NewDirStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

func validSlot(slot string) error {
	if slot == "" {
		return fmt.Errorf("empty slot name")
	}
	if strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return fmt.Errorf("invalid slot name %q", slot)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/student-sim/internal/models"
)

const (
	stateFile   = "state.yaml"
	historyFile = "history.yaml"
)

type history struct {
	Entries []string `yaml:"entries"`
}

// DirStore keeps one directory per slot under a root directory. The run
// state and the event log are written to separate files.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at dir. The directory is created on
// the first save.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir}
}

func (d *DirStore) Save(_ context.Context, slot string, snap *models.Snapshot) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	dir := filepath.Join(d.root, slot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating slot dir: %w", err)
	}

	state := snap.Clone()
	log := history{Entries: state.EventsLog}
	state.EventsLog = nil

	stateData, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}
	historyData, err := yaml.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}

	// History first so a present state file always has its log next to it.
	if err := WriteFileAtomic(filepath.Join(dir, historyFile), historyData, 0644); err != nil {
		return err
	}
	return WriteFileAtomic(filepath.Join(dir, stateFile), stateData, 0644)
}

func (d *DirStore) Load(_ context.Context, slot string) (*models.Snapshot, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}
	dir := filepath.Join(d.root, slot)

	stateData, err := os.ReadFile(filepath.Join(dir, stateFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	var snap models.Snapshot
	if err := yaml.Unmarshal(stateData, &snap); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}

	historyData, err := os.ReadFile(filepath.Join(dir, historyFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading history: %w", err)
	default:
		var h history
		if err := yaml.Unmarshal(historyData, &h); err != nil {
			return nil, fmt.Errorf("parsing history: %w", err)
		}
		snap.EventsLog = h.Entries
	}

	return &snap, nil
}

// List returns the slots that hold a saved run, sorted by name.
func (d *DirStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	slots := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(d.root, entry.Name(), stateFile)); err == nil {
			slots = append(slots, entry.Name())
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (d *DirStore) Delete(_ context.Context, slot string) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(d.root, slot))
}

func (d *DirStore) Close() error {
	return nil
}

// WriteFileAtomic writes data to a temp file then renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			logrus.WithError(removeErr).WithField("path", tmp).Warn("Failed to remove temp file after rename failure")
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

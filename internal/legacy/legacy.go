// Package legacy keeps the progress that outlives a single run: legacy
// points earned from endings, the endings unlocked so far and the buffs the
// player has chosen to carry into the next run.
package legacy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/engine"
	"github.com/tatianab/student-sim/internal/models"
	"github.com/tatianab/student-sim/internal/storage"
)

const fileName = "legacy.yaml"

// Ledger is the persisted cross-run record.
type Ledger struct {
	Points  int               `yaml:"points"`
	Endings []models.EndingID `yaml:"unlocked_endings,omitempty"`
	Buffs   []string          `yaml:"active_buffs,omitempty"`
	// LastRun is the run that was last awarded, so a replayed ending
	// event does not pay out twice.
	LastRun string `yaml:"last_run,omitempty"`
}

// UnlockEnding adds points and records the ending. It reports whether the
// ending was seen for the first time.
func (l *Ledger) UnlockEnding(id models.EndingID, points int) bool {
	l.Points += points
	if slices.Contains(l.Endings, id) {
		return false
	}
	l.Endings = append(l.Endings, id)
	return true
}

func (l *Ledger) Unlocked(id models.EndingID) bool {
	return slices.Contains(l.Endings, id)
}

func (l *Ledger) Active(buff string) bool {
	return slices.Contains(l.Buffs, buff)
}

// ToggleBuff refunds an active buff or buys an inactive one. Buying fails
// when the ledger cannot cover the cost.
func (l *Ledger) ToggleBuff(b models.BuffDef) bool {
	if i := slices.Index(l.Buffs, b.ID); i >= 0 {
		l.Buffs = slices.Delete(l.Buffs, i, i+1)
		l.Points += b.Cost
		return true
	}
	if l.Points < b.Cost {
		return false
	}
	l.Points -= b.Cost
	l.Buffs = append(l.Buffs, b.ID)
	return true
}

func (l *Ledger) clone() Ledger {
	c := *l
	c.Endings = slices.Clone(l.Endings)
	c.Buffs = slices.Clone(l.Buffs)
	return c
}

// Keeper guards a Ledger and writes it to disk after every change.
type Keeper struct {
	mu     sync.Mutex
	path   string
	tables *content.Tables
	ledger Ledger
	log    logrus.FieldLogger
}

// Open loads the ledger from dir, starting empty when no file exists yet.
func Open(dir string, tables *content.Tables, log logrus.FieldLogger) (*Keeper, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	k := &Keeper{
		path:   filepath.Join(dir, fileName),
		tables: tables,
		log:    log.WithField("component", "legacy"),
	}

	data, err := os.ReadFile(k.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return k, nil
	case err != nil:
		return nil, fmt.Errorf("reading legacy: %w", err)
	}
	if err := yaml.Unmarshal(data, &k.ledger); err != nil {
		return nil, fmt.Errorf("parsing legacy: %w", err)
	}
	return k, nil
}

// Ledger returns a copy of the current record.
func (k *Keeper) Ledger() Ledger {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ledger.clone()
}

// ActiveBuffs returns the buff ids to pass to StartGame.
func (k *Keeper) ActiveBuffs() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.ledger.Buffs)
}

// ToggleBuff buys or refunds a buff by id. It returns false with a nil
// error when the buff is unknown or unaffordable.
func (k *Keeper) ToggleBuff(id string) (bool, error) {
	b, ok := k.tables.Buff(id)
	if !ok {
		return false, nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.ledger.ToggleBuff(b) {
		return false, nil
	}
	return true, k.save()
}

// Reset wipes all legacy progress.
func (k *Keeper) Reset() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ledger = Ledger{}
	return k.save()
}

// Subscriber awards the ending's legacy points when a run ends.
func (k *Keeper) Subscriber() engine.Subscriber {
	return func(ev engine.Event) {
		reached, ok := ev.(engine.EndingReached)
		if !ok {
			return
		}
		if err := k.award(reached); err != nil {
			k.log.WithError(err).Error("Failed to save legacy")
		}
	}
}

func (k *Keeper) award(ev engine.EndingReached) error {
	def, ok := k.tables.Ending(ev.Ending)
	if !ok {
		k.log.WithField("ending", ev.Ending).Warn("Unknown ending, no points awarded")
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if ev.RunID != "" && ev.RunID == k.ledger.LastRun {
		return nil
	}
	k.ledger.LastRun = ev.RunID
	first := k.ledger.UnlockEnding(ev.Ending, def.LegacyPoints)

	k.log.WithFields(logrus.Fields{
		"ending": ev.Ending,
		"points": def.LegacyPoints,
		"total":  k.ledger.Points,
		"first":  first,
	}).Info("Legacy points awarded")
	return k.save()
}

func (k *Keeper) save() error {
	if err := os.MkdirAll(filepath.Dir(k.path), 0755); err != nil {
		return fmt.Errorf("creating legacy dir: %w", err)
	}
	data, err := yaml.Marshal(k.ledger)
	if err != nil {
		return fmt.Errorf("marshalling legacy: %w", err)
	}
	return storage.WriteFileAtomic(k.path, data, 0644)
}

// Package achievements tracks milestones across runs by listening to the
// engine's domain events.
package achievements

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

const fileName = "achievements.yaml"

// Achievement is a milestone the player can unlock once.
type Achievement struct {
	ID          string
	Title       string
	Description string
}

const (
	FirstHD         = "first_hd"
	Rich100k        = "rich_100k"
	FirstDate       = "first_date"
	GiftMaster      = "gift_master"
	CoffeeAddict    = "coffee_addict"
	SocialButterfly = "social_butterfly"
	PRHunter        = "pr_hunter"
	Survivor        = "survivor"
)

const (
	hdWAM          = 85
	richMoney      = 100000
	giftTarget     = 10
	coffeeTarget   = 50
	maxRelation    = 100
	prTarget       = 85
	survivorQuarts = 8
)

// All lists every achievement in display order.
var All = []Achievement{
	{FirstHD, "High Distinction", "Reach a WAM of 85."},
	{Rich100k, "Six Figures", "Hold $100,000 at once."},
	{FirstDate, "Romance", "Go on your first date."},
	{GiftMaster, "Gift Master", "Give 10 gifts."},
	{CoffeeAddict, "Caffeine Dependent", "Drink 50 coffees."},
	{SocialButterfly, "Best Friends", "Max out a relationship."},
	{PRHunter, "PR Hunter", "Reach 85 PR points."},
	{Survivor, "Survivor", "Last two years without the game ending."},
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range All {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

type record struct {
	Unlocked []string `yaml:"unlocked,omitempty"`
	Gifts    int      `yaml:"gifts_given"`
	Coffees  int      `yaml:"coffees"`
}

// Tracker counts progress and persists unlocks to a YAML file.
type Tracker struct {
	mu     sync.Mutex
	path   string
	tables *content.Tables
	rec    record
	notify func(Achievement)
	log    logrus.FieldLogger
}

// Open loads the tracker from dir, starting empty when no file exists yet.
func Open(dir string, tables *content.Tables, log logrus.FieldLogger) (*Tracker, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	tr := &Tracker{
		path:   filepath.Join(dir, fileName),
		tables: tables,
		log:    log.WithField("component", "achievements"),
	}

	data, err := os.ReadFile(tr.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return tr, nil
	case err != nil:
		return nil, fmt.Errorf("reading achievements: %w", err)
	}
	if err := yaml.Unmarshal(data, &tr.rec); err != nil {
		return nil, fmt.Errorf("parsing achievements: %w", err)
	}
	return tr, nil
}

// OnUnlock registers a callback run for each new unlock.
func (tr *Tracker) OnUnlock(fn func(Achievement)) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.notify = fn
}

// Unlocked returns the unlocked ids in unlock order.
func (tr *Tracker) Unlocked() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return slices.Clone(tr.rec.Unlocked)
}

func (tr *Tracker) Has(id string) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return slices.Contains(tr.rec.Unlocked, id)
}

// Subscriber feeds engine events into the tracker.
func (tr *Tracker) Subscriber() engine.Subscriber {
	return func(ev engine.Event) {
		unlocked, dirty := tr.observe(ev)
		if dirty {
			if err := tr.save(); err != nil {
				tr.log.WithError(err).Error("Failed to save achievements")
			}
		}
		tr.mu.Lock()
		notify := tr.notify
		tr.mu.Unlock()
		for _, a := range unlocked {
			tr.log.WithField("achievement", a.ID).Info("Achievement unlocked")
			if notify != nil {
				notify(a)
			}
		}
	}
}

func (tr *Tracker) observe(ev engine.Event) ([]Achievement, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var hits []string
	dirty := false

	switch e := ev.(type) {
	case engine.StatsChanged:
		if e.After.WAM >= hdWAM {
			hits = append(hits, FirstHD)
		}
		if e.After.Money >= richMoney {
			hits = append(hits, Rich100k)
		}
		if e.After.PRScore >= prTarget {
			hits = append(hits, PRHunter)
		}
	case engine.NPCInteracted:
		if e.Interaction == engine.InteractDate {
			hits = append(hits, FirstDate)
		}
		if e.Interaction == engine.InteractGift {
			tr.rec.Gifts++
			dirty = true
			if tr.rec.Gifts >= giftTarget {
				hits = append(hits, GiftMaster)
			}
		}
		if e.Relation >= maxRelation {
			hits = append(hits, SocialButterfly)
		}
	case engine.ItemBought:
		if it, ok := tr.tables.Item(e.Item); ok && it.Category == models.ItemConsumable {
			tr.rec.Coffees++
			dirty = true
			if tr.rec.Coffees >= coffeeTarget {
				hits = append(hits, CoffeeAddict)
			}
		}
	case engine.QuarterAdvanced:
		if !e.GameOver && e.TotalQuarters-1 >= survivorQuarts {
			hits = append(hits, Survivor)
		}
	}

	var unlocked []Achievement
	for _, id := range hits {
		if slices.Contains(tr.rec.Unlocked, id) {
			continue
		}
		tr.rec.Unlocked = append(tr.rec.Unlocked, id)
		dirty = true
		a, _ := Lookup(id)
		unlocked = append(unlocked, a)
	}
	return unlocked, dirty
}

func (tr *Tracker) save() error {
	tr.mu.Lock()
	data, err := yaml.Marshal(tr.rec)
	tr.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshalling achievements: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(tr.path), 0755); err != nil {
		return fmt.Errorf("creating achievements dir: %w", err)
	}
	return storage.WriteFileAtomic(tr.path, data, 0644)
}

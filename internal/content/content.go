// Package content holds the static game tables: degrees, majors, housing,
// regions, assets, NPCs, items, weekend activities, player actions, endings,
// legacy buffs, narrative events and the balance constants. Tables are loaded
// once from YAML and are read-only afterwards.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/student-sim/internal/models"
)

//go:embed data/*.yaml data/events/*.yaml
var dataFS embed.FS

// Tables is the read-only content the engine looks things up in.
type Tables struct {
	Balance Balance

	degrees map[models.Degree]models.DegreeDef
	majors  map[models.Major]models.MajorDef
	housing map[string]models.HousingDef
	regions map[string]models.RegionDef
	assets  map[string]models.AssetDef
	npcs    map[string]models.NPCDef
	items   map[string]models.ItemDef
	weekend map[string]models.WeekendActivity
	actions map[string]models.ActionDef
	endings map[models.EndingID]models.EndingDef
	buffs   map[string]models.BuffDef
	events  map[string]*models.GameEvent

	degreeOrder  []models.Degree
	majorOrder   []models.Major
	housingOrder []string
	regionOrder  []string
	assetOrder   []string
	npcOrder     []string
	itemOrder    []string
	weekendOrder []string
	actionOrder  []string
	buffOrder    []string
	eventOrder   []string
}

type worldFile struct {
	Degrees []models.DegreeDef  `yaml:"degrees"`
	Majors  []models.MajorDef   `yaml:"majors"`
	Housing []models.HousingDef `yaml:"housing"`
	Regions []models.RegionDef  `yaml:"regions"`
	Assets  []models.AssetDef   `yaml:"assets"`
}

type peopleFile struct {
	NPCs []models.NPCDef `yaml:"npcs"`
}

type shopFile struct {
	Items   []models.ItemDef         `yaml:"items"`
	Weekend []models.WeekendActivity `yaml:"weekend"`
}

type actionsFile struct {
	Actions []models.ActionDef `yaml:"actions"`
}

type endingsFile struct {
	Endings []models.EndingDef `yaml:"endings"`
	Buffs   []models.BuffDef   `yaml:"buffs"`
}

type eventsFile struct {
	Events []models.GameEvent `yaml:"events"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the embedded tables, loading them on first use.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(dataFS, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultTables, defaultErr = LoadFS(sub)
	})
	return defaultTables, defaultErr
}

// LoadFS reads and validates a content directory laid out like the embedded
// one: balance.yaml, world.yaml, people.yaml, shop.yaml, actions.yaml,
// endings.yaml and any number of events/*.yaml.
func LoadFS(fsys fs.FS) (*Tables, error) {
	t := &Tables{}

	if err := decodeFile(fsys, "balance.yaml", &t.Balance); err != nil {
		return nil, err
	}

	var world worldFile
	if err := decodeFile(fsys, "world.yaml", &world); err != nil {
		return nil, err
	}
	var people peopleFile
	if err := decodeFile(fsys, "people.yaml", &people); err != nil {
		return nil, err
	}
	var shop shopFile
	if err := decodeFile(fsys, "shop.yaml", &shop); err != nil {
		return nil, err
	}
	var acts actionsFile
	if err := decodeFile(fsys, "actions.yaml", &acts); err != nil {
		return nil, err
	}
	var ends endingsFile
	if err := decodeFile(fsys, "endings.yaml", &ends); err != nil {
		return nil, err
	}

	eventFiles, err := fs.Glob(fsys, "events/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	sort.Strings(eventFiles)
	var events []models.GameEvent
	for _, name := range eventFiles {
		var ef eventsFile
		if err := decodeFile(fsys, name, &ef); err != nil {
			return nil, err
		}
		events = append(events, ef.Events...)
	}

	if err := t.index(world, people, shop, acts, ends, events); err != nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validating content: %w", err)
	}
	return t, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path.Base(name), err)
	}
	return nil
}

func (t *Tables) index(world worldFile, people peopleFile, shop shopFile, acts actionsFile, ends endingsFile, events []models.GameEvent) error {
	t.degrees = map[models.Degree]models.DegreeDef{}
	for _, d := range world.Degrees {
		if _, ok := t.degrees[d.ID]; ok {
			return fmt.Errorf("duplicate key detected: degree %s", d.ID)
		}
		t.degrees[d.ID] = d
		t.degreeOrder = append(t.degreeOrder, d.ID)
	}

	t.majors = map[models.Major]models.MajorDef{}
	for _, m := range world.Majors {
		if _, ok := t.majors[m.ID]; ok {
			return fmt.Errorf("duplicate key detected: major %s", m.ID)
		}
		t.majors[m.ID] = m
		t.majorOrder = append(t.majorOrder, m.ID)
	}

	t.housing = map[string]models.HousingDef{}
	for _, h := range world.Housing {
		if _, ok := t.housing[h.ID]; ok {
			return fmt.Errorf("duplicate key detected: housing %s", h.ID)
		}
		t.housing[h.ID] = h
		t.housingOrder = append(t.housingOrder, h.ID)
	}

	t.regions = map[string]models.RegionDef{}
	for _, r := range world.Regions {
		if _, ok := t.regions[r.ID]; ok {
			return fmt.Errorf("duplicate key detected: region %s", r.ID)
		}
		t.regions[r.ID] = r
		t.regionOrder = append(t.regionOrder, r.ID)
	}

	t.assets = map[string]models.AssetDef{}
	for _, a := range world.Assets {
		if _, ok := t.assets[a.ID]; ok {
			return fmt.Errorf("duplicate key detected: asset %s", a.ID)
		}
		t.assets[a.ID] = a
		t.assetOrder = append(t.assetOrder, a.ID)
	}

	t.npcs = map[string]models.NPCDef{}
	for _, n := range people.NPCs {
		if _, ok := t.npcs[n.ID]; ok {
			return fmt.Errorf("duplicate key detected: npc %s", n.ID)
		}
		t.npcs[n.ID] = n
		t.npcOrder = append(t.npcOrder, n.ID)
	}

	t.items = map[string]models.ItemDef{}
	for _, i := range shop.Items {
		if _, ok := t.items[i.ID]; ok {
			return fmt.Errorf("duplicate key detected: item %s", i.ID)
		}
		t.items[i.ID] = i
		t.itemOrder = append(t.itemOrder, i.ID)
	}

	t.weekend = map[string]models.WeekendActivity{}
	for _, w := range shop.Weekend {
		if _, ok := t.weekend[w.ID]; ok {
			return fmt.Errorf("duplicate key detected: weekend activity %s", w.ID)
		}
		t.weekend[w.ID] = w
		t.weekendOrder = append(t.weekendOrder, w.ID)
	}

	t.actions = map[string]models.ActionDef{}
	for _, a := range acts.Actions {
		if _, ok := t.actions[a.ID]; ok {
			return fmt.Errorf("duplicate key detected: action %s", a.ID)
		}
		t.actions[a.ID] = a
		t.actionOrder = append(t.actionOrder, a.ID)
	}

	t.endings = map[models.EndingID]models.EndingDef{}
	for _, e := range ends.Endings {
		if _, ok := t.endings[e.ID]; ok {
			return fmt.Errorf("duplicate key detected: ending %s", e.ID)
		}
		t.endings[e.ID] = e
	}

	t.buffs = map[string]models.BuffDef{}
	for _, b := range ends.Buffs {
		if _, ok := t.buffs[b.ID]; ok {
			return fmt.Errorf("duplicate key detected: buff %s", b.ID)
		}
		t.buffs[b.ID] = b
		t.buffOrder = append(t.buffOrder, b.ID)
	}

	t.events = map[string]*models.GameEvent{}
	for i := range events {
		ev := events[i]
		if _, ok := t.events[ev.ID]; ok {
			return fmt.Errorf("duplicate key detected: event %s", ev.ID)
		}
		t.events[ev.ID] = &ev
	}
	t.sortEvents()

	return nil
}

func (t *Tables) sortEvents() {
	t.eventOrder = t.eventOrder[:0]
	for id := range t.events {
		t.eventOrder = append(t.eventOrder, id)
	}
	sort.Strings(t.eventOrder)
}

// WithEvents returns a copy of the tables with extra or replaced events.
// The copy is not validated, so it may hold dangling follow-up ids.
func (t *Tables) WithEvents(evs ...models.GameEvent) *Tables {
	c := *t
	c.events = make(map[string]*models.GameEvent, len(t.events)+len(evs))
	for id, ev := range t.events {
		c.events[id] = ev
	}
	for i := range evs {
		ev := evs[i]
		c.events[ev.ID] = &ev
	}
	c.eventOrder = nil
	c.sortEvents()
	return &c
}

// WithBalance returns a copy of the tables using b.
func (t *Tables) WithBalance(b Balance) *Tables {
	c := *t
	c.Balance = b
	return &c
}

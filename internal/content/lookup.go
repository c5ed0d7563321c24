package content

import (
	"math"

	"github.com/tatianab/student-sim/internal/models"
)

func (t *Tables) Degree(id models.Degree) (models.DegreeDef, bool) {
	d, ok := t.degrees[id]
	return d, ok
}

func (t *Tables) Major(id models.Major) (models.MajorDef, bool) {
	m, ok := t.majors[id]
	return m, ok
}

func (t *Tables) Housing(id string) (models.HousingDef, bool) {
	h, ok := t.housing[id]
	return h, ok
}

func (t *Tables) Region(id string) (models.RegionDef, bool) {
	r, ok := t.regions[id]
	return r, ok
}

func (t *Tables) Asset(id string) (models.AssetDef, bool) {
	a, ok := t.assets[id]
	return a, ok
}

func (t *Tables) NPC(id string) (models.NPCDef, bool) {
	n, ok := t.npcs[id]
	return n, ok
}

func (t *Tables) Item(id string) (models.ItemDef, bool) {
	i, ok := t.items[id]
	return i, ok
}

func (t *Tables) Weekend(id string) (models.WeekendActivity, bool) {
	w, ok := t.weekend[id]
	return w, ok
}

func (t *Tables) Action(id string) (models.ActionDef, bool) {
	a, ok := t.actions[id]
	return a, ok
}

func (t *Tables) Ending(id models.EndingID) (models.EndingDef, bool) {
	e, ok := t.endings[id]
	return e, ok
}

func (t *Tables) Buff(id string) (models.BuffDef, bool) {
	b, ok := t.buffs[id]
	return b, ok
}

// Event looks up an event by id. The result is a copy.
func (t *Tables) Event(id string) (*models.GameEvent, bool) {
	e, ok := t.events[id]
	return e.Clone(), ok
}

// Events returns copies of every event ordered by id.
func (t *Tables) Events() []*models.GameEvent {
	out := make([]*models.GameEvent, 0, len(t.eventOrder))
	for _, id := range t.eventOrder {
		out = append(out, t.events[id].Clone())
	}
	return out
}

func (t *Tables) Degrees() []models.DegreeDef {
	out := make([]models.DegreeDef, 0, len(t.degreeOrder))
	for _, id := range t.degreeOrder {
		out = append(out, t.degrees[id])
	}
	return out
}

func (t *Tables) Majors() []models.MajorDef {
	out := make([]models.MajorDef, 0, len(t.majorOrder))
	for _, id := range t.majorOrder {
		out = append(out, t.majors[id])
	}
	return out
}

func (t *Tables) HousingList() []models.HousingDef {
	out := make([]models.HousingDef, 0, len(t.housingOrder))
	for _, id := range t.housingOrder {
		out = append(out, t.housing[id])
	}
	return out
}

func (t *Tables) Regions() []models.RegionDef {
	out := make([]models.RegionDef, 0, len(t.regionOrder))
	for _, id := range t.regionOrder {
		out = append(out, t.regions[id])
	}
	return out
}

func (t *Tables) Assets() []models.AssetDef {
	out := make([]models.AssetDef, 0, len(t.assetOrder))
	for _, id := range t.assetOrder {
		out = append(out, t.assets[id])
	}
	return out
}

func (t *Tables) NPCs() []models.NPCDef {
	out := make([]models.NPCDef, 0, len(t.npcOrder))
	for _, id := range t.npcOrder {
		out = append(out, t.npcs[id])
	}
	return out
}

func (t *Tables) Items() []models.ItemDef {
	out := make([]models.ItemDef, 0, len(t.itemOrder))
	for _, id := range t.itemOrder {
		out = append(out, t.items[id])
	}
	return out
}

func (t *Tables) WeekendActivities() []models.WeekendActivity {
	out := make([]models.WeekendActivity, 0, len(t.weekendOrder))
	for _, id := range t.weekendOrder {
		out = append(out, t.weekend[id])
	}
	return out
}

func (t *Tables) Actions() []models.ActionDef {
	out := make([]models.ActionDef, 0, len(t.actionOrder))
	for _, id := range t.actionOrder {
		out = append(out, t.actions[id])
	}
	return out
}

func (t *Tables) Buffs() []models.BuffDef {
	out := make([]models.BuffDef, 0, len(t.buffOrder))
	for _, id := range t.buffOrder {
		out = append(out, t.buffs[id])
	}
	return out
}

// Rent is the quarterly rent for a housing tier in a region.
func (t *Tables) Rent(housing, region string) int {
	h, ok := t.housing[housing]
	if !ok {
		return 0
	}
	mod := 1.0
	if r, ok := t.regions[region]; ok {
		mod = r.RentModifier
	}
	// Floor, nudged so float error (180*0.7*13 = 1637.99...) doesn't lose a dollar.
	return int(math.Floor(float64(h.WeeklyCost)*mod*t.Balance.WeeksPerQuarter + 1e-6))
}

// SanityModifier is the per-quarter sanity change of living somewhere.
func (t *Tables) SanityModifier(housing, region string) int {
	return t.housing[housing].SanityModifier + t.regions[region].SanityModifier
}

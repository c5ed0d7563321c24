package content

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/tatianab/student-sim/internal/models"
)

// Validate checks cross references between tables.
func (t *Tables) Validate() error {
	el := errors.NewErrorList()

	el.Add(t.Balance.Validate())

	if _, ok := t.housing[t.Balance.StartingHousing]; !ok {
		el.Add(fmt.Errorf("starting_housing %q is not a housing id", t.Balance.StartingHousing))
	}
	if _, ok := t.regions[t.Balance.StartingRegion]; !ok {
		el.Add(fmt.Errorf("starting_region %q is not a region id", t.Balance.StartingRegion))
	}
	if _, ok := t.events[t.Balance.GraduationEvent]; !ok {
		el.Add(fmt.Errorf("graduation_event %q is not an event id", t.Balance.GraduationEvent))
	}
	if _, ok := t.endings[t.Balance.DefaultEnding]; !ok {
		el.Add(fmt.Errorf("default_ending %q is not an ending id", t.Balance.DefaultEnding))
	}

	for id, d := range t.degrees {
		if d.DurationYears <= 0 {
			el.Add(fmt.Errorf("degree %s: duration_years must be positive", id))
		}
	}
	for id, m := range t.majors {
		el.Add(validStats(fmt.Sprintf("major %s", id), m.Modifiers))
	}
	for id, r := range t.regions {
		if r.RentModifier <= 0 {
			el.Add(fmt.Errorf("region %s: rent_modifier must be positive", id))
		}
	}
	for id, n := range t.npcs {
		if n.InitialRel < 0 || n.InitialRel > 100 {
			el.Add(fmt.Errorf("npc %s: initial_rel must be within [0,100]", id))
		}
	}
	for id, i := range t.items {
		if i.Category != models.ItemConsumable && i.Category != models.ItemGift {
			el.Add(fmt.Errorf("item %s: unknown category %q", id, i.Category))
		}
		el.Add(validStats(fmt.Sprintf("item %s", id), i.Effects))
	}
	for id, a := range t.actions {
		el.Add(validStats(fmt.Sprintf("action %s", id), a.Effects))
		if a.RequiresAsset != "" {
			if _, ok := t.assets[a.RequiresAsset]; !ok {
				el.Add(fmt.Errorf("action %s: unknown asset %q", id, a.RequiresAsset))
			}
		}
		for _, r := range a.Rolls {
			if _, ok := t.events[r.Event]; !ok {
				el.Add(fmt.Errorf("action %s: unknown event %q", id, r.Event))
			}
		}
	}
	for id, b := range t.buffs {
		el.Add(validStats(fmt.Sprintf("buff %s", id), b.Stats))
	}

	for id, ev := range t.events {
		el.Add(t.validateEvent(id, ev))
	}

	return el.Err()
}

func (t *Tables) validateEvent(id string, ev *models.GameEvent) error {
	el := errors.NewErrorList()

	switch ev.Category {
	case models.CategoryAcademic, models.CategoryCareer, models.CategoryLife, models.CategoryRandom:
	default:
		el.Add(fmt.Errorf("event %s: unknown category %q", id, ev.Category))
	}
	if len(ev.Options) == 0 {
		el.Add(fmt.Errorf("event %s: at least one option is required", id))
	}

	for i, o := range ev.Options {
		where := fmt.Sprintf("event %s option %d", id, i)
		el.Add(validStats(where, o.Requires))
		if o.Next != "" {
			if _, ok := t.events[o.Next]; !ok {
				el.Add(fmt.Errorf("%s: unknown next event %q", where, o.Next))
			}
		}
		for _, eff := range o.Effects {
			switch v := eff.(type) {
			case models.StatDelta:
				el.Add(validStats(where, v.Deltas))
			case models.VisaChange:
				if _, ok := t.Balance.VisaValidity[v.Subclass]; !ok {
					el.Add(fmt.Errorf("%s: visa %q has no validity", where, v.Subclass))
				}
			case models.Terminate:
				if v.Ending != "" {
					if _, ok := t.endings[v.Ending]; !ok {
						el.Add(fmt.Errorf("%s: unknown ending %q", where, v.Ending))
					}
				}
			}
		}
	}

	return el.Err()
}

func validStats(where string, d models.StatDeltas) error {
	el := errors.NewErrorList()
	for _, k := range d.Keys() {
		if !k.Valid() {
			el.Add(fmt.Errorf("%s: unknown stat %q", where, k))
		}
	}
	return el.Err()
}

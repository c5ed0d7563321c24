package engine

import (
	"slices"

	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/models"
)

// SelectEvent picks one eligible random event uniformly, or returns nil when
// nothing is eligible. Candidates are considered in id order so the result
// depends only on the state and the draw.
func SelectEvent(st *models.Snapshot, t *content.Tables, r Rand) *models.GameEvent {
	pool := Eligible(st, t)
	if len(pool) == 0 {
		return nil
	}
	return pool[r.IntN(len(pool))]
}

// Eligible returns the non-special events that may fire in the given state.
func Eligible(st *models.Snapshot, t *content.Tables) []*models.GameEvent {
	var out []*models.GameEvent
	for _, ev := range t.Events() {
		if ev.Special {
			continue
		}
		if ev.Condition != nil {
			if matches(ev.Condition, st) {
				out = append(out, ev)
			}
			continue
		}
		if phaseAllows(st.Phase, ev.Category) {
			out = append(out, ev)
		}
	}
	return out
}

func phaseAllows(p models.Phase, c models.Category) bool {
	switch p {
	case models.PhaseStudent:
		return c == models.CategoryAcademic || c == models.CategoryLife
	case models.PhaseGraduate, models.PhaseJobSeeker, models.PhaseWorking:
		return c == models.CategoryCareer || c == models.CategoryLife
	}
	return true
}

func matches(c *models.Condition, st *models.Snapshot) bool {
	if len(c.Phases) > 0 && !slices.Contains(c.Phases, st.Phase) {
		return false
	}
	if len(c.Housing) > 0 && !slices.Contains(c.Housing, st.Housing) {
		return false
	}
	if len(c.Regions) > 0 && !slices.Contains(c.Regions, st.Region) {
		return false
	}
	for _, a := range c.Assets {
		if !st.HasAsset(a) {
			return false
		}
	}
	if len(c.Subclasses) > 0 && !slices.Contains(c.Subclasses, st.Visa.Subclass) {
		return false
	}
	if c.MinQuartersStudied != nil && st.Clock.QuartersStudied < *c.MinQuartersStudied {
		return false
	}
	if c.MaxQuartersStudied != nil && st.Clock.QuartersStudied > *c.MaxQuartersStudied {
		return false
	}
	for k, v := range c.MinStats {
		if st.Stats.Get(k) < v {
			return false
		}
	}
	for k, v := range c.MaxStats {
		if st.Stats.Get(k) > v {
			return false
		}
	}
	return true
}

package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/models"
)

// txn is a working copy of the state. Mutations only become visible when the
// store commits it.
type txn struct {
	st     *models.Snapshot
	t      *content.Tables
	bal    *content.Balance
	rng    Rand
	log    logrus.FieldLogger
	id     func() string
	events []Event
}

func (tx *txn) emit(ev Event) {
	tx.events = append(tx.events, ev)
}

func (tx *txn) addLog(format string, args ...any) {
	appendLog(tx.st, fmt.Sprintf(format, args...), tx.bal.LogCapacity)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// applyStatDelta adds delta to stat k and returns the new value. Every stat
// except money is floored at zero. Sanity and WAM are capped at 100.
func applyStatDelta(s *models.Stats, k models.Stat, delta int) int {
	v := s.Get(k) + delta
	switch k {
	case models.StatMoney:
	case models.StatSanity, models.StatWAM:
		v = clamp(v, 0, 100)
	default:
		v = max(v, 0)
	}
	s.Set(k, v)
	return v
}

// adjust applies a batch of deltas without running the terminal checks.
func (tx *txn) adjust(d models.StatDeltas) {
	if len(d) == 0 {
		return
	}
	before := tx.st.Stats
	for _, k := range d.Keys() {
		if !k.Valid() {
			tx.log.WithField("stat", k).Warn("Ignoring unknown stat")
			continue
		}
		applyStatDelta(&tx.st.Stats, k, d[k])
	}
	if before != tx.st.Stats {
		tx.emit(StatsChanged{Before: before, After: tx.st.Stats})
	}
}

// updateStats applies a batch of deltas and then the failure checks.
func (tx *txn) updateStats(d models.StatDeltas) {
	tx.adjust(d)
	tx.checkInvariants()
}

// checkInvariants ends the run on bankruptcy or a collapse of sanity. The
// first terminal condition wins.
func (tx *txn) checkInvariants() {
	if tx.st.GameOver || !tx.st.Phase.Active() {
		return
	}
	switch {
	case tx.st.Stats.Money < tx.bal.DebtThreshold:
		tx.terminate("You fell too deep into debt to pay tuition and rent, and had to leave the country.", models.EndingForcedDeparture)
	case tx.st.Stats.Sanity <= 0:
		tx.terminate("Burnout caught up with you. You withdrew from university and flew home.", models.EndingDropout)
	}
}

func (tx *txn) affordable(c models.Cost) bool {
	if c.AP > tx.st.Clock.ActionPoints {
		return false
	}
	if c.Money > 0 && c.Money > tx.st.Stats.Money {
		return false
	}
	return true
}

// pay deducts a cost the caller has already checked with affordable.
func (tx *txn) pay(c models.Cost) {
	tx.st.Clock.ActionPoints -= c.AP
	d := models.StatDeltas{}
	if c.Money != 0 {
		d[models.StatMoney] = -c.Money
	}
	if c.Sanity != 0 {
		d[models.StatSanity] = -c.Sanity
	}
	tx.updateStats(d)
}

func (tx *txn) meets(req models.StatDeltas) bool {
	for k, v := range req {
		if tx.st.Stats.Get(k) < v {
			return false
		}
	}
	return true
}

func (tx *txn) relate(npc string, delta int) int {
	if tx.st.NPCRelations == nil {
		tx.st.NPCRelations = map[string]int{}
	}
	v := clamp(tx.st.NPCRelations[npc]+delta, 0, 100)
	tx.st.NPCRelations[npc] = v
	return v
}

// terminate ends the run. Later calls are ignored. An empty ending is
// resolved by the classifier, falling back to the default ending.
func (tx *txn) terminate(reason string, ending models.EndingID) {
	if tx.st.GameOver {
		return
	}
	if ending == "" {
		if id, ok := Classify(tx.st, tx.bal, true); ok {
			ending = id
		} else {
			ending = tx.bal.DefaultEnding
		}
	}
	if reason == "" {
		if def, ok := tx.t.Ending(ending); ok {
			reason = def.Description
		}
	}

	tx.st.GameOver = true
	tx.st.GameOverReason = reason
	tx.st.Ending = ending
	tx.st.Phase = models.PhaseGameOver
	tx.addLog("Game over: %s", reason)
	tx.emit(EndingReached{RunID: tx.st.RunID, Ending: ending, Reason: reason})

	tx.log.WithFields(logrus.Fields{
		"run":    tx.st.RunID,
		"ending": ending,
	}).Info("Run ended")
}

// settle runs the classifier once an operation has finished so endings are
// detected no matter which stat moved.
func (tx *txn) settle() {
	if tx.st.GameOver || !tx.st.Phase.Active() {
		return
	}
	success := tx.st.Phase != models.PhaseStudent
	if id, ok := Classify(tx.st, tx.bal, success); ok {
		tx.terminate("", id)
	}
}

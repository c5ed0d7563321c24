package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/models"
)

// AdvanceQuarter moves the run forward by one quarter. Every derived effect
// is computed from the state as it was before the call and committed as a
// single transition. It is a no-op outside an active run and while an event
// is waiting for a choice.
func (s *Store) AdvanceQuarter() bool {
	return s.update("advance_quarter", func(tx *txn) bool {
		if !tx.st.Phase.Active() || tx.st.GameOver || tx.st.CurrentEvent != nil {
			return false
		}
		tx.advance()
		return true
	})
}

func (tx *txn) advance() {
	pre := tx.st.Clone()
	st := tx.st
	b := tx.bal

	// Calendar.
	st.Clock.TotalQuarters++
	st.Clock.Quarter++
	if st.Clock.Quarter > b.QuartersPerYear {
		st.Clock.Quarter = 1
		st.Clock.Year++
		applyStatDelta(&st.Stats, models.StatAge, 1)
	}
	studying := pre.Phase == models.PhaseStudent
	if studying {
		st.Clock.QuartersStudied++
	}

	// Visa.
	st.Visa.ExpiryDays -= b.VisaDaysPerQtr
	if st.Visa.ExpiryDays <= 0 && !b.Qualifies(st.Visa.Subclass) {
		st.Visa.ExpiryDays = 0
		tx.terminate("Your visa expired and you had no legal way to stay.", models.EndingForcedDeparture)
	}

	// Graduation takes priority over the random roll.
	graduating := false
	if studying {
		if deg, ok := tx.t.Degree(pre.Profile.Degree); ok {
			graduating = pre.Clock.QuartersStudied+1 >= deg.DurationQuarters(b.QuartersPerYear)
		}
	}
	switch {
	case graduating:
		if ev, ok := tx.t.Event(b.GraduationEvent); ok {
			tx.setEvent(ev, false)
		} else {
			tx.log.WithField("event", b.GraduationEvent).Warn("Graduation event missing from tables")
		}
	case !st.GameOver && tx.rng.Float64() < b.RandomEventChance:
		if ev := SelectEvent(pre, tx.t, tx.rng); ev != nil {
			tx.setEvent(ev, false)
		}
	}

	// Rent and living conditions come from the pre-tick housing and region.
	rent := tx.t.Rent(pre.Housing, pre.Region)
	overBefore := st.GameOver
	tx.adjust(models.StatDeltas{
		models.StatMoney:  -rent,
		models.StatSanity: tx.t.SanityModifier(pre.Housing, pre.Region),
	})
	tx.checkInvariants()
	if !overBefore && st.GameOver && st.CurrentEvent != nil && !st.CurrentEvent.Terminal() {
		st.CurrentEvent = nil
		st.ChainDepth = 0
	}

	st.Clock.ActionPoints = st.Clock.MaxActionPoints
	st.WeekendTaken = false
	st.CoffeeConsumed = 0

	tx.addLog("Year %d, Q%d begins. Paid $%d in rent.", st.Clock.Year, st.Clock.Quarter, rent)
	tx.emit(QuarterAdvanced{
		Year:          st.Clock.Year,
		Quarter:       st.Clock.Quarter,
		TotalQuarters: st.Clock.TotalQuarters,
		Rent:          rent,
		GameOver:      st.GameOver,
	})
	tx.log.WithFields(logrus.Fields{
		"year":    st.Clock.Year,
		"quarter": st.Clock.Quarter,
		"rent":    rent,
	}).Debug("Quarter advanced")
}

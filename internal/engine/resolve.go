package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/models"
)

// TriggerEvent makes ev the current event. Triggering over a pending event
// replaces it and returns ErrEventActive so callers can spot the misuse.
func (s *Store) TriggerEvent(ev *models.GameEvent) error {
	var err error
	s.update("trigger_event", func(tx *txn) bool {
		if ev == nil || !tx.st.Phase.Active() || tx.st.GameOver {
			err = ErrNotPlaying
			return false
		}
		if tx.st.CurrentEvent != nil {
			tx.log.WithFields(logrus.Fields{
				"pending": tx.st.CurrentEvent.ID,
				"event":   ev.ID,
			}).Warn("Replacing an unresolved event")
			err = ErrEventActive
		}
		tx.setEvent(ev, false)
		return true
	})
	return err
}

// TriggerEventByID looks the event up in the tables and triggers it.
func (s *Store) TriggerEventByID(id string) error {
	ev, ok := s.tables.Event(id)
	if !ok {
		return ErrUnknownEvent
	}
	return s.TriggerEvent(ev)
}

// ResolveOption answers the current event. It is a no-op when no event is
// pending, when the option's cost cannot be paid or when its stat
// requirements are not met.
func (s *Store) ResolveOption(opt models.Option) bool {
	return s.update("resolve_option", func(tx *txn) bool {
		return tx.resolve(opt)
	})
}

// ResolveOptionIndex answers the current event with its i-th option.
func (s *Store) ResolveOptionIndex(i int) bool {
	return s.update("resolve_option", func(tx *txn) bool {
		ev := tx.st.CurrentEvent
		if ev == nil || i < 0 || i >= len(ev.Options) {
			return false
		}
		return tx.resolve(ev.Options[i])
	})
}

// CloseEvent dismisses the current event without applying any option.
func (s *Store) CloseEvent() bool {
	return s.update("close_event", func(tx *txn) bool {
		if tx.st.CurrentEvent == nil {
			return false
		}
		tx.st.CurrentEvent = nil
		tx.st.ChainDepth = 0
		return true
	})
}

func (tx *txn) setEvent(ev *models.GameEvent, chained bool) {
	tx.st.CurrentEvent = ev.Clone()
	if !chained {
		tx.st.ChainDepth = 0
	}
	tx.emit(EventTriggered{EventID: ev.ID, Chained: chained})
	tx.log.WithFields(logrus.Fields{"event": ev.ID, "chained": chained}).Debug("Event triggered")
}

func (tx *txn) resolve(opt models.Option) bool {
	ev := tx.st.CurrentEvent
	if ev == nil {
		return false
	}
	if !tx.affordable(opt.Cost) || !tx.meets(opt.Requires) {
		return false
	}

	tx.pay(opt.Cost)
	for _, eff := range opt.Effects {
		tx.applyEffect(eff)
	}
	tx.addLog("%s: %s", ev.Title, opt.Label)
	tx.emit(OptionResolved{EventID: ev.ID, Label: opt.Label})

	tx.chain(opt.Next)
	return true
}

// chain moves to the follow-up event, or back to idle when there is none,
// the id is unknown, the run has ended or the chain is too deep.
func (tx *txn) chain(next string) {
	depth := tx.st.ChainDepth
	tx.st.CurrentEvent = nil
	tx.st.ChainDepth = 0

	if next == "" || tx.st.GameOver {
		return
	}
	ev, ok := tx.t.Event(next)
	if !ok {
		tx.log.WithField("event", next).Warn("Follow-up event not found, ending chain")
		return
	}
	if depth+1 > tx.bal.MaxChainDepth {
		tx.log.WithFields(logrus.Fields{"event": next, "depth": depth}).Warn("Event chain too deep, ending chain")
		return
	}
	tx.st.ChainDepth = depth + 1
	tx.setEvent(ev, true)
}

func (tx *txn) applyEffect(eff models.Effect) {
	switch e := eff.(type) {
	case models.StatDelta:
		tx.updateStats(e.Deltas)
	case models.VisaChange:
		tx.applyVisa(e.Subclass)
	case models.Terminate:
		tx.terminate(e.Reason, e.Ending)
	default:
		tx.log.WithField("effect", eff).Warn("Ignoring unknown effect")
	}
}

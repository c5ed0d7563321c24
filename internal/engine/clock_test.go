package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"

	"github.com/tatianab/student-sim/internal/models"
)

// mutate edits the store's state through a snapshot round trip.
func mutate(t *testing.T, s *Store, fn func(*models.Snapshot)) {
	t.Helper()
	snap := s.Snapshot()
	fn(snap)
	if err := s.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
}

func TestAdvanceQuarterCalendar(t *testing.T) {
	tests := map[string]struct {
		quarter    int
		expQuarter int
		expYear    int
		expAge     int
	}{
		"q1": {quarter: 1, expQuarter: 2, expYear: 1, expAge: 23},
		"q2": {quarter: 2, expQuarter: 3, expYear: 1, expAge: 23},
		"q3": {quarter: 3, expQuarter: 4, expYear: 1, expAge: 23},
		"q4": {quarter: 4, expQuarter: 1, expYear: 2, expAge: 24},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := startedStore(t, nil)
			mutate(t, s, func(st *models.Snapshot) { st.Clock.Quarter = tt.quarter })

			testutil.AssertEqual(t, "advanced", s.AdvanceQuarter(), true)
			snap := s.Snapshot()
			testutil.AssertEqual(t, "quarter", snap.Clock.Quarter, tt.expQuarter)
			testutil.AssertEqual(t, "year", snap.Clock.Year, tt.expYear)
			testutil.AssertEqual(t, "age", snap.Stats.Age, tt.expAge)
			testutil.AssertEqual(t, "total quarters", snap.Clock.TotalQuarters, 2)
			testutil.AssertEqual(t, "quarters studied", snap.Clock.QuartersStudied, 1)
		})
	}
}

func TestAdvanceQuarterResetsBudget(t *testing.T) {
	s := startedStore(t, nil)
	mutate(t, s, func(st *models.Snapshot) {
		st.Clock.ActionPoints = 0
		st.WeekendTaken = true
		st.CoffeeConsumed = 5
	})

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, snap.Clock.MaxActionPoints)
	testutil.AssertEqual(t, "weekend", snap.WeekendTaken, false)
	testutil.AssertEqual(t, "coffee", snap.CoffeeConsumed, 0)
}

func TestAdvanceQuarterRentAndLiving(t *testing.T) {
	s := startedStore(t, nil)
	before := s.Snapshot()
	rent := s.Tables().Rent(before.Housing, before.Region)

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "rent", rent, 4680)
	testutil.AssertEqual(t, "money", snap.Stats.Money, before.Stats.Money-rent)
	testutil.AssertEqual(t, "sanity", snap.Stats.Sanity, before.Stats.Sanity-1)
	testutil.AssertEqual(t, "visa days", snap.Visa.ExpiryDays, before.Visa.ExpiryDays-90)
}

func TestAdvanceQuarterVisaExpiry(t *testing.T) {
	s := startedStore(t, nil)
	mutate(t, s, func(st *models.Snapshot) { st.Visa.ExpiryDays = 90 })

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "game over", snap.GameOver, true)
	testutil.AssertEqual(t, "ending", snap.Ending, models.EndingForcedDeparture)
	if !strings.Contains(snap.GameOverReason, "visa") {
		t.Errorf("reason %q does not mention the visa", snap.GameOverReason)
	}
}

func TestAdvanceQuarterQualifyingVisaSurvivesExpiry(t *testing.T) {
	s := startedStore(t, nil)
	s.ApplyVisa(models.Visa190)
	mutate(t, s, func(st *models.Snapshot) { st.Visa.ExpiryDays = 90 })

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "game over", snap.GameOver, false)
	testutil.AssertEqual(t, "phase", snap.Phase, models.PhasePRGranted)
}

func TestAdvanceQuarterDeterministic(t *testing.T) {
	base := startedStore(t, nil)
	base.Perform("study")
	start := base.Snapshot()

	run := func() *models.Snapshot {
		s := newTestStore(t, testTables(t), &scriptedRand{floats: []float64{0.1}, ints: []int{3}})
		if err := s.Restore(start); err != nil {
			t.Fatalf("Restore: %v", err)
		}
		s.AdvanceQuarter()
		return s.Snapshot()
	}

	first, second := run(), run()
	if first.CurrentEvent == nil {
		t.Fatalf("expected a random event to fire")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("advance is not deterministic (-first +second):\n%s", diff)
	}
}

func TestAdvanceQuarterRandomEvent(t *testing.T) {
	s := startedStore(t, &scriptedRand{floats: []float64{0.1}, ints: []int{0}})
	pool := Eligible(s.Snapshot(), s.Tables())

	s.AdvanceQuarter()
	snap := s.Snapshot()

	if snap.CurrentEvent == nil {
		t.Fatalf("expected an event")
	}
	testutil.AssertEqual(t, "event", snap.CurrentEvent.ID, pool[0].ID)
}

func TestAdvanceQuarterNoRoll(t *testing.T) {
	s := startedStore(t, &scriptedRand{floats: []float64{0.45}})
	s.AdvanceQuarter()

	if ev := s.Snapshot().CurrentEvent; ev != nil {
		t.Errorf("unexpected event %s", ev.ID)
	}
}

func TestAdvanceQuarterNoopWhileEventPending(t *testing.T) {
	s := startedStore(t, nil)
	if err := s.TriggerEventByID("scam_call"); err != nil {
		t.Fatalf("TriggerEventByID: %v", err)
	}
	before := s.Snapshot()

	testutil.AssertEqual(t, "advanced", s.AdvanceQuarter(), false)
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestAdvanceQuarterNoopOutsideRun(t *testing.T) {
	s := newTestStore(t, testTables(t), nil)
	testutil.AssertEqual(t, "intro", s.AdvanceQuarter(), false)

	s.StartGame(testProfile)
	s.UpdateStats(models.StatDeltas{models.StatSanity: -200})
	testutil.AssertEqual(t, "game over", s.AdvanceQuarter(), false)
}

func TestAdvanceQuarterDebtClearsEvent(t *testing.T) {
	s := startedStore(t, &scriptedRand{floats: []float64{0.1}})
	mutate(t, s, func(st *models.Snapshot) { st.Stats.Money = -1000 })

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "game over", snap.GameOver, true)
	testutil.AssertEqual(t, "ending", snap.Ending, models.EndingForcedDeparture)
	if snap.CurrentEvent != nil {
		t.Errorf("event %s should have been cleared", snap.CurrentEvent.ID)
	}
}

func TestGraduationAfterDegreeLength(t *testing.T) {
	s := startedStore(t, nil)
	grad := s.Tables().Balance.GraduationEvent

	for i := 1; i <= 8; i++ {
		testutil.AssertEqual(t, "advanced", s.AdvanceQuarter(), true)
		snap := s.Snapshot()
		if i < 8 {
			if snap.CurrentEvent != nil {
				t.Fatalf("quarter %d: unexpected event %s", i, snap.CurrentEvent.ID)
			}
			continue
		}
		if snap.CurrentEvent == nil {
			t.Fatalf("quarter %d: expected the graduation event", i)
		}
		testutil.AssertEqual(t, "event", snap.CurrentEvent.ID, grad)
		testutil.AssertEqual(t, "quarters studied", snap.Clock.QuartersStudied, 8)
	}
}

func TestGraduationBeatsRandomRoll(t *testing.T) {
	s := startedStore(t, &scriptedRand{floats: []float64{0.0}})
	mutate(t, s, func(st *models.Snapshot) { st.Clock.QuartersStudied = 7 })

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "event", snap.CurrentEvent.ID, s.Tables().Balance.GraduationEvent)
}

func TestGraduationSurvivesVisaExpiry(t *testing.T) {
	s := startedStore(t, nil)
	mutate(t, s, func(st *models.Snapshot) {
		st.Clock.QuartersStudied = 7
		st.Visa.ExpiryDays = 90
	})

	s.AdvanceQuarter()
	snap := s.Snapshot()

	testutil.AssertEqual(t, "game over", snap.GameOver, true)
	if snap.CurrentEvent == nil {
		t.Fatalf("expected the graduation event to remain")
	}
	testutil.AssertEqual(t, "event", snap.CurrentEvent.ID, s.Tables().Balance.GraduationEvent)
}

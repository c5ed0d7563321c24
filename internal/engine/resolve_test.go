package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"

	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/models"
)

func fixtureEvents() []models.GameEvent {
	return []models.GameEvent{
		{
			ID:       "t_start",
			Title:    "Start",
			Category: models.CategoryLife,
			Special:  true,
			Options: []models.Option{
				{Label: "Expensive", Cost: models.Cost{AP: 3}},
				{Label: "Chain", Next: "t_next"},
				{Label: "Broken chain", Next: "t_missing"},
				{
					Label:   "Quit",
					Effects: models.EffectList{models.Terminate{Reason: "quit", Ending: models.EndingDropout}},
					Next:    "t_next",
				},
				{Label: "Gated", Requires: models.StatDeltas{models.StatWAM: 90}},
				{
					Label: "Paid",
					Cost:  models.Cost{AP: 2, Money: 100, Sanity: 5},
					Effects: models.EffectList{
						models.StatDelta{Deltas: models.StatDeltas{models.StatNetwork: 4}},
					},
				},
				{
					Label:   "Classify",
					Effects: models.EffectList{models.Terminate{Reason: "done"}},
				},
			},
		},
		{
			ID:       "t_next",
			Title:    "Next",
			Category: models.CategoryLife,
			Special:  true,
			Options:  []models.Option{{Label: "Ok"}},
		},
		{
			ID:       "t_loop",
			Title:    "Loop",
			Category: models.CategoryLife,
			Special:  true,
			Options:  []models.Option{{Label: "Again", Next: "t_loop"}},
		},
	}
}

func fixtureStore(t *testing.T, tables *content.Tables) (*Store, *content.Tables) {
	t.Helper()
	if tables == nil {
		tables = testTables(t)
	}
	tables = tables.WithEvents(fixtureEvents()...)
	s := newTestStore(t, tables, nil)
	if !s.StartGame(testProfile) {
		t.Fatalf("StartGame returned false")
	}
	return s, tables
}

func triggered(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.TriggerEventByID(id); err != nil {
		t.Fatalf("TriggerEventByID(%s): %v", id, err)
	}
}

func TestResolveUnaffordableIsNoop(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	s.UseActionPoints(8)
	triggered(t, s, "t_start")
	before := s.Snapshot()

	testutil.AssertEqual(t, "resolved", s.ResolveOptionIndex(0), false)
	testutil.AssertEqual(t, "resolved", s.ResolveOption(before.CurrentEvent.Options[0]), false)
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestResolveRequiredStatsIsNoop(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	triggered(t, s, "t_start")
	before := s.Snapshot()

	testutil.AssertEqual(t, "resolved", s.ResolveOptionIndex(4), false)
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestResolvePaysCostAndAppliesEffects(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	triggered(t, s, "t_start")
	before := s.Snapshot()

	testutil.AssertEqual(t, "resolved", s.ResolveOptionIndex(5), true)
	snap := s.Snapshot()

	testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, before.Clock.ActionPoints-2)
	testutil.AssertEqual(t, "money", snap.Stats.Money, before.Stats.Money-100)
	testutil.AssertEqual(t, "sanity", snap.Stats.Sanity, before.Stats.Sanity-5)
	testutil.AssertEqual(t, "network", snap.Stats.Network, before.Stats.Network+4)
	testutil.AssertEqual(t, "log grew", len(snap.EventsLog), len(before.EventsLog)+1)
	testutil.AssertEqual(t, "log entry", snap.EventsLog[0], "Start: Paid")
	if snap.CurrentEvent != nil {
		t.Errorf("expected idle, got %s", snap.CurrentEvent.ID)
	}
}

func TestResolveChains(t *testing.T) {
	tests := map[string]struct {
		option   int
		expEvent string
		expDepth int
	}{
		"known follow-up":   {option: 1, expEvent: "t_next", expDepth: 1},
		"missing follow-up": {option: 2, expEvent: "", expDepth: 0},
		"terminate wins":    {option: 3, expEvent: "", expDepth: 0},
		"no follow-up":      {option: 5, expEvent: "", expDepth: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _ := fixtureStore(t, nil)
			triggered(t, s, "t_start")

			testutil.AssertEqual(t, "resolved", s.ResolveOptionIndex(tt.option), true)
			snap := s.Snapshot()

			got := ""
			if snap.CurrentEvent != nil {
				got = snap.CurrentEvent.ID
			}
			testutil.AssertEqual(t, "event", got, tt.expEvent)
			testutil.AssertEqual(t, "depth", snap.ChainDepth, tt.expDepth)
		})
	}
}

func TestResolveTerminate(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	triggered(t, s, "t_start")
	s.ResolveOptionIndex(3)
	snap := s.Snapshot()

	testutil.AssertEqual(t, "game over", snap.GameOver, true)
	testutil.AssertEqual(t, "ending", snap.Ending, models.EndingDropout)
	testutil.AssertEqual(t, "reason", snap.GameOverReason, "quit")
}

func TestResolveTerminateClassifies(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	s.UpdateStats(models.StatDeltas{models.StatPRScore: 90})
	triggered(t, s, "t_start")
	s.ResolveOptionIndex(6)
	snap := s.Snapshot()

	testutil.AssertEqual(t, "ending", snap.Ending, models.EndingPRGranted)
	testutil.AssertEqual(t, "reason", snap.GameOverReason, "done")
}

func TestResolveTerminateFallsBackToDefault(t *testing.T) {
	s, tables := fixtureStore(t, nil)
	triggered(t, s, "t_start")
	s.ResolveOptionIndex(6)

	testutil.AssertEqual(t, "ending", s.Snapshot().Ending, tables.Balance.DefaultEnding)
}

func TestResolveWithoutEvent(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	before := s.Snapshot()

	testutil.AssertEqual(t, "resolved", s.ResolveOption(models.Option{Label: "x"}), false)
	testutil.AssertEqual(t, "index", s.ResolveOptionIndex(0), false)
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestChainDepthGuard(t *testing.T) {
	base := testTables(t)
	bal := base.Balance
	bal.MaxChainDepth = 3
	s, _ := fixtureStore(t, base.WithBalance(bal))
	triggered(t, s, "t_loop")

	for i := 1; i <= 3; i++ {
		s.ResolveOptionIndex(0)
		snap := s.Snapshot()
		if snap.CurrentEvent == nil {
			t.Fatalf("chain ended early at step %d", i)
		}
		testutil.AssertEqual(t, "depth", snap.ChainDepth, i)
	}

	s.ResolveOptionIndex(0)
	snap := s.Snapshot()
	if snap.CurrentEvent != nil {
		t.Errorf("chain should have been cut at depth 3")
	}
	testutil.AssertEqual(t, "depth", snap.ChainDepth, 0)
}

func TestTriggerEventOverwrite(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	triggered(t, s, "t_start")

	err := s.TriggerEventByID("t_next")
	if !errors.Is(err, ErrEventActive) {
		t.Fatalf("expected ErrEventActive, got %v", err)
	}
	testutil.AssertEqual(t, "event", s.Snapshot().CurrentEvent.ID, "t_next")
}

func TestTriggerEventErrors(t *testing.T) {
	s := newTestStore(t, testTables(t), nil)

	if err := s.TriggerEventByID("scam_call"); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying, got %v", err)
	}
	if err := s.TriggerEventByID("no_such_event"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
	if err := s.TriggerEvent(nil); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying for nil event, got %v", err)
	}
}

func TestCloseEvent(t *testing.T) {
	s, _ := fixtureStore(t, nil)
	testutil.AssertEqual(t, "nothing to close", s.CloseEvent(), false)

	triggered(t, s, "t_start")
	testutil.AssertEqual(t, "closed", s.CloseEvent(), true)
	testutil.AssertEqual(t, "awaiting", s.Snapshot().AwaitingChoice(), false)
}

func TestGraduationOptions(t *testing.T) {
	tests := map[string]struct {
		option    int
		expPhase  models.Phase
		expVisa   models.VisaSubclass
		expEnding models.EndingID
	}{
		"work visa": {option: 0, expPhase: models.PhaseGraduate, expVisa: models.Visa485},
		// Going home names no ending; ordinary stats match none, so the default applies.
		"go home":       {option: 1, expPhase: models.PhaseGameOver, expVisa: models.Visa500, expEnding: models.EndingDropout},
		"keep studying": {option: 2, expPhase: models.PhaseStudent, expVisa: models.Visa500},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := startedStore(t, nil)
			mutate(t, s, func(st *models.Snapshot) { st.Clock.QuartersStudied = 7 })
			s.AdvanceQuarter()

			testutil.AssertEqual(t, "resolved", s.ResolveOptionIndex(tt.option), true)
			snap := s.Snapshot()
			testutil.AssertEqual(t, "phase", snap.Phase, tt.expPhase)
			testutil.AssertEqual(t, "visa", snap.Visa.Subclass, tt.expVisa)
			testutil.AssertEqual(t, "ending", snap.Ending, tt.expEnding)
			if tt.expPhase == models.PhaseStudent {
				testutil.AssertEqual(t, "quarters studied", snap.Clock.QuartersStudied, 0)
			}
		})
	}
}

func TestSnapshotEventIsACopy(t *testing.T) {
	s := startedStore(t, nil)
	triggered(t, s, "graduation_decision")

	snap := s.Snapshot()
	apply := snap.CurrentEvent.Options[0]
	wantAP := apply.Cost.AP
	apply.Cost.AP = 999
	snap.CurrentEvent.Options[0] = apply
	delta := apply.Effects[1].(models.StatDelta)
	delta.Deltas[models.StatNetwork] = 99

	table, _ := s.Tables().Event("graduation_decision")
	table.Options[0].Cost.AP = 777

	current := s.Snapshot().CurrentEvent
	testutil.AssertEqual(t, "store cost", current.Options[0].Cost.AP, wantAP)
	testutil.AssertEqual(t, "store effect", current.Options[0].Effects[1].(models.StatDelta).Deltas[models.StatNetwork], 5)
	fresh, _ := s.Tables().Event("graduation_decision")
	testutil.AssertEqual(t, "table cost", fresh.Options[0].Cost.AP, wantAP)

	testutil.AssertEqual(t, "resolved", s.ResolveOptionIndex(0), true)
	testutil.AssertEqual(t, "visa", s.Snapshot().Visa.Subclass, models.Visa485)
}

package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"

	"github.com/tatianab/student-sim/internal/models"
)

func assertUnchanged(t *testing.T, s *Store, before *models.Snapshot) {
	t.Helper()
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestPerform(t *testing.T) {
	s := startedStore(t, nil)
	before := s.Snapshot()

	testutil.AssertEqual(t, "performed", s.Perform("study"), true)
	snap := s.Snapshot()

	testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, before.Clock.ActionPoints-2)
	testutil.AssertEqual(t, "wam", snap.Stats.WAM, before.Stats.WAM+2)
	testutil.AssertEqual(t, "sanity", snap.Stats.Sanity, before.Stats.Sanity-5)
}

func TestPerformPreconditions(t *testing.T) {
	tests := map[string]struct {
		action string
		setup  func(*testing.T, *Store)
	}{
		"unknown action": {action: "nap"},
		"missing asset":  {action: "uber"},
		"out of ap": {
			action: "job_hunt",
			setup:  func(t *testing.T, s *Store) { s.UseActionPoints(7) },
		},
		"out of money": {
			action: "go_out",
			setup: func(t *testing.T, s *Store) {
				s.UpdateStats(models.StatDeltas{models.StatMoney: -49950})
			},
		},
		"event pending": {
			action: "study",
			setup:  func(t *testing.T, s *Store) { triggered(t, s, "scam_call") },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := startedStore(t, nil)
			if tt.setup != nil {
				tt.setup(t, s)
			}
			before := s.Snapshot()

			testutil.AssertEqual(t, "performed", s.Perform(tt.action), false)
			assertUnchanged(t, s, before)
		})
	}
}

func TestPerformRollTriggersEvent(t *testing.T) {
	tests := map[string]struct {
		roll     float64
		expEvent string
	}{
		"first roll":  {roll: 0.1, expEvent: "scam_call"},
		"second roll": {roll: 0.2, expEvent: "landlord_trouble"},
		"third roll":  {roll: 0.3, expEvent: "relationship_drama"},
		"no event":    {roll: 0.5, expEvent: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := startedStore(t, &scriptedRand{floats: []float64{tt.roll}})
			testutil.AssertEqual(t, "performed", s.Perform("check_phone"), true)

			got := ""
			if ev := s.Snapshot().CurrentEvent; ev != nil {
				got = ev.ID
			}
			testutil.AssertEqual(t, "event", got, tt.expEvent)
		})
	}
}

func TestPerformMoneyRoll(t *testing.T) {
	s := startedStore(t, &scriptedRand{ints: []int{123}})
	s.BuyAsset("car_camry")
	before := s.Snapshot()

	testutil.AssertEqual(t, "performed", s.Perform("uber"), true)
	testutil.AssertEqual(t, "money", s.Snapshot().Stats.Money, before.Stats.Money+500+123)
}

func TestSetHousing(t *testing.T) {
	s := startedStore(t, nil)

	testutil.AssertEqual(t, "same housing", s.SetHousing("shared_room"), false)
	testutil.AssertEqual(t, "unknown", s.SetHousing("castle"), false)
	testutil.AssertEqual(t, "moved", s.SetHousing("studio"), true)

	snap := s.Snapshot()
	testutil.AssertEqual(t, "housing", snap.Housing, "studio")
	testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, 9)
}

func TestMoveRegion(t *testing.T) {
	s := startedStore(t, nil)
	before := s.Snapshot()

	testutil.AssertEqual(t, "moved", s.MoveRegion("inner_west"), true)
	snap := s.Snapshot()
	testutil.AssertEqual(t, "region", snap.Region, "inner_west")
	testutil.AssertEqual(t, "money", snap.Stats.Money, before.Stats.Money-300)
	testutil.AssertEqual(t, "sanity", snap.Stats.Sanity, before.Stats.Sanity-5)
	testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, before.Clock.ActionPoints-2)

	s.UseActionPoints(7)
	before = s.Snapshot()
	testutil.AssertEqual(t, "out of ap", s.MoveRegion("city"), false)
	assertUnchanged(t, s, before)
}

func TestBuyAsset(t *testing.T) {
	s := startedStore(t, nil)
	before := s.Snapshot()

	testutil.AssertEqual(t, "bought", s.BuyAsset("car_camry"), true)
	snap := s.Snapshot()
	testutil.AssertEqual(t, "owned", snap.HasAsset("car_camry"), true)
	testutil.AssertEqual(t, "money", snap.Stats.Money, before.Stats.Money-5000)
	testutil.AssertEqual(t, "network", snap.Stats.Network, before.Stats.Network+5)

	testutil.AssertEqual(t, "bought twice", s.BuyAsset("car_camry"), false)
}

func TestInteractWithNPC(t *testing.T) {
	tests := map[string]struct {
		kind      Interaction
		expRel    int
		expAP     int
		expMoney  int
		expSanity int
	}{
		"chat": {kind: InteractChat, expRel: 32, expAP: 9, expMoney: 50000, expSanity: 82},
		"gift": {kind: InteractGift, expRel: 45, expAP: 10, expMoney: 49950, expSanity: 80},
		"date": {kind: InteractDate, expRel: 40, expAP: 8, expMoney: 49900, expSanity: 95},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := startedStore(t, nil)
			s.UpdateStats(models.StatDeltas{models.StatSanity: -20})

			var got []NPCInteracted
			s.Subscribe(func(ev Event) {
				if e, ok := ev.(NPCInteracted); ok {
					got = append(got, e)
				}
			})

			testutil.AssertEqual(t, "ok", s.InteractWithNPC("prof_chen", tt.kind), true)
			snap := s.Snapshot()
			testutil.AssertEqual(t, "relation", snap.NPCRelations["prof_chen"], tt.expRel)
			testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, tt.expAP)
			testutil.AssertEqual(t, "money", snap.Stats.Money, tt.expMoney)
			testutil.AssertEqual(t, "sanity", snap.Stats.Sanity, tt.expSanity)
			testutil.AssertEqual(t, "events", len(got), 1)
			testutil.AssertEqual(t, "event relation", got[0].Relation, tt.expRel)
		})
	}
}

func TestInteractRelationCapped(t *testing.T) {
	s := startedStore(t, nil)
	for i := 0; i < 10; i++ {
		s.InteractWithNPC("prof_chen", InteractGift)
	}
	testutil.AssertEqual(t, "relation", s.Snapshot().NPCRelations["prof_chen"], 100)
}

func TestInteractPreconditions(t *testing.T) {
	s := startedStore(t, nil)
	before := s.Snapshot()

	testutil.AssertEqual(t, "unknown npc", s.InteractWithNPC("nobody", InteractChat), false)
	testutil.AssertEqual(t, "unknown kind", s.InteractWithNPC("prof_chen", "dance"), false)
	assertUnchanged(t, s, before)
}

func TestBuyConsumable(t *testing.T) {
	s := startedStore(t, nil)
	s.UseActionPoints(3)
	before := s.Snapshot()

	testutil.AssertEqual(t, "bought", s.BuyItem("coffee"), true)
	snap := s.Snapshot()
	testutil.AssertEqual(t, "action points", snap.Clock.ActionPoints, before.Clock.ActionPoints+1)
	testutil.AssertEqual(t, "money", snap.Stats.Money, before.Stats.Money-6)
	testutil.AssertEqual(t, "coffee", snap.CoffeeConsumed, 1)
	testutil.AssertEqual(t, "inventory", len(snap.Inventory), 0)
}

func TestBuyConsumableLimit(t *testing.T) {
	s := startedStore(t, nil)
	limit := s.Tables().Balance.CoffeeLimit
	for i := 0; i < limit; i++ {
		if !s.BuyItem("coffee") {
			t.Fatalf("coffee %d refused", i+1)
		}
	}
	before := s.Snapshot()

	testutil.AssertEqual(t, "over limit", s.BuyItem("coffee"), false)
	assertUnchanged(t, s, before)
	testutil.AssertEqual(t, "ap capped", before.Clock.ActionPoints, before.Clock.MaxActionPoints)
}

func TestGiveGift(t *testing.T) {
	tests := map[string]struct {
		npc    string
		item   string
		expRel int
	}{
		"liked tag":    {npc: "prof_chen", item: "coffee_beans", expRel: 45},
		"neutral tag":  {npc: "prof_chen", item: "tech_gadget", expRel: 40},
		"disliked tag": {npc: "prof_chen", item: "luxury_watch", expRel: 30},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := startedStore(t, nil)
			testutil.AssertEqual(t, "bought", s.BuyItem(tt.item), true)
			testutil.AssertEqual(t, "in inventory", s.Snapshot().HasItem(tt.item), true)

			testutil.AssertEqual(t, "given", s.GiveGift(tt.npc, tt.item), true)
			snap := s.Snapshot()
			testutil.AssertEqual(t, "relation", snap.NPCRelations[tt.npc], tt.expRel)
			testutil.AssertEqual(t, "in inventory", snap.HasItem(tt.item), false)
		})
	}
}

func TestGiveGiftNotOwned(t *testing.T) {
	s := startedStore(t, nil)
	before := s.Snapshot()

	testutil.AssertEqual(t, "given", s.GiveGift("prof_chen", "flowers"), false)
	assertUnchanged(t, s, before)
}

func TestWeekendActivity(t *testing.T) {
	s := startedStore(t, nil)
	s.UpdateStats(models.StatDeltas{models.StatSanity: -50})
	before := s.Snapshot()

	testutil.AssertEqual(t, "first", s.WeekendActivity("bondi"), true)
	snap := s.Snapshot()
	testutil.AssertEqual(t, "sanity", snap.Stats.Sanity, before.Stats.Sanity+15)
	testutil.AssertEqual(t, "money", snap.Stats.Money, before.Stats.Money-20)
	testutil.AssertEqual(t, "taken", snap.WeekendTaken, true)

	testutil.AssertEqual(t, "second", s.WeekendActivity("hiking"), false)

	s.AdvanceQuarter()
	testutil.AssertEqual(t, "next quarter", s.WeekendActivity("hiking"), true)
}

func TestApplyVisa(t *testing.T) {
	s := startedStore(t, nil)

	testutil.AssertEqual(t, "unknown", s.ApplyVisa("subclass_999"), false)
	testutil.AssertEqual(t, "applied", s.ApplyVisa(models.VisaBridgingA), true)

	snap := s.Snapshot()
	testutil.AssertEqual(t, "visa", snap.Visa, models.VisaStatus{Subclass: models.VisaBridgingA, ExpiryDays: 180})
	testutil.AssertEqual(t, "phase", snap.Phase, models.PhaseStudent)
}

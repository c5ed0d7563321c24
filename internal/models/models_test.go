package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"
	"gopkg.in/yaml.v3"
)

func TestEffectListYAML(t *testing.T) {
	src := `
- kind: stat_delta
  stats: {money: -50, sanity: 15}
- kind: visa_change
  subclass: subclass_485
- kind: terminate
  reason: Flew home.
`
	var got EffectList
	if err := yaml.Unmarshal([]byte(src), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := EffectList{
		StatDelta{Deltas: StatDeltas{StatMoney: -50, StatSanity: 15}},
		VisaChange{Subclass: Visa485},
		Terminate{Reason: "Flew home."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded effects (-want +got):\n%s", diff)
	}

	out, err := yaml.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again EffectList
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("Unmarshal again: %v", err)
	}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Errorf("re-decoded effects (-want +got):\n%s", diff)
	}
}

func TestEffectListJSON(t *testing.T) {
	in := EffectList{
		VisaChange{Subclass: Visa189},
		Terminate{Reason: "PR", Ending: EndingPRGranted},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	testutil.AssertEqual(t, "json", string(data),
		`[{"kind":"visa_change","subclass":"subclass_189"},{"kind":"terminate","reason":"PR","ending":"pr_granted"}]`)

	var out EffectList
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("decoded effects (-want +got):\n%s", diff)
	}
}

func TestEffectListUnknownKind(t *testing.T) {
	var l EffectList
	err := yaml.Unmarshal([]byte("- kind: explode\n"), &l)
	testutil.AssertErrorContains(t, err, `unknown kind "explode"`)

	err = json.Unmarshal([]byte(`[{"kind":"explode"}]`), &l)
	testutil.AssertErrorContains(t, err, `unknown kind "explode"`)
}

func TestEffectListEmpty(t *testing.T) {
	var l EffectList
	if err := yaml.Unmarshal([]byte("[]"), &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	testutil.AssertEqual(t, "nil", l == nil, true)
}

func TestGameEventTerminal(t *testing.T) {
	ev := &GameEvent{Options: []Option{
		{Label: "stay", Effects: EffectList{StatDelta{Deltas: StatDeltas{StatSanity: 1}}}},
	}}
	testutil.AssertEqual(t, "not terminal", ev.Terminal(), false)

	ev.Options = append(ev.Options, Option{Label: "leave", Effects: EffectList{Terminate{}}})
	testutil.AssertEqual(t, "terminal", ev.Terminal(), true)
}

func TestStatsGetSet(t *testing.T) {
	var s Stats
	for i, k := range AllStats {
		s.Set(k, i+1)
	}
	for i, k := range AllStats {
		testutil.AssertEqual(t, string(k), s.Get(k), i+1)
	}

	s.Set("charisma", 99)
	testutil.AssertEqual(t, "unknown", s.Get("charisma"), 0)
	testutil.AssertEqual(t, "valid", Stat("charisma").Valid(), false)
}

func TestStatDeltas(t *testing.T) {
	d := StatDeltas{StatSanity: 15, StatMoney: -50}

	if diff := cmp.Diff([]Stat{StatMoney, StatSanity}, d.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "string", d.String(), "money -50, sanity +15")

	merged := d.Merge(StatDeltas{StatMoney: 100, StatWAM: 2})
	testutil.AssertEqual(t, "merged money", merged[StatMoney], 50)
	testutil.AssertEqual(t, "merged wam", merged[StatWAM], 2)
	testutil.AssertEqual(t, "original untouched", d[StatMoney], -50)

	var empty StatDeltas
	testutil.AssertEqual(t, "merge into nil", empty.Merge(StatDeltas{StatAge: 1})[StatAge], 1)
}

func TestPhaseActive(t *testing.T) {
	tests := map[Phase]bool{
		PhaseIntro:     false,
		PhaseStudent:   true,
		PhaseGraduate:  true,
		PhaseWorking:   true,
		PhasePRGranted: true,
		PhaseGameOver:  false,
		"":             false,
	}
	for p, exp := range tests {
		testutil.AssertEqual(t, string(p), p.Active(), exp)
	}
}

func TestSnapshotClone(t *testing.T) {
	s := &Snapshot{
		Assets:       []string{"car"},
		Inventory:    []string{"flowers"},
		NPCRelations: map[string]int{"sam": 10},
		EventsLog:    []string{"hello"},
	}
	c := s.Clone()
	c.Assets[0] = "bike"
	c.Inventory = append(c.Inventory, "watch")
	c.NPCRelations["sam"] = 90
	c.EventsLog[0] = "bye"

	testutil.AssertEqual(t, "assets", s.Assets[0], "car")
	testutil.AssertEqual(t, "inventory", len(s.Inventory), 1)
	testutil.AssertEqual(t, "relations", s.NPCRelations["sam"], 10)
	testutil.AssertEqual(t, "log", s.EventsLog[0], "hello")
	testutil.AssertEqual(t, "has asset", c.HasAsset("bike"), true)
	testutil.AssertEqual(t, "has item", c.HasItem("watch"), true)

	var nilSnap *Snapshot
	testutil.AssertEqual(t, "nil clone", nilSnap.Clone() == nil, true)
}

func TestGameEventClone(t *testing.T) {
	minQ := 4
	ev := &GameEvent{
		ID: "e",
		Condition: &Condition{
			Phases:             []Phase{PhaseStudent},
			Assets:             []string{"car"},
			MinQuartersStudied: &minQ,
			MinStats:           StatDeltas{StatWAM: 70},
		},
		Options: []Option{{
			Label:    "go",
			Cost:     Cost{AP: 2},
			Requires: StatDeltas{StatEnglish: 50},
			Effects:  EffectList{StatDelta{Deltas: StatDeltas{StatMoney: 10}}, Terminate{Reason: "bye"}},
		}},
	}
	want := &GameEvent{
		ID: "e",
		Condition: &Condition{
			Phases:             []Phase{PhaseStudent},
			Assets:             []string{"car"},
			MinQuartersStudied: &minQ,
			MinStats:           StatDeltas{StatWAM: 70},
		},
		Options: []Option{{
			Label:    "go",
			Cost:     Cost{AP: 2},
			Requires: StatDeltas{StatEnglish: 50},
			Effects:  EffectList{StatDelta{Deltas: StatDeltas{StatMoney: 10}}, Terminate{Reason: "bye"}},
		}},
	}

	c := ev.Clone()
	if diff := cmp.Diff(ev, c); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	c.Condition.Phases[0] = PhaseWorking
	c.Condition.Assets[0] = "bike"
	*c.Condition.MinQuartersStudied = 9
	c.Condition.MinStats[StatWAM] = 1
	c.Options[0].Cost.AP = 99
	c.Options[0].Requires[StatEnglish] = 1
	c.Options[0].Effects[0].(StatDelta).Deltas[StatMoney] = -1

	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("original changed through clone (-want +got):\n%s", diff)
	}

	var nilEvent *GameEvent
	testutil.AssertEqual(t, "nil clone", nilEvent.Clone() == nil, true)
}

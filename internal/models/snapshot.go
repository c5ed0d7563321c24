package models

// Snapshot is the full state of a run. It is a plain value: the engine hands
// out copies and storage persists and restores it verbatim.
type Snapshot struct {
	RunID     string `yaml:"run_id" json:"run_id"`
	Seed      int64  `yaml:"seed" json:"seed"`
	RandDraws uint64 `yaml:"rand_draws" json:"rand_draws"`

	Phase   Phase      `yaml:"phase" json:"phase"`
	Profile Profile    `yaml:"profile" json:"profile"`
	Stats   Stats      `yaml:"stats" json:"stats"`
	Visa    VisaStatus `yaml:"visa" json:"visa"`
	Clock   Clock      `yaml:"clock" json:"clock"`

	Housing        string         `yaml:"housing" json:"housing"`
	Region         string         `yaml:"region" json:"region"`
	Assets         []string       `yaml:"assets,omitempty" json:"assets,omitempty"`
	Inventory      []string       `yaml:"inventory,omitempty" json:"inventory,omitempty"`
	NPCRelations   map[string]int `yaml:"npc_relations,omitempty" json:"npc_relations,omitempty"`
	CoffeeConsumed int            `yaml:"coffee_consumed" json:"coffee_consumed"`
	WeekendTaken   bool           `yaml:"weekend_taken" json:"weekend_taken"`

	CurrentEvent *GameEvent `yaml:"current_event,omitempty" json:"current_event,omitempty"`
	ChainDepth   int        `yaml:"chain_depth" json:"chain_depth"`

	GameOver       bool     `yaml:"game_over" json:"game_over"`
	GameOverReason string   `yaml:"game_over_reason,omitempty" json:"game_over_reason,omitempty"`
	Ending         EndingID `yaml:"ending,omitempty" json:"ending,omitempty"`

	EventsLog []string `yaml:"events_log,omitempty" json:"events_log,omitempty"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Assets = cloneStrings(s.Assets)
	c.Inventory = cloneStrings(s.Inventory)
	c.EventsLog = cloneStrings(s.EventsLog)
	c.CurrentEvent = s.CurrentEvent.Clone()
	if s.NPCRelations != nil {
		c.NPCRelations = make(map[string]int, len(s.NPCRelations))
		for k, v := range s.NPCRelations {
			c.NPCRelations[k] = v
		}
	}
	return &c
}

// HasAsset reports whether the player owns the asset.
func (s *Snapshot) HasAsset(id string) bool {
	return contains(s.Assets, id)
}

// HasItem reports whether the inventory holds the item.
func (s *Snapshot) HasItem(id string) bool {
	return contains(s.Inventory, id)
}

// AwaitingChoice reports whether an event is waiting for an option.
func (s *Snapshot) AwaitingChoice() bool {
	return s.CurrentEvent != nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

package engine

import "github.com/tatianab/student-sim/internal/models"

// Event is a domain event published to subscribers after a state change has
// been committed.
type Event interface {
	Name() string
}

// Subscriber receives domain events. It runs on the goroutine that made the
// change, after the store lock is released, so it may read the store.
type Subscriber func(Event)

type GameStarted struct {
	RunID   string
	Profile models.Profile
	Buffs   []string
}

type GameReset struct{}

type StatsChanged struct {
	Before models.Stats
	After  models.Stats
}

type QuarterAdvanced struct {
	Year          int
	Quarter       int
	TotalQuarters int
	Rent          int
	GameOver      bool
}

type EventTriggered struct {
	EventID string
	Chained bool
}

type OptionResolved struct {
	EventID string
	Label   string
}

type VisaChanged struct {
	From models.VisaSubclass
	To   models.VisaSubclass
}

type EndingReached struct {
	RunID  string
	Ending models.EndingID
	Reason string
}

type ActionPerformed struct {
	Action string
}

type NPCInteracted struct {
	NPC         string
	Interaction Interaction
	Relation    int
}

type ItemBought struct {
	Item string
}

type ItemGiven struct {
	NPC  string
	Item string
}

func (GameStarted) Name() string     { return "game_started" }
func (GameReset) Name() string       { return "game_reset" }
func (StatsChanged) Name() string    { return "stats_changed" }
func (QuarterAdvanced) Name() string { return "quarter_advanced" }
func (EventTriggered) Name() string  { return "event_triggered" }
func (OptionResolved) Name() string  { return "option_resolved" }
func (VisaChanged) Name() string     { return "visa_changed" }
func (EndingReached) Name() string   { return "ending_reached" }
func (ActionPerformed) Name() string { return "action_performed" }
func (NPCInteracted) Name() string   { return "npc_interacted" }
func (ItemBought) Name() string      { return "item_bought" }
func (ItemGiven) Name() string       { return "item_given" }

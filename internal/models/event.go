package models

import "slices"

// Category tags an event for the phase filter of the selector.
type Category string

const (
	CategoryAcademic Category = "academic"
	CategoryCareer   Category = "career"
	CategoryLife     Category = "life"
	CategoryRandom   Category = "random"
)

// GameEvent is a narrative event the player must answer by picking one
// option. Events are immutable once loaded.
type GameEvent struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Category    Category   `yaml:"category" json:"category"`
	Special     bool       `yaml:"special,omitempty" json:"special,omitempty"` // never drawn by the selector
	Condition   *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
	Options     []Option   `yaml:"options" json:"options"`
}

// Terminal reports whether any option of the event ends the run.
func (e *GameEvent) Terminal() bool {
	for _, o := range e.Options {
		for _, eff := range o.Effects {
			if _, ok := eff.(Terminate); ok {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy that shares no memory with e.
func (e *GameEvent) Clone() *GameEvent {
	if e == nil {
		return nil
	}
	c := *e
	c.Condition = e.Condition.Clone()
	if e.Options != nil {
		c.Options = make([]Option, len(e.Options))
		for i, o := range e.Options {
			c.Options[i] = o.Clone()
		}
	}
	return &c
}

// Option is one answer to a GameEvent.
type Option struct {
	Label       string     `yaml:"label" json:"label"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Cost        Cost       `yaml:"cost,omitempty" json:"cost,omitempty"`
	Requires    StatDeltas `yaml:"requires,omitempty" json:"requires,omitempty"`
	Effects     EffectList `yaml:"effects,omitempty" json:"effects,omitempty"`
	Next        string     `yaml:"next,omitempty" json:"next,omitempty"`
}

func (o Option) Clone() Option {
	o.Requires = o.Requires.Clone()
	o.Effects = o.Effects.Clone()
	return o
}

// Cost is what an option or action takes from the player up front.
type Cost struct {
	AP     int `yaml:"ap,omitempty" json:"ap,omitempty"`
	Money  int `yaml:"money,omitempty" json:"money,omitempty"`
	Sanity int `yaml:"sanity,omitempty" json:"sanity,omitempty"`
}

// IsZero reports whether the cost is free.
func (c Cost) IsZero() bool {
	return c.AP == 0 && c.Money == 0 && c.Sanity == 0
}

// Condition is a declarative eligibility predicate over the run state. Every
// populated field must hold for the condition to match.
type Condition struct {
	Phases             []Phase        `yaml:"phases,omitempty" json:"phases,omitempty"`
	Housing            []string       `yaml:"housing,omitempty" json:"housing,omitempty"`
	Regions            []string       `yaml:"regions,omitempty" json:"regions,omitempty"`
	Assets             []string       `yaml:"assets,omitempty" json:"assets,omitempty"`
	Subclasses         []VisaSubclass `yaml:"subclasses,omitempty" json:"subclasses,omitempty"`
	MinQuartersStudied *int           `yaml:"min_quarters_studied,omitempty" json:"min_quarters_studied,omitempty"`
	MaxQuartersStudied *int           `yaml:"max_quarters_studied,omitempty" json:"max_quarters_studied,omitempty"`
	MinStats           StatDeltas     `yaml:"min_stats,omitempty" json:"min_stats,omitempty"`
	MaxStats           StatDeltas     `yaml:"max_stats,omitempty" json:"max_stats,omitempty"`
}

func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	out := *c
	out.Phases = slices.Clone(c.Phases)
	out.Housing = slices.Clone(c.Housing)
	out.Regions = slices.Clone(c.Regions)
	out.Assets = slices.Clone(c.Assets)
	out.Subclasses = slices.Clone(c.Subclasses)
	out.MinQuartersStudied = cloneInt(c.MinQuartersStudied)
	out.MaxQuartersStudied = cloneInt(c.MaxQuartersStudied)
	out.MinStats = c.MinStats.Clone()
	out.MaxStats = c.MaxStats.Clone()
	return &out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

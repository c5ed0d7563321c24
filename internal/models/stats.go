package models

import (
	"fmt"
	"sort"
	"strings"
)

// Stat is the key of a numeric player stat.
type Stat string

const (
	StatAge          Stat = "age"
	StatSanity       Stat = "sanity"
	StatMoney        Stat = "money"
	StatWAM          Stat = "wam"
	StatEnglish      Stat = "english"
	StatExperience   Stat = "experience"
	StatNetwork      Stat = "network"
	StatPRScore      Stat = "pr_score"
	StatIntelligence Stat = "intelligence"
	StatCoding       Stat = "coding"
	StatHealth       Stat = "health"
)

// AllStats lists every stat key in display order.
var AllStats = []Stat{
	StatAge, StatSanity, StatMoney, StatWAM, StatEnglish, StatExperience,
	StatNetwork, StatPRScore, StatIntelligence, StatCoding, StatHealth,
}

// Valid reports whether s is a known stat key.
func (s Stat) Valid() bool {
	for _, k := range AllStats {
		if k == s {
			return true
		}
	}
	return false
}

// Stats is the mutable numeric record of the player.
type Stats struct {
	Age          int `yaml:"age" json:"age"`
	Sanity       int `yaml:"sanity" json:"sanity"`
	Money        int `yaml:"money" json:"money"`
	WAM          int `yaml:"wam" json:"wam"`
	English      int `yaml:"english" json:"english"`
	Experience   int `yaml:"experience" json:"experience"`
	Network      int `yaml:"network" json:"network"`
	PRScore      int `yaml:"pr_score" json:"pr_score"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
	Coding       int `yaml:"coding" json:"coding"`
	Health       int `yaml:"health" json:"health"`
}

func (s *Stats) field(k Stat) *int {
	switch k {
	case StatAge:
		return &s.Age
	case StatSanity:
		return &s.Sanity
	case StatMoney:
		return &s.Money
	case StatWAM:
		return &s.WAM
	case StatEnglish:
		return &s.English
	case StatExperience:
		return &s.Experience
	case StatNetwork:
		return &s.Network
	case StatPRScore:
		return &s.PRScore
	case StatIntelligence:
		return &s.Intelligence
	case StatCoding:
		return &s.Coding
	case StatHealth:
		return &s.Health
	}
	return nil
}

// Get returns the value of stat k, or 0 for an unknown key.
func (s Stats) Get(k Stat) int {
	if p := s.field(k); p != nil {
		return *p
	}
	return 0
}

// Set stores v into stat k. Unknown keys are ignored.
func (s *Stats) Set(k Stat, v int) {
	if p := s.field(k); p != nil {
		*p = v
	}
}

// StatDeltas maps stat keys to signed amounts. It is used both for deltas
// and for minimum-stat gates.
type StatDeltas map[Stat]int

// Keys returns the keys in a stable order.
func (d StatDeltas) Keys() []Stat {
	keys := make([]Stat, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns an independent copy.
func (d StatDeltas) Clone() StatDeltas {
	if d == nil {
		return nil
	}
	out := make(StatDeltas, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge adds every delta of o into a copy of d.
func (d StatDeltas) Merge(o StatDeltas) StatDeltas {
	out := d.Clone()
	if out == nil {
		out = StatDeltas{}
	}
	for k, v := range o {
		out[k] += v
	}
	return out
}

// String renders the deltas as "money -50, sanity +15".
func (d StatDeltas) String() string {
	parts := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		parts = append(parts, fmt.Sprintf("%s %+d", k, d[k]))
	}
	return strings.Join(parts, ", ")
}

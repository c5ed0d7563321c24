package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EffectKind discriminates the Effect variants on the wire.
type EffectKind string

const (
	KindStatDelta  EffectKind = "stat_delta"
	KindVisaChange EffectKind = "visa_change"
	KindTerminate  EffectKind = "terminate"
)

// Effect is the outcome of choosing an option. The concrete types are
// StatDelta, VisaChange and Terminate.
type Effect interface {
	Kind() EffectKind
}

// StatDelta adjusts player stats through the resource ledger.
type StatDelta struct {
	Deltas StatDeltas
}

// VisaChange grants a new visa subclass.
type VisaChange struct {
	Subclass VisaSubclass
}

// Terminate ends the run. An empty Ending lets the classifier decide.
type Terminate struct {
	Reason string
	Ending EndingID
}

func (StatDelta) Kind() EffectKind  { return KindStatDelta }
func (VisaChange) Kind() EffectKind { return KindVisaChange }
func (Terminate) Kind() EffectKind  { return KindTerminate }

// EffectList is an ordered list of effects with a tagged YAML/JSON encoding.
type EffectList []Effect

// Clone copies the list and the stat maps inside it.
func (l EffectList) Clone() EffectList {
	if l == nil {
		return nil
	}
	out := make(EffectList, len(l))
	for i, e := range l {
		if d, ok := e.(StatDelta); ok {
			e = StatDelta{Deltas: d.Deltas.Clone()}
		}
		out[i] = e
	}
	return out
}

type effectDoc struct {
	Kind     EffectKind   `yaml:"kind" json:"kind"`
	Stats    StatDeltas   `yaml:"stats,omitempty" json:"stats,omitempty"`
	Subclass VisaSubclass `yaml:"subclass,omitempty" json:"subclass,omitempty"`
	Reason   string       `yaml:"reason,omitempty" json:"reason,omitempty"`
	Ending   EndingID     `yaml:"ending,omitempty" json:"ending,omitempty"`
}

func (l EffectList) docs() ([]effectDoc, error) {
	out := make([]effectDoc, 0, len(l))
	for _, e := range l {
		switch v := e.(type) {
		case StatDelta:
			out = append(out, effectDoc{Kind: KindStatDelta, Stats: v.Deltas})
		case VisaChange:
			out = append(out, effectDoc{Kind: KindVisaChange, Subclass: v.Subclass})
		case Terminate:
			out = append(out, effectDoc{Kind: KindTerminate, Reason: v.Reason, Ending: v.Ending})
		default:
			return nil, fmt.Errorf("unknown effect type %T", e)
		}
	}
	return out, nil
}

func fromDocs(docs []effectDoc) (EffectList, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make(EffectList, 0, len(docs))
	for i, d := range docs {
		switch d.Kind {
		case KindStatDelta:
			out = append(out, StatDelta{Deltas: d.Stats})
		case KindVisaChange:
			out = append(out, VisaChange{Subclass: d.Subclass})
		case KindTerminate:
			out = append(out, Terminate{Reason: d.Reason, Ending: d.Ending})
		default:
			return nil, fmt.Errorf("effect %d: unknown kind %q", i, d.Kind)
		}
	}
	return out, nil
}

func (l EffectList) MarshalYAML() (interface{}, error) {
	return l.docs()
}

func (l *EffectList) UnmarshalYAML(n *yaml.Node) error {
	var docs []effectDoc
	if err := n.Decode(&docs); err != nil {
		return err
	}
	out, err := fromDocs(docs)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

func (l EffectList) MarshalJSON() ([]byte, error) {
	docs, err := l.docs()
	if err != nil {
		return nil, err
	}
	return json.Marshal(docs)
}

func (l *EffectList) UnmarshalJSON(data []byte) error {
	var docs []effectDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return err
	}
	out, err := fromDocs(docs)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

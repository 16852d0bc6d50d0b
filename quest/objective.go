package quest

import "fmt"

// Outcome is one named terminal resolution of an Objective, e.g. "success"
// or "failure". The type tag is opaque to the engine and is used by
// game-side dispatch.
type Outcome struct {
	name    string
	message string
	typ     string
}

// NewOutcome creates an Outcome with the given name, player-facing message
// and type tag.
func NewOutcome(name, message, typ string) Outcome {
	return Outcome{name: name, message: message, typ: typ}
}

func (o Outcome) Name() string    { return o.name }
func (o Outcome) Message() string { return o.message }
func (o Outcome) Type() string    { return o.typ }

// Objective is one step within a Quest, resolvable to exactly one of its
// outcomes.
type Objective struct {
	name        string
	description string
	outcomes    []Outcome
}

// NewObjective creates an Objective. Every objective needs at least one
// outcome, and outcome names must be unique within the objective.
func NewObjective(name, description string, outcomes []Outcome) (Objective, error) {
	if name == "" {
		return Objective{}, fmt.Errorf("objective: empty name")
	}
	if len(outcomes) == 0 {
		return Objective{}, fmt.Errorf("objective %q: no outcomes", name)
	}
	seen := make(map[string]struct{}, len(outcomes))
	for _, out := range outcomes {
		if out.name == "" {
			return Objective{}, fmt.Errorf("objective %q: empty outcome name", name)
		}
		if _, dup := seen[out.name]; dup {
			return Objective{}, fmt.Errorf("objective %q: duplicate outcome %q", name, out.name)
		}
		seen[out.name] = struct{}{}
	}
	cp := make([]Outcome, len(outcomes))
	copy(cp, outcomes)
	return Objective{name: name, description: description, outcomes: cp}, nil
}

func (o Objective) Name() string        { return o.name }
func (o Objective) Description() string { return o.description }

// Outcomes returns a copy of the objective's outcomes in declaration order.
func (o Objective) Outcomes() []Outcome {
	cp := make([]Outcome, len(o.outcomes))
	copy(cp, o.outcomes)
	return cp
}

// NumOutcomes returns the number of outcomes without copying.
func (o Objective) NumOutcomes() int { return len(o.outcomes) }

// Outcome returns the outcome with the given name, or nil if the objective
// has no such outcome.
func (o Objective) Outcome(name string) *Outcome {
	for i := range o.outcomes {
		if o.outcomes[i].name == name {
			out := o.outcomes[i]
			return &out
		}
	}
	return nil
}

package quest

import (
	"fmt"

	"github.com/google/uuid"
)

// ProgressState is the state of one objective within an instance.
type ProgressState int

const (
	StatePending ProgressState = iota
	StateInProgress
	StateResolved
)

func (s ProgressState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "active"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("ProgressState(%d)", int(s))
	}
}

// ObjectiveProgress tracks one quester's progress on one objective of one
// quest instance. Transitions: Pending → InProgress → Resolved(outcome).
// An objective resolves exactly once.
type ObjectiveProgress struct {
	objective Objective
	state     ProgressState
	outcome   string
}

func (p *ObjectiveProgress) Objective() Objective { return p.objective }
func (p *ObjectiveProgress) State() ProgressState { return p.state }

// Outcome returns the name of the outcome the objective resolved with, or
// "" while unresolved.
func (p *ObjectiveProgress) Outcome() string { return p.outcome }

// Begin marks a pending objective as in progress. Beginning an in-progress
// objective is a no-op; beginning a resolved one is a state error.
func (p *ObjectiveProgress) Begin() error {
	if p.state == StateResolved {
		return fmt.Errorf("objective %q: %w", p.objective.name, ErrObjectiveResolved)
	}
	p.state = StateInProgress
	return nil
}

// Resolve resolves the objective with the named outcome. The outcome must
// exist on the objective, and the objective must not already be resolved.
func (p *ObjectiveProgress) Resolve(outcome string) error {
	if p.state == StateResolved {
		return fmt.Errorf("objective %q: %w", p.objective.name, ErrObjectiveResolved)
	}
	if p.objective.Outcome(outcome) == nil {
		return fmt.Errorf("objective %q, outcome %q: %w", p.objective.name, outcome, ErrUnknownOutcome)
	}
	p.state = StateResolved
	p.outcome = outcome
	return nil
}

// Instance is one quester's live attempt at a Quest. Progress entries are
// positionally aligned with the quest's objectives.
type Instance struct {
	id       string
	quest    *Quest
	quester  string
	attempt  int
	progress []*ObjectiveProgress
}

// newInstance populates one ObjectiveProgress per objective, in order.
func newInstance(q *Quest, quester string, attempt int) *Instance {
	inst := &Instance{
		id:       uuid.New().String(),
		quest:    q,
		quester:  quester,
		attempt:  attempt,
		progress: make([]*ObjectiveProgress, len(q.objectives)),
	}
	for i, obj := range q.objectives {
		inst.progress[i] = &ObjectiveProgress{objective: obj}
	}
	return inst
}

func (in *Instance) ID() string      { return in.id }
func (in *Instance) Quest() *Quest   { return in.quest }
func (in *Instance) Quester() string { return in.quester }

// Attempt is the ordinal of this attempt, equal to the quester's completion
// count for the quest when the instance was started.
func (in *Instance) Attempt() int { return in.attempt }

// Progress returns the per-objective progress entries. The slice is a copy;
// the entries are the live state.
func (in *Instance) Progress() []*ObjectiveProgress {
	return append([]*ObjectiveProgress(nil), in.progress...)
}

// ObjectiveProgress returns the progress entry for the named objective, or
// nil if the quest has no such objective.
func (in *Instance) ObjectiveProgress(name string) *ObjectiveProgress {
	for _, p := range in.progress {
		if p.objective.name == name {
			return p
		}
	}
	return nil
}

// Resolve resolves the named objective with the named outcome.
func (in *Instance) Resolve(objective, outcome string) error {
	p := in.ObjectiveProgress(objective)
	if p == nil {
		return fmt.Errorf("quest %q, objective %q: %w", in.quest.name, objective, ErrUnknownObjective)
	}
	return p.Resolve(outcome)
}

// Finished reports whether every objective has resolved.
func (in *Instance) Finished() bool {
	for _, p := range in.progress {
		if p.state != StateResolved {
			return false
		}
	}
	return true
}

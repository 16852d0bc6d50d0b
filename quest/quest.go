// Package quest implements a game-agnostic quest progress engine: immutable
// quest definitions, per-quester instances tracking objective progress, and
// a manager owning registration, prerequisite checks and completion counts.
package quest

import "fmt"

// Definition holds everything needed to construct a Quest. It is consumed
// by New and typically produced by the builder package or the JSON loader.
type Definition struct {
	Name           string
	Description    string
	BeginMessage   string
	FinishMessage  string
	MaxCompletions int
	Prerequisites  []string
	Rewards        []string
	Objectives     []Objective
}

// Quest is the immutable outline of a quest. One Quest is created per
// configured quest; all mutable per-quester state lives in Instance.
type Quest struct {
	name           string
	description    string
	beginMessage   string
	finishMessage  string
	maxCompletions int
	prerequisites  []string
	rewards        []string
	objectives     []Objective
}

// New constructs a Quest from a Definition. Construction has no side
// effects; register the result with Manager.AddQuest explicitly.
// Objective names must be unique within the quest. A MaxCompletions of -1
// means the quest can be completed any number of times.
func New(def Definition) (*Quest, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("quest: empty name")
	}
	if len(def.Objectives) == 0 {
		return nil, fmt.Errorf("quest %q: no objectives", def.Name)
	}
	seen := make(map[string]struct{}, len(def.Objectives))
	for _, obj := range def.Objectives {
		if _, dup := seen[obj.name]; dup {
			return nil, fmt.Errorf("quest %q: duplicate objective %q", def.Name, obj.name)
		}
		seen[obj.name] = struct{}{}
	}
	q := &Quest{
		name:           def.Name,
		description:    def.Description,
		beginMessage:   def.BeginMessage,
		finishMessage:  def.FinishMessage,
		maxCompletions: def.MaxCompletions,
		prerequisites:  append([]string(nil), def.Prerequisites...),
		rewards:        append([]string(nil), def.Rewards...),
		objectives:     append([]Objective(nil), def.Objectives...),
	}
	return q, nil
}

func (q *Quest) Name() string          { return q.name }
func (q *Quest) Description() string   { return q.description }
func (q *Quest) BeginMessage() string  { return q.beginMessage }
func (q *Quest) FinishMessage() string { return q.finishMessage }

// MaxCompletions returns the completion cap, or -1 for unlimited.
func (q *Quest) MaxCompletions() int { return q.maxCompletions }

// Objectives returns a copy of the quest's objectives in declaration order.
// Mutating the returned slice has no effect on the quest.
func (q *Quest) Objectives() []Objective {
	return append([]Objective(nil), q.objectives...)
}

// NumObjectives returns the objective count without copying.
func (q *Quest) NumObjectives() int { return len(q.objectives) }

// Objective returns the objective with the given name, or nil if the quest
// has no such objective.
func (q *Quest) Objective(name string) *Objective {
	for i := range q.objectives {
		if q.objectives[i].name == name {
			obj := q.objectives[i]
			return &obj
		}
	}
	return nil
}

// Rewards returns a copy of the quest's opaque reward identifiers. Applying
// rewards is entirely up to the caller.
func (q *Quest) Rewards() []string {
	return append([]string(nil), q.rewards...)
}

// Prerequisites returns a copy of the quest names that must be completed
// before this quest may be started, in declaration order.
func (q *Quest) Prerequisites() []string {
	return append([]string(nil), q.prerequisites...)
}

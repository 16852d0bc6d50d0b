// Package builder provides a fluent API for authoring quest definitions.
// Builders are cached by quest name so scripted loaders can pick up a
// half-built quest and keep adding to it; Build produces the immutable
// quest.Quest, which the caller registers with the manager.
package builder

import (
	"sync"

	"github.com/volumetricpixels/questy/quest"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[string]*QuestBuilder)
)

// Quest returns the builder for the named quest, creating one on first use.
// Repeated calls with the same name return the same builder.
func Quest(name string) *QuestBuilder {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if b, ok := cache[name]; ok {
		return b
	}
	b := &QuestBuilder{name: name, maxCompletions: -1}
	cache[name] = b
	return b
}

// Reset clears the builder cache. Intended for tests.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]*QuestBuilder)
}

// QuestBuilder accumulates one quest definition.
type QuestBuilder struct {
	name           string
	description    string
	beginMessage   string
	finishMessage  string
	maxCompletions int
	prerequisites  []string
	rewards        []string
	objectives     []*ObjectiveBuilder
}

func (b *QuestBuilder) Description(s string) *QuestBuilder   { b.description = s; return b }
func (b *QuestBuilder) BeginMessage(s string) *QuestBuilder  { b.beginMessage = s; return b }
func (b *QuestBuilder) FinishMessage(s string) *QuestBuilder { b.finishMessage = s; return b }

// MaxCompletions caps how often the quest may be completed; -1 (the
// default) means unlimited.
func (b *QuestBuilder) MaxCompletions(n int) *QuestBuilder { b.maxCompletions = n; return b }

// Prerequisites appends quest names that must be completed first.
func (b *QuestBuilder) Prerequisites(names ...string) *QuestBuilder {
	b.prerequisites = append(b.prerequisites, names...)
	return b
}

// Rewards appends opaque reward identifiers.
func (b *QuestBuilder) Rewards(ids ...string) *QuestBuilder {
	b.rewards = append(b.rewards, ids...)
	return b
}

// Objective returns the builder for the named objective, creating one on
// first use. Repeated calls with the same name return the same builder.
func (b *QuestBuilder) Objective(name string) *ObjectiveBuilder {
	for _, ob := range b.objectives {
		if ob.name == name {
			return ob
		}
	}
	ob := &ObjectiveBuilder{name: name}
	b.objectives = append(b.objectives, ob)
	return ob
}

// Build assembles the immutable Quest. Validation (non-empty names, at
// least one objective, at least one outcome per objective, no duplicate
// names) happens here; a failed Build leaves the builder cached and
// editable.
func (b *QuestBuilder) Build() (*quest.Quest, error) {
	objectives := make([]quest.Objective, 0, len(b.objectives))
	for _, ob := range b.objectives {
		obj, err := ob.build()
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, obj)
	}
	return quest.New(quest.Definition{
		Name:           b.name,
		Description:    b.description,
		BeginMessage:   b.beginMessage,
		FinishMessage:  b.finishMessage,
		MaxCompletions: b.maxCompletions,
		Prerequisites:  b.prerequisites,
		Rewards:        b.rewards,
		Objectives:     objectives,
	})
}

// ObjectiveBuilder accumulates one objective definition.
type ObjectiveBuilder struct {
	name        string
	description string
	outcomes    []*OutcomeBuilder
}

func (b *ObjectiveBuilder) Description(s string) *ObjectiveBuilder { b.description = s; return b }

// Outcome returns the builder for the named outcome, creating one on first
// use.
func (b *ObjectiveBuilder) Outcome(name string) *OutcomeBuilder {
	for _, ob := range b.outcomes {
		if ob.name == name {
			return ob
		}
	}
	ob := &OutcomeBuilder{name: name}
	b.outcomes = append(b.outcomes, ob)
	return ob
}

func (b *ObjectiveBuilder) build() (quest.Objective, error) {
	outcomes := make([]quest.Outcome, 0, len(b.outcomes))
	for _, ob := range b.outcomes {
		outcomes = append(outcomes, quest.NewOutcome(ob.name, ob.message, ob.typ))
	}
	return quest.NewObjective(b.name, b.description, outcomes)
}

// OutcomeBuilder accumulates one outcome definition.
type OutcomeBuilder struct {
	name    string
	message string
	typ     string
}

func (b *OutcomeBuilder) Message(s string) *OutcomeBuilder { b.message = s; return b }

// Type sets the tag game-side dispatch keys on.
func (b *OutcomeBuilder) Type(s string) *OutcomeBuilder { b.typ = s; return b }

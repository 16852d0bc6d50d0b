package quest

import "errors"

var (
	// ErrDuplicateQuest is returned by Manager.AddQuest when a quest with
	// the same name is already registered.
	ErrDuplicateQuest = errors.New("quest: name already registered")

	// ErrQuestActive is returned by Manager.Start when the quester already
	// has an unfinished instance of the quest.
	ErrQuestActive = errors.New("quest: already active for quester")

	// ErrNotActive is returned when an operation targets a (quest, quester)
	// pair with no active instance.
	ErrNotActive = errors.New("quest: no active instance")

	// ErrPrerequisites is returned by Manager.Start when the quester does
	// not satisfy the quest's prerequisites or completion cap.
	ErrPrerequisites = errors.New("quest: prerequisites not satisfied")

	// ErrObjectiveResolved is returned when resolving an objective that has
	// already been resolved.
	ErrObjectiveResolved = errors.New("quest: objective already resolved")

	// ErrUnknownObjective is returned when an instance has no objective
	// with the given name.
	ErrUnknownObjective = errors.New("quest: unknown objective")

	// ErrUnknownOutcome is returned when an objective has no outcome with
	// the given name.
	ErrUnknownOutcome = errors.New("quest: unknown outcome")
)

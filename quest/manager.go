package quest

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/volumetricpixels/questy/store"
	"go.uber.org/zap"
)

// instanceKey identifies one (quest, quester) pair.
type instanceKey struct {
	quest   string
	quester string
}

// Manager is the process-wide quest registry. It owns every Quest
// definition, tracks active instances (at most one per quest/quester pair)
// and completion counts, and answers prerequisite queries. All shared state
// is guarded by a single coarse mutex so the engine can be embedded in a
// concurrent host.
type Manager struct {
	mu          sync.Mutex
	quests      map[string]*Quest
	order       []string
	active      map[instanceKey]*Instance
	completions map[instanceKey]int
	logger      *zap.Logger
}

// NewManager creates an empty Manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		quests:      make(map[string]*Quest),
		active:      make(map[instanceKey]*Instance),
		completions: make(map[instanceKey]int),
		logger:      logger,
	}
}

// AddQuest registers a quest by name. A name collision is a configuration
// error: the registration is rejected and the original quest kept.
func (m *Manager) AddQuest(q *Quest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.quests[q.name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateQuest, q.name)
	}
	m.quests[q.name] = q
	m.order = append(m.order, q.name)
	m.logger.Info("quest registered",
		zap.String("quest", q.name),
		zap.Int("objectives", len(q.objectives)))
	return nil
}

// GetQuest returns the quest with the given name, or nil if none is
// registered under it.
func (m *Manager) GetQuest(name string) *Quest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quests[name]
}

// Quests returns all registered quests in registration order.
func (m *Manager) Quests() []*Quest {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*Quest, 0, len(m.order))
	for _, name := range m.order {
		result = append(result, m.quests[name])
	}
	return result
}

// Start begins a new attempt at the quest for the quester. It refuses when
// an unfinished instance already exists for the pair (ErrQuestActive) or
// when the quester fails the quest's prerequisite check (ErrPrerequisites).
// The new instance's attempt ordinal is the quester's current completion
// count for the quest.
func (m *Manager) Start(q *Quest, quester string) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := instanceKey{quest: q.name, quester: quester}
	if _, exists := m.active[key]; exists {
		return nil, fmt.Errorf("%w: %s for %s", ErrQuestActive, q.name, quester)
	}
	if !m.satisfiesLocked(q, quester) {
		return nil, fmt.Errorf("%w: %s for %s", ErrPrerequisites, q.name, quester)
	}

	inst := newInstance(q, quester, m.completions[key])
	m.active[key] = inst
	m.logger.Info("quest started",
		zap.String("quest", q.name),
		zap.String("quester", quester),
		zap.Int("attempt", inst.attempt))
	return inst, nil
}

// ResolveObjective resolves one objective of the quester's active instance.
// When the resolution finishes the instance, the instance is removed from
// the active set and the completion count incremented; finished reports
// whether that happened.
func (m *Manager) ResolveObjective(questName, quester, objective, outcome string) (finished bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := instanceKey{quest: questName, quester: quester}
	inst, ok := m.active[key]
	if !ok {
		return false, fmt.Errorf("%w: %s for %s", ErrNotActive, questName, quester)
	}
	if err := inst.Resolve(objective, outcome); err != nil {
		return false, err
	}
	if !inst.Finished() {
		return false, nil
	}
	m.finishLocked(key, inst)
	return true, nil
}

// Abandon discards the quester's active instance without recording a
// completion.
func (m *Manager) Abandon(questName, quester string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := instanceKey{quest: questName, quester: quester}
	if _, ok := m.active[key]; !ok {
		return fmt.Errorf("%w: %s for %s", ErrNotActive, questName, quester)
	}
	delete(m.active, key)
	m.logger.Info("quest abandoned",
		zap.String("quest", questName),
		zap.String("quester", quester))
	return nil
}

func (m *Manager) finishLocked(key instanceKey, inst *Instance) {
	delete(m.active, key)
	m.completions[key]++
	m.logger.Info("quest finished",
		zap.String("quest", key.quest),
		zap.String("quester", key.quester),
		zap.Int("completions", m.completions[key]))
}

// ActiveInstance returns the quester's active instance of the quest, or nil.
func (m *Manager) ActiveInstance(questName, quester string) *Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[instanceKey{quest: questName, quester: quester}]
}

// ActiveInstances returns every active instance belonging to the quester,
// in quest registration order.
func (m *Manager) ActiveInstances(quester string) []*Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Instance
	for _, name := range m.order {
		if inst, ok := m.active[instanceKey{quest: name, quester: quester}]; ok {
			result = append(result, inst)
		}
	}
	return result
}

// NumCompletions returns how many times the quester has completed the
// quest; 0 when the pair has never been recorded.
func (m *Manager) NumCompletions(questName, quester string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completions[instanceKey{quest: questName, quester: quester}]
}

// HasCompleted reports whether the quester has completed the quest at
// least once.
func (m *Manager) HasCompleted(questName, quester string) bool {
	return m.NumCompletions(questName, quester) >= 1
}

// Completions returns the quester's completion counts by quest name.
func (m *Manager) Completions(quester string) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]int)
	for key, n := range m.completions {
		if key.quester == quester {
			result[key.quest] = n
		}
	}
	return result
}

// SatisfiesPrerequisites reports whether the quester may start the quest:
// the completion cap must not be exceeded, and every prerequisite quest
// must have been completed. Prerequisites are checked in declaration order
// and the first unmet one fails the check.
func (m *Manager) SatisfiesPrerequisites(q *Quest, quester string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.satisfiesLocked(q, quester)
}

func (m *Manager) satisfiesLocked(q *Quest, quester string) bool {
	key := instanceKey{quest: q.name, quester: quester}
	if q.maxCompletions > -1 && m.completions[key] > q.maxCompletions {
		return false
	}
	for _, prereq := range q.prerequisites {
		if m.completions[instanceKey{quest: prereq, quester: quester}] < 1 {
			return false
		}
	}
	return true
}

// Save writes the manager's live state through the store: active instances
// as the "current" document, completion counts as the "completed" one.
func (m *Manager) Save(ctx context.Context, st store.Store) error {
	m.mu.Lock()
	current := make(store.Data)
	for key, inst := range m.active {
		blob, err := encodeInstance(inst)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		if current[key.quester] == nil {
			current[key.quester] = make(map[string]string)
		}
		current[key.quester][key.quest] = blob
	}
	completed := make(store.Data)
	for key, n := range m.completions {
		if completed[key.quester] == nil {
			completed[key.quester] = make(map[string]string)
		}
		completed[key.quester][key.quest] = strconv.Itoa(n)
	}
	m.mu.Unlock()

	if err := st.SaveCurrent(ctx, current); err != nil {
		return fmt.Errorf("save current quest data: %w", err)
	}
	if err := st.SaveCompleted(ctx, completed); err != nil {
		return fmt.Errorf("save completed quest data: %w", err)
	}
	return nil
}

// Load replaces the manager's instance and completion state with what the
// store holds. Every quest named in the data must already be registered;
// unknown quests or undecodable blobs fail the whole load and leave the
// manager state untouched.
func (m *Manager) Load(ctx context.Context, st store.Store) error {
	current, err := st.LoadCurrent(ctx)
	if err != nil {
		return fmt.Errorf("load current quest data: %w", err)
	}
	completed, err := st.LoadCompleted(ctx)
	if err != nil {
		return fmt.Errorf("load completed quest data: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	active := make(map[instanceKey]*Instance)
	for quester, quests := range current {
		for name, blob := range quests {
			q, ok := m.quests[name]
			if !ok {
				return fmt.Errorf("load current quest data: unknown quest %q for %s", name, quester)
			}
			inst, err := decodeInstance(q, quester, blob)
			if err != nil {
				return fmt.Errorf("load current quest data: %w", err)
			}
			active[instanceKey{quest: name, quester: quester}] = inst
		}
	}

	completions := make(map[instanceKey]int)
	for quester, quests := range completed {
		for name, blob := range quests {
			n, err := strconv.Atoi(blob)
			if err != nil {
				return fmt.Errorf("load completed quest data: quest %q for %s: %w", name, quester, err)
			}
			if n > 0 {
				completions[instanceKey{quest: name, quester: quester}] = n
			}
		}
	}

	m.active = active
	m.completions = completions
	m.logger.Info("quest progress loaded",
		zap.Int("active", len(active)),
		zap.Int("completion_entries", len(completions)))
	return nil
}

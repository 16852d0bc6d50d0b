package quest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// complete runs one full attempt of the quest for the quester.
func complete(t *testing.T, mgr *Manager, q *Quest, quester string) {
	t.Helper()
	_, err := mgr.Start(q, quester)
	require.NoError(t, err)
	for _, obj := range q.Objectives() {
		outcome := obj.Outcomes()[0].Name()
		_, err := mgr.ResolveObjective(q.Name(), quester, obj.Name(), outcome)
		require.NoError(t, err)
	}
}

func TestAddQuest_Duplicate(t *testing.T) {
	mgr := NewManager(nil)
	first := testQuest(t, "Dup", -1)
	require.NoError(t, mgr.AddQuest(first))

	second := testQuest(t, "Dup", 5)
	err := mgr.AddQuest(second)
	assert.ErrorIs(t, err, ErrDuplicateQuest)

	// The original registration survives.
	assert.Same(t, first, mgr.GetQuest("Dup"))
}

func TestGetQuest_Miss(t *testing.T) {
	mgr := NewManager(nil)
	assert.Nil(t, mgr.GetQuest("nope"))
}

func TestQuests_RegistrationOrder(t *testing.T) {
	mgr := NewManager(nil)
	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, mgr.AddQuest(testQuest(t, name, -1)))
	}
	quests := mgr.Quests()
	require.Len(t, quests, 3)
	assert.Equal(t, "C", quests[0].Name())
	assert.Equal(t, "A", quests[1].Name())
	assert.Equal(t, "B", quests[2].Name())
}

func TestStart_DuplicateActive(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Once", -1)
	require.NoError(t, mgr.AddQuest(q))

	_, err := mgr.Start(q, "alice")
	require.NoError(t, err)

	_, err = mgr.Start(q, "alice")
	assert.ErrorIs(t, err, ErrQuestActive)

	// A different quester is unaffected.
	_, err = mgr.Start(q, "bob")
	assert.NoError(t, err)
}

func TestAttemptNumber(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Repeat", -1)
	require.NoError(t, mgr.AddQuest(q))

	complete(t, mgr, q, "alice")

	inst, err := mgr.Start(q, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, inst.Attempt())
}

func TestSatisfiesPrerequisites_MaxCompletions(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Capped", 2)
	require.NoError(t, mgr.AddQuest(q))

	complete(t, mgr, q, "alice")
	complete(t, mgr, q, "alice")
	// completions == 2, cap is 2: 2 > 2 is false, still allowed.
	assert.True(t, mgr.SatisfiesPrerequisites(q, "alice"))

	complete(t, mgr, q, "alice")
	// completions == 3 exceeds the cap.
	assert.False(t, mgr.SatisfiesPrerequisites(q, "alice"))
	_, err := mgr.Start(q, "alice")
	assert.ErrorIs(t, err, ErrPrerequisites)
}

func TestSatisfiesPrerequisites_Unlimited(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Unlimited", -1)
	require.NoError(t, mgr.AddQuest(q))

	for i := 0; i < 5; i++ {
		complete(t, mgr, q, "alice")
	}
	assert.True(t, mgr.SatisfiesPrerequisites(q, "alice"))
}

func TestSatisfiesPrerequisites_Chain(t *testing.T) {
	mgr := NewManager(nil)
	qa := testQuest(t, "A", -1)
	qb := testQuest(t, "B", -1)
	qc := testQuest(t, "Chained", -1, "A", "B")
	require.NoError(t, mgr.AddQuest(qa))
	require.NoError(t, mgr.AddQuest(qb))
	require.NoError(t, mgr.AddQuest(qc))

	assert.False(t, mgr.SatisfiesPrerequisites(qc, "alice"))

	// A completed, B not: still fails.
	complete(t, mgr, qa, "alice")
	assert.False(t, mgr.SatisfiesPrerequisites(qc, "alice"))

	complete(t, mgr, qb, "alice")
	assert.True(t, mgr.SatisfiesPrerequisites(qc, "alice"))
}

func TestSatisfiesPrerequisites_UnknownPrereq(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Orphan", -1, "NeverRegistered")
	require.NoError(t, mgr.AddQuest(q))
	assert.False(t, mgr.SatisfiesPrerequisites(q, "alice"))
}

func TestHasCompleted(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Done", -1)
	require.NoError(t, mgr.AddQuest(q))

	assert.False(t, mgr.HasCompleted("Done", "alice"))
	assert.Equal(t, 0, mgr.NumCompletions("Done", "alice"))

	complete(t, mgr, q, "alice")

	assert.True(t, mgr.HasCompleted("Done", "alice"))
	assert.Equal(t, 1, mgr.NumCompletions("Done", "alice"))
	assert.False(t, mgr.HasCompleted("Done", "bob"))
}

func TestResolveObjective_Finishes(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Finish", -1)
	require.NoError(t, mgr.AddQuest(q))

	_, err := mgr.Start(q, "alice")
	require.NoError(t, err)

	finished, err := mgr.ResolveObjective("Finish", "alice", "first", "yes")
	require.NoError(t, err)
	assert.False(t, finished)

	finished, err = mgr.ResolveObjective("Finish", "alice", "second", "yes")
	require.NoError(t, err)
	assert.True(t, finished)

	// The instance is gone and the completion recorded.
	assert.Nil(t, mgr.ActiveInstance("Finish", "alice"))
	assert.Equal(t, 1, mgr.NumCompletions("Finish", "alice"))
}

func TestResolveObjective_NotActive(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Inactive", -1)
	require.NoError(t, mgr.AddQuest(q))

	_, err := mgr.ResolveObjective("Inactive", "alice", "first", "yes")
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestAbandon(t *testing.T) {
	mgr := NewManager(nil)
	q := testQuest(t, "Quit", -1)
	require.NoError(t, mgr.AddQuest(q))

	_, err := mgr.Start(q, "alice")
	require.NoError(t, err)
	require.NoError(t, mgr.Abandon("Quit", "alice"))

	assert.Nil(t, mgr.ActiveInstance("Quit", "alice"))
	assert.Equal(t, 0, mgr.NumCompletions("Quit", "alice"))

	assert.ErrorIs(t, mgr.Abandon("Quit", "alice"), ErrNotActive)

	// Abandoning frees the slot for a fresh attempt.
	_, err = mgr.Start(q, "alice")
	assert.NoError(t, err)
}

func TestActiveInstances(t *testing.T) {
	mgr := NewManager(nil)
	qa := testQuest(t, "ActiveA", -1)
	qb := testQuest(t, "ActiveB", -1)
	require.NoError(t, mgr.AddQuest(qa))
	require.NoError(t, mgr.AddQuest(qb))

	_, err := mgr.Start(qb, "alice")
	require.NoError(t, err)
	_, err = mgr.Start(qa, "alice")
	require.NoError(t, err)
	_, err = mgr.Start(qa, "bob")
	require.NoError(t, err)

	active := mgr.ActiveInstances("alice")
	require.Len(t, active, 2)
	// Registration order, not start order.
	assert.Equal(t, "ActiveA", active[0].Quest().Name())
	assert.Equal(t, "ActiveB", active[1].Quest().Name())
}

func TestCompletions(t *testing.T) {
	mgr := NewManager(nil)
	qa := testQuest(t, "CountA", -1)
	qb := testQuest(t, "CountB", -1)
	require.NoError(t, mgr.AddQuest(qa))
	require.NoError(t, mgr.AddQuest(qb))

	complete(t, mgr, qa, "alice")
	complete(t, mgr, qa, "alice")
	complete(t, mgr, qb, "alice")
	complete(t, mgr, qa, "bob")

	assert.Equal(t, map[string]int{"CountA": 2, "CountB": 1}, mgr.Completions("alice"))
	assert.Equal(t, map[string]int{"CountA": 1}, mgr.Completions("bob"))
}

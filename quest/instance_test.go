package quest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startInstance(t *testing.T, name string) (*Manager, *Instance) {
	t.Helper()
	mgr := NewManager(nil)
	q := testQuest(t, name, -1)
	require.NoError(t, mgr.AddQuest(q))
	inst, err := mgr.Start(q, "alice")
	require.NoError(t, err)
	return mgr, inst
}

func TestStart_PopulatesProgress(t *testing.T) {
	_, inst := startInstance(t, "Populate")

	progress := inst.Progress()
	require.Len(t, progress, inst.Quest().NumObjectives())
	for i, p := range progress {
		assert.Equal(t, StatePending, p.State())
		assert.Empty(t, p.Outcome())
		assert.Equal(t, inst.Quest().Objectives()[i].Name(), p.Objective().Name())
	}
	assert.Equal(t, 0, inst.Attempt())
	assert.NotEmpty(t, inst.ID())
	assert.Equal(t, "alice", inst.Quester())
	assert.False(t, inst.Finished())
}

func TestObjectiveProgress_Begin(t *testing.T) {
	_, inst := startInstance(t, "Begin")
	p := inst.ObjectiveProgress("first")
	require.NotNil(t, p)

	require.NoError(t, p.Begin())
	assert.Equal(t, StateInProgress, p.State())

	// Begin on an in-progress objective is a no-op.
	require.NoError(t, p.Begin())
	assert.Equal(t, StateInProgress, p.State())

	require.NoError(t, p.Resolve("yes"))
	assert.ErrorIs(t, p.Begin(), ErrObjectiveResolved)
}

func TestResolve_SetsOutcome(t *testing.T) {
	_, inst := startInstance(t, "ResolveOutcome")

	require.NoError(t, inst.Resolve("first", "no"))
	p := inst.ObjectiveProgress("first")
	assert.Equal(t, StateResolved, p.State())
	assert.Equal(t, "no", p.Outcome())
	assert.False(t, inst.Finished())

	require.NoError(t, inst.Resolve("second", "yes"))
	assert.True(t, inst.Finished())
}

func TestResolve_Twice(t *testing.T) {
	_, inst := startInstance(t, "ResolveTwice")

	require.NoError(t, inst.Resolve("first", "yes"))
	err := inst.Resolve("first", "no")
	assert.ErrorIs(t, err, ErrObjectiveResolved)

	// The original outcome is untouched.
	assert.Equal(t, "yes", inst.ObjectiveProgress("first").Outcome())
}

func TestResolve_UnknownObjective(t *testing.T) {
	_, inst := startInstance(t, "UnknownObjective")
	err := inst.Resolve("missing", "yes")
	assert.ErrorIs(t, err, ErrUnknownObjective)
}

func TestResolve_UnknownOutcome(t *testing.T) {
	_, inst := startInstance(t, "UnknownOutcome")
	err := inst.Resolve("first", "maybe")
	assert.ErrorIs(t, err, ErrUnknownOutcome)

	// Objective is still resolvable afterwards.
	assert.Equal(t, StatePending, inst.ObjectiveProgress("first").State())
	require.NoError(t, inst.Resolve("first", "yes"))
}

func TestProgressState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "active", StateInProgress.String())
	assert.Equal(t, "resolved", StateResolved.String())
}

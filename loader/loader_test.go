package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumetricpixels/questy/quest"
)

func writeDef(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const woodcutterDef = `{
  "name": "Woodcutter",
  "description": "Chop some trees.",
  "begin_message": "Grab an axe.",
  "finish_message": "The forest thins.",
  "max_completions": 2,
  "prerequisites": ["Tutorial"],
  "rewards": ["gold:25"],
  "objectives": [
    {
      "name": "chop",
      "description": "Chop a tree.",
      "outcomes": [
        {"name": "done", "message": "Timber!", "type": "success"},
        {"name": "gave_up", "message": "The tree wins.", "type": "failure"}
      ]
    }
  ]
}`

const tutorialDef = `{
  "name": "Tutorial",
  "objectives": [
    {"name": "talk", "outcomes": [{"name": "done"}]}
  ]
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "woodcutter.json", woodcutterDef)
	writeDef(t, dir, "tutorial.json", tutorialDef)
	// Non-JSON files are ignored.
	writeDef(t, dir, "notes.txt", "not a quest")

	mgr := quest.NewManager(nil)
	require.NoError(t, New(dir, nil).Load(mgr))

	quests := mgr.Quests()
	require.Len(t, quests, 2)
	// Files load in name order.
	assert.Equal(t, "Tutorial", quests[0].Name())
	assert.Equal(t, "Woodcutter", quests[1].Name())

	q := mgr.GetQuest("Woodcutter")
	require.NotNil(t, q)
	assert.Equal(t, "Grab an axe.", q.BeginMessage())
	assert.Equal(t, 2, q.MaxCompletions())
	assert.Equal(t, []string{"Tutorial"}, q.Prerequisites())
	assert.Equal(t, []string{"gold:25"}, q.Rewards())

	obj := q.Objective("chop")
	require.NotNil(t, obj)
	assert.Equal(t, 2, obj.NumOutcomes())
	assert.Equal(t, "Timber!", obj.Outcome("done").Message())
}

func TestLoad_DefaultMaxCompletions(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "tutorial.json", tutorialDef)

	mgr := quest.NewManager(nil)
	require.NoError(t, New(dir, nil).Load(mgr))
	assert.Equal(t, -1, mgr.GetQuest("Tutorial").MaxCompletions())
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "bad.json", `{"name": "Broken"`)

	mgr := quest.NewManager(nil)
	assert.Error(t, New(dir, nil).Load(mgr))
}

func TestLoad_InvalidQuest(t *testing.T) {
	dir := t.TempDir()
	// Valid JSON but no objectives.
	writeDef(t, dir, "empty.json", `{"name": "Empty", "objectives": []}`)

	mgr := quest.NewManager(nil)
	assert.Error(t, New(dir, nil).Load(mgr))
}

func TestLoad_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "a.json", tutorialDef)
	writeDef(t, dir, "b.json", tutorialDef)

	mgr := quest.NewManager(nil)
	err := New(dir, nil).Load(mgr)
	assert.ErrorIs(t, err, quest.ErrDuplicateQuest)
}

func TestLoad_MissingDir(t *testing.T) {
	mgr := quest.NewManager(nil)
	assert.Error(t, New(filepath.Join(t.TempDir(), "nope"), nil).Load(mgr))
}

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumetricpixels/questy/store"
)

func TestRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	current := store.Data{
		"alice": {"Woodcutter": `{"attempt":0,"objectives":[{"state":"pending"}]}`},
		"bob":   {"Woodcutter": `{"attempt":1,"objectives":[{"state":"active"}]}`},
	}
	completed := store.Data{
		"alice": {"Tutorial": "3"},
	}

	require.NoError(t, s.SaveCurrent(ctx, current))
	require.NoError(t, s.SaveCompleted(ctx, completed))

	gotCurrent, err := s.LoadCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, current, gotCurrent)

	gotCompleted, err := s.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, completed, gotCompleted)
}

func TestLoad_FirstRun(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	data, err := s.LoadCurrent(ctx)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)

	data, err = s.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)
}

func TestCategories_Independent(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.SaveCurrent(ctx, store.Data{"alice": {"Q": "blob"}}))

	completed, err := s.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestSave_Replaces(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.SaveCurrent(ctx, store.Data{"alice": {"Q": "one"}}))
	require.NoError(t, s.SaveCurrent(ctx, store.Data{"bob": {"Q": "two"}}))

	data, err := s.LoadCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Data{"bob": {"Q": "two"}}, data)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "current.json"), []byte("{broken"), 0o644))

	s := New(dir)
	_, err := s.LoadCurrent(context.Background())
	assert.Error(t, err)
}

func TestSave_CanceledContext(t *testing.T) {
	s := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.SaveCurrent(ctx, store.Data{}))
	_, err := s.LoadCurrent(ctx)
	assert.Error(t, err)
}

func TestSave_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "progress")
	s := New(dir)
	require.NoError(t, s.SaveCompleted(context.Background(), store.Data{"a": {"Q": "1"}}))

	_, err := os.Stat(filepath.Join(dir, "completed.json"))
	assert.NoError(t, err)
}

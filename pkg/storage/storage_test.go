package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, TasksKey, "[]"))
	v, ok, err := m.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	assert.Error(t, m.Set(ctx, TasksKey, "[]"))
	_, _, err := m.Get(ctx, TasksKey)
	assert.Error(t, err)
}

func TestFile_LoadSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFile(dir)
	require.NoError(t, err)

	_, ok, err := f.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should be empty")

	require.NoError(t, f.Set(ctx, TasksKey, `[{"id":"1"}]`))
	require.NoError(t, f.Set(ctx, CategoriesKey, `[]`))

	_, err = os.Stat(filepath.Join(dir, "dayplan.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "dayplan.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)
}

func TestFile_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "dayplan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks": "[]", `), 0600))

	f, err := NewFile(dir)
	require.NoError(t, err)
	_, ok, err := f.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.False(t, ok)

	moved, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, `{"tasks": "[]", `, string(moved))

	require.NoError(t, f.Set(ctx, TasksKey, "[]"))
	reopened, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestFile_LoadReportsCorruption(t *testing.T) {
	dir := t.TempDir()
	f := &File{Values: map[string]string{}, Path: filepath.Join(dir, "dayplan.json")}
	require.NoError(t, os.WriteFile(f.Path, []byte("{not json"), 0600))

	assert.ErrorIs(t, f.Load(), ErrCorrupt)
}

func TestFile_WriteFailureKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, TasksKey, "old"))

	// Point the store at a path whose parent is a regular file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	f.Path = filepath.Join(blocker, "dayplan.json")

	assert.Error(t, f.Set(ctx, TasksKey, "new"))
	v, _, err := f.Get(ctx, TasksKey)
	require.NoError(t, err)
	assert.Equal(t, "old", v)
}

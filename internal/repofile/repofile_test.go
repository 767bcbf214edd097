package repofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, "http://localhost:3000/"))

	got, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", got)
}

func TestWrite_RejectsBadURL(t *testing.T) {
	dir := t.TempDir()
	for _, bad := range []string{"", "localhost:3000", "ftp://host", "http://"} {
		assert.Error(t, Write(dir, bad), bad)
	}
	_, err := os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRead_Missing(t *testing.T) {
	got, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte("  https://todos.example.com \n\n"), 0644)

	got, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://todos.example.com", got)
}

func TestFind_CurrentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, "http://localhost:3000"))

	u, foundDir, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", u)
	assert.Equal(t, dir, foundDir)
}

func TestFind_ParentDir(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "sub", "deep")
	require.NoError(t, os.MkdirAll(child, 0755))
	require.NoError(t, Write(parent, "http://localhost:3000"))

	u, foundDir, err := Find(child)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", u)
	assert.Equal(t, parent, foundDir)
}

func TestFind_NotFound(t *testing.T) {
	u, foundDir, err := Find(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, u)
	assert.Empty(t, foundDir)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, "http://localhost:3000"))

	removed, err := Remove(dir)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = Remove(dir)
	require.NoError(t, err)
	assert.False(t, removed)
}

package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Precedence(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	assert.Equal(t, []string{"vi"}, Command())

	t.Setenv("VISUAL", "nano")
	assert.Equal(t, []string{"nano"}, Command())

	t.Setenv("EDITOR", "code --wait")
	assert.Equal(t, []string{"code", "--wait"}, Command())
}

func TestOpen_RunsEditor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script editor")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho edited >> \"$1\"\n"), 0755))
	t.Setenv("EDITOR", script)

	target := filepath.Join(dir, "todo.md")
	require.NoError(t, os.WriteFile(target, []byte("before\n"), 0644))
	require.NoError(t, Open(target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "before\nedited\n", string(data))
}

func TestOpen_FailingEditor(t *testing.T) {
	t.Setenv("EDITOR", filepath.Join(t.TempDir(), "missing-editor"))
	err := Open(filepath.Join(t.TempDir(), "todo.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-editor")
}

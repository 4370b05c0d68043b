package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCreatesDirectory(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Remove()

	info, err := os.Stat(w.Dir())
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.True(t, strings.HasPrefix(filepath.Base(w.Dir()), "runpad-"))
}

func TestWriteScript(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Remove()

	path, err := w.WriteScript("swift", `print("hi")`)
	require.NoError(t, err)
	require.Equal(t, w.ScriptPath("swift"), path)
	require.Equal(t, "script.swift", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `print("hi")`, string(data))
}

func TestWriteScriptTruncates(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Remove()

	_, err = w.WriteScript("kts", strings.Repeat("x", 1024))
	require.NoError(t, err)

	path, err := w.WriteScript("kts", "short")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "short", string(data))
}

func TestScriptPathDeterministic(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Remove()

	require.Equal(t, w.ScriptPath("swift"), w.ScriptPath("swift"))
	require.NotEqual(t, w.ScriptPath("swift"), w.ScriptPath("kts"))
}

func TestRemove(t *testing.T) {
	w, err := New()
	require.NoError(t, err)

	_, err = w.WriteScript("swift", "let x = 1")
	require.NoError(t, err)

	w.Remove()
	_, err = os.Stat(w.Dir())
	require.True(t, os.IsNotExist(err))

	// Removing again stays quiet.
	w.Remove()
}

func TestWriteScriptAfterRemove(t *testing.T) {
	w, err := New()
	require.NoError(t, err)

	w.Remove()
	_, err = w.WriteScript("swift", "let x = 1")
	require.Error(t, err)
}

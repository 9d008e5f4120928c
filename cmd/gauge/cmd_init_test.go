package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauge/internal/config"
)

func TestInitWritesStarterSpec(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new-eval")

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	specPath := filepath.Join(dir, "eval.yaml")
	assert.FileExists(t, specPath)

	info, err := os.Stat(filepath.Join(dir, "baseline"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// The starter spec must load cleanly.
	spec, err := config.Load(specPath)
	require.NoError(t, err)
	assert.Equal(t, "my-eval", spec.Name)
	require.Len(t, spec.Conditions, 1)
	assert.Equal(t, "baseline", spec.Conditions[0].Label)
}

func TestInitDefaultsToCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(dir, "eval.yaml"))
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauge/internal/models"
)

func TestResolveSpecDirectoryMode(t *testing.T) {
	dir := t.TempDir()

	spec, baseDir, err := resolveSpec(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(dir), spec.Name)
	require.Len(t, spec.Conditions, 1)
	assert.Equal(t, filepath.Base(dir), spec.Conditions[0].Label)
	assert.True(t, filepath.IsAbs(spec.Conditions[0].Dir))
	assert.Equal(t, filepath.Dir(spec.Conditions[0].Dir), baseDir)
}

func TestResolveSpecFileMode(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "eval.yaml")
	content := "name: from-file\nconditions:\n  - label: a\n    dir: a\n"
	require.NoError(t, os.WriteFile(specPath, []byte(content), 0o644))

	spec, baseDir, err := resolveSpec(specPath)
	require.NoError(t, err)

	assert.Equal(t, "from-file", spec.Name)
	assert.Equal(t, dir, baseDir)
}

func TestResolveSpecMissingPath(t *testing.T) {
	_, _, err := resolveSpec(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestSaveOutcomeRoundTrip(t *testing.T) {
	outcome := &models.BatchOutcome{
		Name:      "round-trip",
		Timestamp: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Evaluations: []models.Evaluation{{
			Label:  "a",
			Result: &models.TestRunResult{Total: 2, Passed: 2},
			Score:  models.Score{Value: 90, PassRate: 1.0, Success: true},
		}},
	}

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, saveOutcome(outcome, path))

	loaded, err := loadOutcomeFile(path)
	require.NoError(t, err)

	assert.Equal(t, "round-trip", loaded.Name)
	require.Len(t, loaded.Evaluations, 1)
	assert.Equal(t, 90, loaded.Evaluations[0].Score.Value)
	assert.Equal(t, 2, loaded.Evaluations[0].Result.Total)
}

func TestLoadOutcomeFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := loadOutcomeFile(path)
	require.Error(t, err)
}

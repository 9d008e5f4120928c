package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauge/internal/models"
)

func writeOutcome(t *testing.T, dir, name string, value int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, saveOutcome(&models.BatchOutcome{
		Name: name,
		Evaluations: []models.Evaluation{{
			Label:  "suite",
			Result: &models.TestRunResult{Total: 1, Passed: 1},
			Score:  models.Score{Value: value},
		}},
	}, path))
	return path
}

func runCompare(t *testing.T, args ...string) models.ComparisonSummary {
	t.Helper()

	var out bytes.Buffer
	cmd := newCompareCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(append(args, "--format", "json"))
	require.NoError(t, cmd.Execute())

	var summary models.ComparisonSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	return summary
}

func TestCompareCommandAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeOutcome(t, dir, "first.json", 60)
	second := writeOutcome(t, dir, "second.json", 63)

	summary := runCompare(t, first, second, "--margin=0")

	require.Len(t, summary.Scores, 2)
	// Labels carry the source file when comparing across files.
	assert.Equal(t, "first/suite", summary.Scores[0].Label)
	assert.Equal(t, "second/suite", summary.Scores[1].Label)
	assert.Equal(t, 3, summary.Improvement)
	// A 3-point gain sits inside the default margin of 5.
	assert.Equal(t, models.TrendStable, summary.Trend)
}

func TestCompareCommandMarginFlag(t *testing.T) {
	dir := t.TempDir()
	first := writeOutcome(t, dir, "first.json", 60)
	second := writeOutcome(t, dir, "second.json", 63)

	summary := runCompare(t, first, second, "--margin", "2")
	assert.Equal(t, models.TrendImproving, summary.Trend)

	summary = runCompare(t, first, second, "--margin", "10")
	assert.Equal(t, models.TrendStable, summary.Trend)
}

func TestCompareCommandRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeOutcome(t, dir, "only.json", 80)

	cmd := newCompareCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--format", "csv"})
	require.Error(t, cmd.Execute())
}

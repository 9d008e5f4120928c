//go:build unix

package evaluator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauge/internal/models"
)

// passingCommand emits a pytest-style summary without needing python installed.
var passingCommand = []string{"sh", "-c", "echo '3 passed in 0.05s'"}

func TestEvaluateScoresAPassingSuite(t *testing.T) {
	dir := t.TempDir()
	ev := New(WithCommand(passingCommand))

	result, err := ev.Evaluate(context.Background(), Condition{Label: "baseline", Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "baseline", result.Label)
	assert.Equal(t, dir, result.WorkingDir)
	assert.Equal(t, 3, result.Result.Total)
	assert.Equal(t, 3, result.Result.Passed)
	assert.Equal(t, 90, result.Score.Value)
	assert.True(t, result.Score.Success)
	assert.Nil(t, result.Quality)
}

func TestEvaluateFailingSuiteStillScores(t *testing.T) {
	ev := New(WithCommand([]string{"sh", "-c", "echo '1 passed, 3 failed in 0.10s'; exit 1"}))

	result, err := ev.Evaluate(context.Background(), Condition{Label: "broken", Dir: t.TempDir()})
	require.NoError(t, err, "a failing suite is a scored outcome, not an error")

	assert.Equal(t, 4, result.Result.Total)
	assert.Equal(t, 1, result.Result.Passed)
	assert.False(t, result.Score.Success)
}

func TestEvaluateAppliesQualityBonus(t *testing.T) {
	dir := t.TempDir()
	src := "\"\"\"Doc.\"\"\"\ndef compute(x):\n    try:\n        return x\n    except ValueError:\n        raise\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solution.py"), []byte(src), 0o644))

	ev := New(WithCommand(passingCommand))
	result, err := ev.Evaluate(context.Background(), Condition{
		Label:          "with-quality",
		Dir:            dir,
		Implementation: "solution.py",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Quality)
	// Short file: length signal off, the other three on.
	assert.Equal(t, 3, result.Quality.TrueCount())
	assert.Equal(t, 98, result.Score.Value) // 90 + round(7.5)
}

func TestEvaluateMissingImplementationSkipsQuality(t *testing.T) {
	ev := New(WithCommand(passingCommand))

	result, err := ev.Evaluate(context.Background(), Condition{
		Label:          "no-impl",
		Dir:            t.TempDir(),
		Implementation: "missing.py",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Quality)
	assert.Equal(t, 90, result.Score.Value)
}

func TestEvaluateMissingDirectory(t *testing.T) {
	ev := New(WithCommand(passingCommand))

	_, err := ev.Evaluate(context.Background(), Condition{
		Label: "ghost",
		Dir:   filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestEvaluateAbsentManifestSkipsInstall(t *testing.T) {
	// Requirements declared but no manifest on disk: install is skipped, the
	// tests still run.
	ev := New(WithCommand(passingCommand))

	result, err := ev.Evaluate(context.Background(), Condition{
		Label:        "no-manifest",
		Dir:          t.TempDir(),
		Requirements: "requirements.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, 90, result.Score.Value)
}

func TestEvaluateAllRecordsFailuresWithoutAborting(t *testing.T) {
	good := t.TempDir()
	bad := t.TempDir()

	ev := New(WithCommand(passingCommand), WithWorkers(1))

	outcome, err := ev.EvaluateAll(context.Background(), "mixed", []Condition{
		{Label: "good", Dir: good},
		{Label: "bad", Dir: bad, Command: []string{"definitely-not-a-real-binary-48151623"}},
	})
	require.NoError(t, err)

	require.Len(t, outcome.Evaluations, 1)
	assert.Equal(t, "good", outcome.Evaluations[0].Label)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "bad", outcome.Failures[0].Label)
	assert.Equal(t, models.FailureExecutableNotFound, outcome.Failures[0].Kind)

	require.NotNil(t, outcome.Comparison)
	assert.Equal(t, "good", outcome.Comparison.Best)
}

func TestEvaluateAllClassifiesTimeout(t *testing.T) {
	ev := New(WithWorkers(1))

	outcome, err := ev.EvaluateAll(context.Background(), "slow", []Condition{
		{
			Label:      "hang",
			Dir:        t.TempDir(),
			Command:    []string{"sh", "-c", "echo started; sleep 10"},
			TimeoutSec: 1,
		},
	})
	require.NoError(t, err)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, models.FailureTimeout, outcome.Failures[0].Kind)
	assert.Contains(t, outcome.Failures[0].Output, "started")
	assert.Nil(t, outcome.Comparison)
}

func TestEvaluateAllPreservesConditionOrder(t *testing.T) {
	conds := []Condition{
		{Label: "first", Dir: t.TempDir()},
		{Label: "second", Dir: t.TempDir()},
		{Label: "third", Dir: t.TempDir()},
	}

	ev := New(WithCommand(passingCommand), WithWorkers(3))
	outcome, err := ev.EvaluateAll(context.Background(), "ordered", conds)
	require.NoError(t, err)

	require.Len(t, outcome.Evaluations, 3)
	assert.Equal(t, "first", outcome.Evaluations[0].Label)
	assert.Equal(t, "second", outcome.Evaluations[1].Label)
	assert.Equal(t, "third", outcome.Evaluations[2].Label)
}

func TestEvaluateAllEmptyConditions(t *testing.T) {
	ev := New()
	_, err := ev.EvaluateAll(context.Background(), "empty", nil)
	require.Error(t, err)
}

func TestEvaluateAllCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := New(WithCommand([]string{"sleep", "10"}), WithWorkers(1))
	_, err := ev.EvaluateAll(ctx, "canceled", []Condition{{Label: "a", Dir: t.TempDir()}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProgressEvents(t *testing.T) {
	var mu sync.Mutex
	var events []ProgressEvent

	ev := New(WithCommand(passingCommand), WithWorkers(1))
	ev.OnProgress(func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	_, err := ev.EvaluateAll(context.Background(), "progress", []Condition{{Label: "a", Dir: t.TempDir()}})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	var types []EventType
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []EventType{
		EventBatchStart,
		EventConditionStart,
		EventConditionComplete,
		EventBatchComplete,
	}, types)

	for _, e := range events {
		if e.EventType == EventConditionComplete {
			assert.Equal(t, "a", e.Label)
			assert.Equal(t, 90, e.Score)
			assert.Equal(t, 1, e.Num)
			assert.Equal(t, 1, e.Total)
		}
	}
}

func TestEvaluateDurationRecorded(t *testing.T) {
	ev := New(WithCommand([]string{"sh", "-c", "sleep 0.1; echo '1 passed in 0.10s'"}))

	result, err := ev.Evaluate(context.Background(), Condition{Label: "timed", Dir: t.TempDir()})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.DurationMs, int64(100))
	assert.WithinDuration(t, time.Now(), result.Timestamp, 5*time.Second)
}

package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauge/internal/models"
	"github.com/probeworks/gauge/internal/scoring"
)

func labeled(pairs ...any) []models.LabeledScore {
	var out []models.LabeledScore
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.LabeledScore{
			Label: pairs[i].(string),
			Score: models.Score{Value: pairs[i+1].(int)},
		})
	}
	return out
}

func TestCompareEmpty(t *testing.T) {
	_, err := Compare(nil, scoring.DefaultPolicy())
	assert.ErrorIs(t, err, ErrNoScores)
}

func TestCompareSingleScore(t *testing.T) {
	summary, err := Compare(labeled("only", 80), scoring.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "only", summary.Best)
	assert.Equal(t, "only", summary.Worst)
	assert.Equal(t, 80.0, summary.Average)
	assert.Equal(t, 0.0, summary.Spread)
	assert.Equal(t, 0.0, summary.StdDev)
	assert.Equal(t, models.TrendInsufficientData, summary.Trend)
	assert.Equal(t, 0, summary.Improvement)
}

func TestCompareBestWorstAndAverage(t *testing.T) {
	summary, err := Compare(labeled("run-1", 60, "run-2", 90, "run-3", 45), scoring.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "run-2", summary.Best)
	assert.Equal(t, 90, summary.BestValue)
	assert.Equal(t, "run-3", summary.Worst)
	assert.Equal(t, 45, summary.WorstValue)
	assert.Equal(t, 65.0, summary.Average)
	assert.Equal(t, 45.0, summary.Spread)
	assert.InDelta(t, 18.708, summary.StdDev, 0.001)
}

func TestCompareTieBreaksToEarliestLabel(t *testing.T) {
	summary, err := Compare(labeled("first", 85, "second", 85, "third", 85), scoring.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "first", summary.Best)
	assert.Equal(t, "first", summary.Worst)
}

func TestCompareTrend(t *testing.T) {
	tests := []struct {
		name            string
		scores          []models.LabeledScore
		wantTrend       models.Trend
		wantImprovement int
	}{
		{
			name:            "improving",
			scores:          labeled("a", 60, "b", 85),
			wantTrend:       models.TrendImproving,
			wantImprovement: 25,
		},
		{
			name:            "declining",
			scores:          labeled("a", 90, "b", 50),
			wantTrend:       models.TrendDeclining,
			wantImprovement: -40,
		},
		{
			name:            "stable within margin",
			scores:          labeled("a", 85, "b", 82),
			wantTrend:       models.TrendStable,
			wantImprovement: -3,
		},
		{
			name:            "margin boundary counts as improving",
			scores:          labeled("a", 70, "b", 75),
			wantTrend:       models.TrendImproving,
			wantImprovement: 5,
		},
		{
			name:            "only endpoints matter",
			scores:          labeled("a", 60, "b", 95, "c", 62),
			wantTrend:       models.TrendStable,
			wantImprovement: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Compare(tt.scores, scoring.DefaultPolicy())
			require.NoError(t, err)

			assert.Equal(t, tt.wantTrend, summary.Trend)
			assert.Equal(t, tt.wantImprovement, summary.Improvement)
		})
	}
}

func TestCompareCustomTrendMargin(t *testing.T) {
	policy := scoring.DefaultPolicy()
	policy.TrendMargin = 10

	summary, err := Compare(labeled("a", 60, "b", 68), policy)
	require.NoError(t, err)
	assert.Equal(t, models.TrendStable, summary.Trend)
}

func TestComparePreservesInputOrder(t *testing.T) {
	in := labeled("z", 10, "a", 20, "m", 30)
	summary, err := Compare(in, scoring.DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, summary.Scores, 3)
	assert.Equal(t, "z", summary.Scores[0].Label)
	assert.Equal(t, "a", summary.Scores[1].Label)
	assert.Equal(t, "m", summary.Scores[2].Label)
}

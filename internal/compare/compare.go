// Package compare aggregates already-computed scores across an ordered set of
// runs. It never recomputes a score; scoring and comparison stay independently
// testable.
package compare

import (
	"errors"

	"github.com/probeworks/gauge/internal/metrics"
	"github.com/probeworks/gauge/internal/models"
	"github.com/probeworks/gauge/internal/scoring"
)

// ErrNoScores is returned when Compare is given nothing to compare.
var ErrNoScores = errors.New("compare: no scores to compare")

// Compare summarizes an ordered sequence of labeled scores: mean, best and
// worst (ties broken by earliest label in input order), and the endpoint
// trend. Trend is classified from the last-minus-first difference against the
// policy's margin; this is deliberately endpoint-based rather than a
// regression.
func Compare(labeled []models.LabeledScore, policy scoring.Policy) (models.ComparisonSummary, error) {
	if len(labeled) == 0 {
		return models.ComparisonSummary{}, ErrNoScores
	}

	summary := models.ComparisonSummary{
		Scores:     labeled,
		Best:       labeled[0].Label,
		BestValue:  labeled[0].Score.Value,
		Worst:      labeled[0].Label,
		WorstValue: labeled[0].Score.Value,
	}

	values := make([]float64, len(labeled))
	for i, ls := range labeled {
		values[i] = float64(ls.Score.Value)
		// Strict comparisons keep the earliest label on ties.
		if ls.Score.Value > summary.BestValue {
			summary.Best, summary.BestValue = ls.Label, ls.Score.Value
		}
		if ls.Score.Value < summary.WorstValue {
			summary.Worst, summary.WorstValue = ls.Label, ls.Score.Value
		}
	}
	summary.Average = metrics.Mean(values)
	summary.StdDev = metrics.StdDev(values)
	summary.Spread = metrics.Spread(values)

	if len(labeled) < 2 {
		summary.Trend = models.TrendInsufficientData
		return summary, nil
	}

	summary.Improvement = labeled[len(labeled)-1].Score.Value - labeled[0].Score.Value
	switch diff := float64(summary.Improvement); {
	case diff >= policy.TrendMargin:
		summary.Trend = models.TrendImproving
	case diff <= -policy.TrendMargin:
		summary.Trend = models.TrendDeclining
	default:
		summary.Trend = models.TrendStable
	}

	return summary, nil
}

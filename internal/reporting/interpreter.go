package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/probeworks/gauge/internal/metrics"
	"github.com/probeworks/gauge/internal/models"
)

// InterpretScore returns a plain-language label for a 0-100 score value.
func InterpretScore(value int) string {
	switch {
	case value >= 90:
		return "Excellent (90+)"
	case value >= 70:
		return "Good (70-89)"
	case value >= 50:
		return "Needs Work (50-69)"
	default:
		return "Poor (<50)"
	}
}

// InterpretPassRate returns a human-readable explanation of a pass rate (0–1).
func InterpretPassRate(rate float64) string {
	pct := rate * 100
	switch {
	case pct >= 100:
		return fmt.Sprintf("All tests passed (%.0f%%)", pct)
	case pct >= 80:
		return fmt.Sprintf("Most tests passed (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the tests passed (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few tests passed (%.0f%%)", pct)
	}
}

// InterpretTrend explains a trend classification in plain language.
func InterpretTrend(trend models.Trend, improvement int) string {
	switch trend {
	case models.TrendImproving:
		return fmt.Sprintf("Scores are improving (+%d points from first to last run).", improvement)
	case models.TrendDeclining:
		return fmt.Sprintf("Scores are declining (%d points from first to last run).", improvement)
	case models.TrendStable:
		return "Scores are stable across runs."
	default:
		return "Not enough runs to establish a trend (need at least 2)."
	}
}

// FormatSummaryReport produces a full plain-language report from a BatchOutcome.
func FormatSummaryReport(outcome *models.BatchOutcome) string {
	var b strings.Builder

	duration := time.Duration(outcome.DurationMs) * time.Millisecond

	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(fmt.Sprintf("Conditions: %d evaluated, %d failed to run\n",
		len(outcome.Evaluations), len(outcome.Failures)))
	b.WriteString(fmt.Sprintf("Duration:   %v\n", duration))

	if c := outcome.Comparison; c != nil {
		b.WriteString(fmt.Sprintf("Average:    %.1f — %s\n", c.Average, InterpretScore(int(c.Average))))
		if len(c.Scores) > 1 {
			values := make([]float64, len(c.Scores))
			for i, ls := range c.Scores {
				values[i] = float64(ls.Score.Value)
			}
			low, high := metrics.ConfidenceInterval95(values)
			b.WriteString(fmt.Sprintf("Spread:     %.0f points (95%% CI %.1f to %.1f)\n", c.Spread, low, high))
		}
		b.WriteString(fmt.Sprintf("Best:       %s (%d)\n", c.Best, c.BestValue))
		b.WriteString(fmt.Sprintf("Worst:      %s (%d)\n", c.Worst, c.WorstValue))
		b.WriteString(fmt.Sprintf("Trend:      %s\n", InterpretTrend(c.Trend, c.Improvement)))
	}

	if len(outcome.Evaluations) > 0 {
		b.WriteString("\nPer-Condition Interpretation:\n")
		for _, ev := range outcome.Evaluations {
			icon := "✓"
			if !ev.Score.Success {
				icon = "✗"
			}
			b.WriteString(fmt.Sprintf("  %s %s: %d — %s\n", icon, ev.Label, ev.Score.Value, InterpretScore(ev.Score.Value)))
			b.WriteString(fmt.Sprintf("    %s\n", InterpretPassRate(ev.Score.PassRate)))
			b.WriteString(fmt.Sprintf("    %s\n", ev.Score.Reasoning))
		}
	}

	for _, f := range outcome.Failures {
		b.WriteString(fmt.Sprintf("  ! %s did not run: %s\n", f.Label, f.Message))
	}

	return b.String()
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/probeworks/gauge/internal/models"
)

const labelColumnWidth = 25

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func printSummary(outcome *models.BatchOutcome) {
	fmt.Println("=" + strings.Repeat("=", 60))
	fmt.Println(" EVALUATION RESULTS")
	fmt.Println("=" + strings.Repeat("=", 60))
	fmt.Println()

	fmt.Printf("Evaluation:  %s\n", outcome.Name)
	fmt.Printf("Conditions:  %d evaluated, %d failed to run\n",
		len(outcome.Evaluations), len(outcome.Failures))
	fmt.Printf("Duration:    %s\n", formatDuration(time.Duration(outcome.DurationMs)*time.Millisecond))
	fmt.Println()

	if len(outcome.Evaluations) > 0 {
		fmt.Printf("  %s %-7s %-10s %-9s %s\n",
			padRight("Condition", labelColumnWidth), "Score", "Pass Rate", "Success", "Tests")
		fmt.Println("  " + strings.Repeat("-", 60))

		for _, ev := range outcome.Evaluations {
			success := "✗"
			if ev.Score.Success {
				success = "✓"
			}
			fmt.Printf("  %s %-7d %-10s %-9s %s\n",
				padRight(truncateName(ev.Label, labelColumnWidth), labelColumnWidth),
				ev.Score.Value,
				fmt.Sprintf("%.1f%%", ev.Score.PassRate*100),
				success,
				ev.Result.Summary())
		}
		fmt.Println()
	}

	for _, ev := range outcome.Evaluations {
		if ev.Result.FailingCount() == 0 {
			continue
		}
		fmt.Printf("Failing tests in %s:\n", ev.Label)
		for _, t := range ev.Result.Tests {
			if t.Status != models.StatusFailed && t.Status != models.StatusError {
				continue
			}
			fmt.Printf("  - %s [%s]\n", t.Name, t.Status)
			if t.FailureReason != "" {
				fmt.Printf("      %s\n", truncateName(t.FailureReason, 120))
			}
		}
		fmt.Println()
	}

	if len(outcome.Failures) > 0 {
		fmt.Println("Execution Failures:")
		for _, f := range outcome.Failures {
			fmt.Printf("  - %s [%s]: %s\n", f.Label, f.Kind, f.Message)
		}
		fmt.Println()
	}

	if outcome.Comparison != nil {
		printComparison(outcome.Comparison)
	}
}

func printComparison(c *models.ComparisonSummary) {
	fmt.Println("-" + strings.Repeat("-", 60))
	fmt.Println(" COMPARISON")
	fmt.Println("-" + strings.Repeat("-", 60))

	fmt.Printf("  Average:     %.1f\n", c.Average)
	if len(c.Scores) > 1 {
		fmt.Printf("  Std Dev:     %.1f (spread %.0f)\n", c.StdDev, c.Spread)
	}
	fmt.Printf("  Best:        %s (%d)\n", c.Best, c.BestValue)
	fmt.Printf("  Worst:       %s (%d)\n", c.Worst, c.WorstValue)
	if c.Trend != models.TrendInsufficientData {
		fmt.Printf("  Improvement: %+d\n", c.Improvement)
	}
	fmt.Printf("  Trend:       %s\n", trendLabel(c.Trend))
	fmt.Println()
}

func trendLabel(t models.Trend) string {
	switch t {
	case models.TrendImproving:
		return "↑ improving"
	case models.TrendDeclining:
		return "↓ declining"
	case models.TrendStable:
		return "→ stable"
	default:
		return "insufficient data"
	}
}

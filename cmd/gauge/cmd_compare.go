package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/probeworks/gauge/internal/compare"
	"github.com/probeworks/gauge/internal/models"
	"github.com/probeworks/gauge/internal/scoring"
)

var (
	compareOutputFormat string
	compareTrendMargin  float64
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <result1.json> [result2.json ...]",
		Short: "Compare saved evaluation results",
		Long: `Compare scores across one or more saved result files.

Loads result JSON files written by 'gauge eval -o', flattens their scores
into one ordered sequence, and reports best, worst, average, and trend.
File order determines run order for the trend classification.`,
		Args: cobra.MinimumNArgs(1),
		RunE: compareCommandE,
	}

	cmd.Flags().StringVarP(&compareOutputFormat, "format", "f", "table", "Output format: table or json")
	cmd.Flags().Float64Var(&compareTrendMargin, "margin", 0, "Minimum score difference for a trend (default: 5)")

	return cmd
}

func compareCommandE(cmd *cobra.Command, args []string) error {
	if compareOutputFormat != "table" && compareOutputFormat != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", compareOutputFormat)
	}

	var labeled []models.LabeledScore
	multiFile := len(args) > 1

	for _, path := range args {
		outcome, err := loadOutcomeFile(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		for _, ls := range outcome.LabeledScores() {
			// Prefix labels with the file when comparing across files so the
			// same condition name stays distinguishable.
			if multiFile {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				ls.Label = base + "/" + ls.Label
			}
			labeled = append(labeled, ls)
		}
	}

	if len(labeled) == 0 {
		return fmt.Errorf("no scores found in the given result files")
	}

	policy := scoring.DefaultPolicy()
	if compareTrendMargin > 0 {
		policy.TrendMargin = compareTrendMargin
	}

	summary, err := compare.Compare(labeled, policy)
	if err != nil {
		return err
	}

	if compareOutputFormat == "json" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal comparison: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data)) //nolint:errcheck
		return nil
	}

	printComparisonTable(&summary)
	return nil
}

func loadOutcomeFile(path string) (*models.BatchOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var outcome models.BatchOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func printComparisonTable(c *models.ComparisonSummary) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(" COMPARISON REPORT")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	fmt.Printf("  %s %-7s %-10s %s\n",
		padRight("Run", labelColumnWidth), "Score", "Pass Rate", "Success")
	fmt.Println("  " + strings.Repeat("-", 56))

	for _, ls := range c.Scores {
		success := "✗"
		if ls.Score.Success {
			success = "✓"
		}
		fmt.Printf("  %s %-7d %-10s %s\n",
			padRight(truncateName(ls.Label, labelColumnWidth), labelColumnWidth),
			ls.Score.Value,
			fmt.Sprintf("%.1f%%", ls.Score.PassRate*100),
			success)
	}
	fmt.Println()

	printComparison(c)
}

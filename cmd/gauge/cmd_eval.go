package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/probeworks/gauge/internal/config"
	"github.com/probeworks/gauge/internal/evaluator"
	"github.com/probeworks/gauge/internal/models"
	"github.com/probeworks/gauge/internal/reporting"
)

var (
	evalTimeoutSec  int
	evalParallel    bool
	evalWorkers     int
	evalOutputPath  string
	evalJUnitPath   string
	evalInterpret   bool
	evalVerbose     bool
	evalCommandStr  string
	evalImplFile    string
	evalReqsFile    string
)

func newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <eval.yaml | directory>",
		Short: "Run and score a test suite",
		Long: `Run an evaluation from a spec file, or score a single directory directly.

Given an eval.yaml, every condition it declares is evaluated and the scores
are compared. Given a directory, a single-condition evaluation is synthesized
with the default configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: evalCommandE,
	}

	cmd.Flags().IntVar(&evalTimeoutSec, "timeout", 0, "Test execution timeout in seconds (overrides spec)")
	cmd.Flags().BoolVar(&evalParallel, "parallel", false, "Evaluate conditions concurrently")
	cmd.Flags().IntVar(&evalWorkers, "workers", 0, "Number of concurrent workers (default: 4, requires --parallel)")
	cmd.Flags().StringVarP(&evalOutputPath, "output", "o", "", "Output JSON file for results")
	cmd.Flags().StringVar(&evalJUnitPath, "junit", "", "Output JUnit XML file for results")
	cmd.Flags().BoolVar(&evalInterpret, "interpret", false, "Print a plain-language interpretation of the results")
	cmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Verbose output with detailed progress")
	cmd.Flags().StringVar(&evalCommandStr, "command", "", "Test command to run (overrides spec)")
	cmd.Flags().StringVar(&evalImplFile, "implementation", "", "Implementation file for quality signals (directory mode)")
	cmd.Flags().StringVar(&evalReqsFile, "requirements", "", "Dependency manifest to install first (directory mode)")

	return cmd
}

func evalCommandE(_ *cobra.Command, args []string) error {
	spec, baseDir, err := resolveSpec(args[0])
	if err != nil {
		return err
	}

	// CLI flags override spec config
	if evalTimeoutSec > 0 {
		spec.Config.TimeoutSec = evalTimeoutSec
	}
	if evalParallel {
		spec.Config.Concurrent = true
	}
	if evalWorkers > 0 {
		spec.Config.Workers = evalWorkers
	}
	if evalCommandStr != "" {
		spec.Config.Command = strings.Fields(evalCommandStr)
	}

	policy, err := spec.ScoringPolicy()
	if err != nil {
		return err
	}

	opts := []evaluator.Option{
		evaluator.WithCommand(spec.Config.Command),
		evaluator.WithTimeout(time.Duration(spec.Config.TimeoutSec) * time.Second),
		evaluator.WithPolicy(policy),
	}
	if spec.Config.InstallTimeoutSec > 0 {
		opts = append(opts, evaluator.WithInstallTimeout(time.Duration(spec.Config.InstallTimeoutSec)*time.Second))
	}
	if spec.Config.Concurrent {
		workers := spec.Config.Workers
		if workers <= 0 {
			workers = 4
		}
		opts = append(opts, evaluator.WithWorkers(workers))
	} else {
		opts = append(opts, evaluator.WithWorkers(1))
	}

	ev := evaluator.New(opts...)
	if evalVerbose {
		ev.OnProgress(verboseProgressListener)
	} else {
		ev.OnProgress(simpleProgressListener)
	}

	conditions := make([]evaluator.Condition, 0, len(spec.Conditions))
	for _, c := range spec.Conditions {
		dir := c.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		conditions = append(conditions, evaluator.Condition{
			Label:          c.Label,
			Dir:            dir,
			Implementation: c.Implementation,
			Requirements:   c.Requirements,
			Command:        c.Command,
			TimeoutSec:     c.TimeoutSec,
		})
	}

	fmt.Printf("Running evaluation: %s\n", spec.Name)
	fmt.Printf("Conditions: %d\n", len(conditions))
	if spec.Config.Concurrent {
		w := spec.Config.Workers
		if w <= 0 {
			w = 4
		}
		fmt.Printf("Parallel: %d workers\n", w)
	}
	fmt.Println()

	outcome, err := ev.EvaluateAll(context.Background(), spec.Name, conditions)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	printSummary(outcome)

	if evalInterpret {
		fmt.Println()
		fmt.Print(reporting.FormatSummaryReport(outcome))
	}

	if evalOutputPath != "" {
		if err := saveOutcome(outcome, evalOutputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Printf("\nResults saved to: %s\n", evalOutputPath)
	}

	if evalJUnitPath != "" {
		if err := reporting.WriteJUnitXML(outcome, evalJUnitPath); err != nil {
			return fmt.Errorf("failed to write JUnit XML: %w", err)
		}
		fmt.Printf("JUnit XML saved to: %s\n", evalJUnitPath)
	}

	// Return eval failure as error so main can decide the exit code.
	belowThreshold := 0
	for _, e := range outcome.Evaluations {
		if !e.Score.Success {
			belowThreshold++
		}
	}
	if belowThreshold > 0 || len(outcome.Failures) > 0 {
		return &EvalFailureError{
			Message: fmt.Sprintf("evaluation completed with %d condition(s) below threshold and %d execution failure(s)",
				belowThreshold, len(outcome.Failures)),
		}
	}

	return nil
}

// resolveSpec loads an eval.yaml, or synthesizes a single-condition spec when
// the argument is a directory.
func resolveSpec(arg string) (*config.Spec, string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", arg, err)
	}

	if info.IsDir() {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, "", err
		}
		spec := &config.Spec{
			SpecIdentity: config.SpecIdentity{Name: filepath.Base(abs)},
			Config:       config.RunConfig{TimeoutSec: config.DefaultTimeoutSec},
			Conditions: []config.ConditionConfig{{
				Label:          filepath.Base(abs),
				Dir:            abs,
				Implementation: evalImplFile,
				Requirements:   evalReqsFile,
			}},
		}
		return spec, filepath.Dir(abs), nil
	}

	spec, err := config.Load(arg)
	if err != nil {
		return nil, "", err
	}

	baseDir := filepath.Dir(arg)
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	return spec, baseDir, nil
}

func verboseProgressListener(event evaluator.ProgressEvent) {
	switch event.EventType {
	case evaluator.EventBatchStart:
		fmt.Printf("Starting evaluation with %d condition(s)...\n\n", event.Total)
	case evaluator.EventInstallStart:
		fmt.Printf("  Installing dependencies for %s...\n", event.Label)
	case evaluator.EventConditionStart:
		fmt.Printf("[%d/%d] Evaluating: %s\n", event.Num, event.Total, event.Label)
	case evaluator.EventConditionComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("  %s scored %d (%v)\n\n", event.Label, event.Score, duration)
	case evaluator.EventConditionFailed:
		fmt.Printf("  %s failed to run: %v\n\n", event.Label, event.Err)
	case evaluator.EventBatchComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("Evaluation completed in %v\n\n", duration)
	}
}

func simpleProgressListener(event evaluator.ProgressEvent) {
	switch event.EventType {
	case evaluator.EventConditionComplete:
		fmt.Printf("✓ [%d/%d] %s: %d\n", event.Num, event.Total, event.Label, event.Score)
	case evaluator.EventConditionFailed:
		fmt.Printf("✗ [%d/%d] %s: %v\n", event.Num, event.Total, event.Label, event.Err)
	}
}

func saveOutcome(outcome *models.BatchOutcome, path string) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

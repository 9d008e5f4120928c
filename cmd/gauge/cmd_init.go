package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/probeworks/gauge/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new evaluation",
		Long: `Initialize a new evaluation directory with an eval.yaml spec file and
one condition directory per declared condition.

Use --interactive to run a guided wizard that collects the configuration;
otherwise a starter spec is written.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided configuration wizard")

	return cmd
}

const starterEvalYAML = `name: my-eval
description: Evaluate a generated implementation against its test suite.

config:
  command: ["python", "-m", "pytest", "-v", "--tb=short"]
  timeout_seconds: 180

conditions:
  - label: baseline
    dir: baseline
    implementation: solution.py
    requirements: requirements.txt
`

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	content := starterEvalYAML
	conditionDirs := []string{"baseline"}

	if interactive {
		spec, err := wizard.RunEvalWizard(cmd.InOrStdin(), cmd.OutOrStdout(), "")
		if err != nil {
			return err
		}

		content, err = wizard.GenerateEvalYAML(spec)
		if err != nil {
			return fmt.Errorf("failed to generate eval.yaml: %w", err)
		}
		conditionDirs = spec.Conditions
	}

	specPath := filepath.Join(dir, "eval.yaml")
	if err := os.WriteFile(specPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write eval.yaml: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized evaluation:") //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", specPath)         //nolint:errcheck

	for _, c := range conditionDirs {
		condDir := filepath.Join(dir, c)
		if err := os.MkdirAll(condDir, 0o755); err != nil {
			return fmt.Errorf("failed to create condition directory %s: %w", condDir, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s%c\n", condDir, filepath.Separator) //nolint:errcheck
	}

	return nil
}

// Package wizard provides the interactive eval.yaml scaffolding form.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// EvalSpec holds all fields collected during the interactive wizard.
type EvalSpec struct {
	Name           string
	Description    string
	Command        string
	TimeoutSec     int
	Conditions     []string
	Implementation string
	Requirements   string
}

const evalYAMLTemplate = `name: {{ .Name }}
{{- if .Description }}
description: {{ .Description }}
{{- end }}

config:
  command: [{{ .CommandList }}]
  timeout_seconds: {{ .TimeoutSec }}

conditions:
{{- range .Conditions }}
  - label: {{ . }}
    dir: {{ . }}
{{- if $.Implementation }}
    implementation: {{ $.Implementation }}
{{- end }}
{{- if $.Requirements }}
    requirements: {{ $.Requirements }}
{{- end }}
{{- end }}
`

// RunEvalWizard runs an interactive huh form to collect the evaluation
// configuration. If initialName is non-empty, it pre-populates the name field.
func RunEvalWizard(in io.Reader, out io.Writer, initialName string) (*EvalSpec, error) {
	var (
		name          = initialName
		description   string
		command       string
		timeoutRaw    = "180"
		conditionsRaw string
		impl          string
		reqs          string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Evaluation name").
				Description("A short name for this evaluation").
				Placeholder("my-eval").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Description("What is being evaluated?").
				Value(&description),
			huh.NewSelect[string]().
				Title("Test command").
				Options(
					huh.NewOption("python -m pytest -v --tb=short", "python -m pytest -v --tb=short"),
					huh.NewOption("python -m unittest discover -v", "python -m unittest discover -v"),
					huh.NewOption("npm test", "npm test"),
				).
				Value(&command),
			huh.NewInput().
				Title("Timeout (seconds)").
				Description("Wall-clock budget per condition").
				Value(&timeoutRaw).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
			huh.NewInput().
				Title("Condition directories").
				Description("Comma-separated directories, one per condition").
				Placeholder("baseline, candidate").
				Value(&conditionsRaw).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return fmt.Errorf("at least one condition directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Implementation file").
				Description("File within each condition directory to derive quality signals from (optional)").
				Placeholder("solution.py").
				Value(&impl),
			huh.NewInput().
				Title("Requirements file").
				Description("Dependency manifest within each condition directory (optional)").
				Placeholder("requirements.txt").
				Value(&reqs),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	timeout, _ := strconv.Atoi(strings.TrimSpace(timeoutRaw))

	return &EvalSpec{
		Name:           strings.TrimSpace(name),
		Description:    strings.TrimSpace(description),
		Command:        command,
		TimeoutSec:     timeout,
		Conditions:     splitAndTrim(conditionsRaw),
		Implementation: strings.TrimSpace(impl),
		Requirements:   strings.TrimSpace(reqs),
	}, nil
}

// GenerateEvalYAML renders an eval.yaml from the given spec.
func GenerateEvalYAML(spec *EvalSpec) (string, error) {
	tmpl, err := template.New("evalyaml").Parse(evalYAMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	parts := strings.Fields(spec.Command)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = strconv.Quote(p)
	}

	data := struct {
		*EvalSpec
		CommandList string
	}{EvalSpec: spec, CommandList: strings.Join(quoted, ", ")}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Package config loads and validates the eval.yaml evaluation spec.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/probeworks/gauge/internal/scoring"
	"github.com/probeworks/gauge/internal/validation"
)

// Spec represents a complete evaluation specification.
type Spec struct {
	SpecIdentity `yaml:",inline"`
	Config       RunConfig         `yaml:"config"`
	Conditions   []ConditionConfig `yaml:"conditions"`

	// Scoring holds free-form overrides of the default scoring policy.
	Scoring map[string]any `yaml:"scoring,omitempty"`
}

type SpecIdentity struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// RunConfig controls execution behavior.
type RunConfig struct {
	Command           []string `yaml:"command,omitempty" json:"command,omitempty"`
	TimeoutSec        int      `yaml:"timeout_seconds" json:"timeout_sec"`
	InstallTimeoutSec int      `yaml:"install_timeout_seconds,omitempty" json:"install_timeout_sec,omitempty"`
	Concurrent        bool     `yaml:"parallel" json:"concurrent"`
	Workers           int      `yaml:"max_workers,omitempty" json:"workers,omitempty"`
}

// ConditionConfig declares one evaluation target directory.
type ConditionConfig struct {
	Label          string   `yaml:"label" json:"label"`
	Dir            string   `yaml:"dir" json:"dir"`
	Implementation string   `yaml:"implementation,omitempty" json:"implementation,omitempty"`
	Requirements   string   `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	Command        []string `yaml:"command,omitempty" json:"command,omitempty"`
	TimeoutSec     int      `yaml:"timeout_seconds,omitempty" json:"timeout_sec,omitempty"`
}

// DefaultTimeoutSec is the per-condition test timeout when the spec is silent.
const DefaultTimeoutSec = 180

// Load reads, schema-validates, and decodes an eval.yaml file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}

	if errs := validation.ValidateEvalBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("spec %s is invalid:\n  %s", path, strings.Join(errs, "\n  "))
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decoding spec: %w", err)
	}

	if spec.Config.TimeoutSec == 0 {
		spec.Config.TimeoutSec = DefaultTimeoutSec
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("spec %s: %w", path, err)
	}

	return &spec, nil
}

// Validate checks constraints the JSON schema cannot express.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Conditions) == 0 {
		return fmt.Errorf("at least one condition is required")
	}
	if s.Config.TimeoutSec < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", s.Config.TimeoutSec)
	}

	seen := make(map[string]bool, len(s.Conditions))
	for _, c := range s.Conditions {
		if c.Label == "" {
			return fmt.Errorf("every condition needs a label")
		}
		if seen[c.Label] {
			return fmt.Errorf("duplicate condition label %q", c.Label)
		}
		seen[c.Label] = true
		if c.Dir == "" {
			return fmt.Errorf("condition %q needs a dir", c.Label)
		}
	}

	if _, err := s.ScoringPolicy(); err != nil {
		return err
	}

	return nil
}

// ScoringPolicy returns the default policy with the spec's scoring overrides
// applied.
func (s *Spec) ScoringPolicy() (scoring.Policy, error) {
	policy := scoring.DefaultPolicy()
	if len(s.Scoring) == 0 {
		return policy, nil
	}

	// ZeroFields so a bands override replaces the default bands instead of
	// overwriting them element by element.
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &policy,
		ZeroFields: true,
	})
	if err != nil {
		return scoring.Policy{}, fmt.Errorf("building scoring decoder: %w", err)
	}
	if err := dec.Decode(s.Scoring); err != nil {
		return scoring.Policy{}, fmt.Errorf("decoding scoring overrides: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return scoring.Policy{}, fmt.Errorf("scoring overrides: %w", err)
	}

	return policy, nil
}

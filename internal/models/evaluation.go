package models

import "time"

// Evaluation is the complete record of one condition's evaluation: the parsed
// test run, the optional quality signals, and the resulting score. Each
// Evaluation is built fresh from its own raw output and is immutable once
// constructed.
type Evaluation struct {
	Label      string          `json:"label"`
	WorkingDir string          `json:"working_dir"`
	Command    []string        `json:"command"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms"`
	Result     *TestRunResult  `json:"result"`
	Quality    *QualityMetrics `json:"quality,omitempty"`
	Score      Score           `json:"score"`
}

// FailureKind names the class of an execution-layer failure.
type FailureKind string

const (
	FailureTimeout            FailureKind = "timeout"
	FailureDependencyInstall  FailureKind = "dependency_install"
	FailureExecutableNotFound FailureKind = "executable_not_found"
	FailureOther              FailureKind = "other"
)

// ConditionFailure records a classified execution-layer failure for one
// condition. These never turn into scores; they are reported alongside the
// evaluations that did complete.
type ConditionFailure struct {
	Label   string      `json:"label"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Output  string      `json:"output,omitempty"`
}

// BatchOutcome is the result of evaluating a set of conditions.
type BatchOutcome struct {
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	DurationMs  int64              `json:"duration_ms"`
	Evaluations []Evaluation       `json:"evaluations"`
	Failures    []ConditionFailure `json:"failures,omitempty"`
	Comparison  *ComparisonSummary `json:"comparison,omitempty"`
}

// LabeledScores returns the batch's scores in evaluation order, ready for
// comparison.
func (b *BatchOutcome) LabeledScores() []LabeledScore {
	scores := make([]LabeledScore, 0, len(b.Evaluations))
	for _, ev := range b.Evaluations {
		scores = append(scores, LabeledScore{Label: ev.Label, Score: ev.Score})
	}
	return scores
}

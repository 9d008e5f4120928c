package models

import (
	"fmt"
	"strings"
)

// Status represents the outcome of a single test case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// TestCaseResult is the parsed outcome of one test case.
// FailureReason is set only for failed/errored cases and is a best-effort
// excerpt of the failure block, not a complete trace.
type TestCaseResult struct {
	Name          string `json:"name"`
	Status        Status `json:"status"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// TestRunResult is the canonical, parsed outcome of one test-suite execution.
//
// When CountsApproximate is false, Passed+Failed+Errors+Skipped == Total.
// Total == 0 is a legitimate state (nothing collected) and is distinct from
// "execution never started", which surfaces as an error from the runner, not
// as a TestRunResult.
type TestRunResult struct {
	Total             int              `json:"total"`
	Passed            int              `json:"passed"`
	Failed            int              `json:"failed"`
	Errors            int              `json:"errors"`
	Skipped           int              `json:"skipped"`
	DurationSeconds   float64          `json:"duration_seconds,omitempty"`
	CountsApproximate bool             `json:"counts_approximate,omitempty"`
	Tests             []TestCaseResult `json:"tests,omitempty"`
	RawOutput         string           `json:"raw_output,omitempty"`
}

// PassRate returns Passed/Total, or 0 when no tests were collected.
func (r *TestRunResult) PassRate() float64 {
	if r.Total <= 0 {
		return 0.0
	}
	return float64(r.Passed) / float64(r.Total)
}

// CountsConsistent reports whether the per-status counts add up to Total.
// Always true for approximate counts, where the invariant is not promised.
func (r *TestRunResult) CountsConsistent() bool {
	if r.CountsApproximate {
		return true
	}
	return r.Passed+r.Failed+r.Errors+r.Skipped == r.Total
}

// FailingCount returns the number of failed plus errored tests.
func (r *TestRunResult) FailingCount() int {
	return r.Failed + r.Errors
}

// Summary renders a one-line human-readable digest of the run.
func (r *TestRunResult) Summary() string {
	if r.Total == 0 {
		return "No tests found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d tests passed (%.1f%%)", r.Passed, r.Total, r.PassRate()*100)
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", r.Failed)
	}
	if r.Errors > 0 {
		fmt.Fprintf(&b, ", %d errors", r.Errors)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", r.Skipped)
	}
	return b.String()
}

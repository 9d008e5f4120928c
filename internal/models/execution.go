package models

import "time"

// RawExecution is the unparsed outcome of one subprocess run: exit status plus
// whatever output was captured. On timeout the output fields hold everything
// captured up to the kill.
type RawExecution struct {
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// CombinedOutput joins stdout and stderr the way the parser consumes them.
func (e *RawExecution) CombinedOutput() string {
	if e.Stderr == "" {
		return e.Stdout
	}
	return e.Stdout + "\n" + e.Stderr
}

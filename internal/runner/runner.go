// Package runner executes test commands in isolated child processes with a
// hard wall-clock timeout. It reports raw exit status and captured output;
// interpreting that output is the parser's job.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/probeworks/gauge/internal/models"
)

const (
	// DefaultTimeout bounds a single test-suite execution.
	DefaultTimeout = 180 * time.Second

	// killGracePeriod is how long we wait for output pipes to drain after the
	// process group has been killed.
	killGracePeriod = 5 * time.Second
)

// ExecRequest describes one subprocess execution.
type ExecRequest struct {
	// Command is the argv to run; Command[0] is the binary.
	Command []string
	// Dir is the working directory the process is rooted at.
	Dir string
	// Timeout bounds wall-clock execution. Zero means DefaultTimeout.
	Timeout time.Duration
	// Env holds extra KEY=VALUE entries appended to the parent environment.
	Env []string
}

// TimeoutError reports that a process exceeded its wall-clock budget. The
// partial output captured before the kill is attached.
type TimeoutError struct {
	Command   string
	Timeout   time.Duration
	Execution *models.RawExecution
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %v", e.Command, e.Timeout)
}

// ExecutableNotFoundError reports that the command binary itself is missing.
type ExecutableNotFoundError struct {
	Command string
	Err     error
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found: %v", e.Command, e.Err)
}

func (e *ExecutableNotFoundError) Unwrap() error { return e.Err }

// Execute runs the command rooted at req.Dir, captures stdout and stderr, and
// enforces the timeout by killing the whole process tree. A non-zero exit is a
// legitimate outcome, not an error; the error return is reserved for timeouts,
// a missing binary, cancellation, and start failures.
func Execute(ctx context.Context, req ExecRequest) (*models.RawExecution, error) {
	if len(req.Command) == 0 {
		return nil, errors.New("runner: empty command")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, req.Command[0], req.Command[1:]...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(cmd.Environ(), req.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Kill the whole process group on timeout/cancellation so test runners
	// that fork (pytest-xdist, shell wrappers) leave no orphans behind.
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = killGracePeriod

	slog.Debug("executing command", "command", strings.Join(req.Command, " "), "dir", req.Dir, "timeout", timeout)

	start := time.Now()
	runErr := cmd.Run()

	res := &models.RawExecution{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		res.ExitCode = 0
		return res, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		res.TimedOut = true
		res.ExitCode = -1
		return res, &TimeoutError{
			Command:   strings.Join(req.Command, " "),
			Timeout:   timeout,
			Execution: res,
		}
	}

	// Caller-initiated cancellation propagates like a timeout: process tree
	// killed, partial output preserved, distinct error returned.
	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("command %q canceled: %w", req.Command[0], ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	var pathErr *exec.Error
	if errors.As(runErr, &pathErr) && errors.Is(pathErr.Err, exec.ErrNotFound) {
		return nil, &ExecutableNotFoundError{Command: req.Command[0], Err: pathErr.Err}
	}

	return nil, fmt.Errorf("running %q: %w", req.Command[0], runErr)
}

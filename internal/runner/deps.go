package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultInstallTimeout bounds the dependency bootstrap step.
const DefaultInstallTimeout = 5 * time.Minute

// defaultInstallCommand is the package-install command prefix; the manifest
// path is appended as the final argument.
var defaultInstallCommand = []string{"pip", "install", "-r"}

// InstallRequest describes a dependency bootstrap run.
type InstallRequest struct {
	// Requirements is the dependency manifest path, relative to Dir or absolute.
	Requirements string
	// Dir is the working directory the installer runs in.
	Dir string
	// Command overrides the install command prefix. Empty means pip install -r.
	Command []string
	// Timeout bounds the install. Zero means DefaultInstallTimeout.
	Timeout time.Duration
}

// DependencyInstallError reports a failed dependency bootstrap. It is a fatal
// precondition failure for the evaluation, distinct from any test outcome, and
// carries the raw installer output for diagnosis.
type DependencyInstallError struct {
	Requirements string
	ExitCode     int
	Output       string
	Err          error
}

func (e *DependencyInstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("installing dependencies from %s: %v", e.Requirements, e.Err)
	}
	return fmt.Sprintf("installing dependencies from %s: installer exited with code %d", e.Requirements, e.ExitCode)
}

func (e *DependencyInstallError) Unwrap() error { return e.Err }

// InstallDependencies runs the package-install command for the given manifest.
// It must complete successfully before any test command runs; callers
// short-circuit the evaluation on error. A missing installer binary surfaces
// as ExecutableNotFoundError, everything else as DependencyInstallError.
func InstallDependencies(ctx context.Context, req InstallRequest) error {
	if req.Requirements == "" {
		return errors.New("runner: empty requirements path")
	}

	command := req.Command
	if len(command) == 0 {
		command = defaultInstallCommand
	}
	argv := make([]string, 0, len(command)+1)
	argv = append(argv, command...)
	argv = append(argv, req.Requirements)

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultInstallTimeout
	}

	res, err := Execute(ctx, ExecRequest{Command: argv, Dir: req.Dir, Timeout: timeout})
	if err != nil {
		var notFound *ExecutableNotFoundError
		if errors.As(err, &notFound) {
			return notFound
		}

		var timedOut *TimeoutError
		if errors.As(err, &timedOut) {
			return &DependencyInstallError{
				Requirements: req.Requirements,
				ExitCode:     -1,
				Output:       timedOut.Execution.CombinedOutput(),
				Err:          timedOut,
			}
		}

		return &DependencyInstallError{Requirements: req.Requirements, Err: err}
	}

	if res.ExitCode != 0 {
		return &DependencyInstallError{
			Requirements: req.Requirements,
			ExitCode:     res.ExitCode,
			Output:       strings.TrimSpace(res.CombinedOutput()),
		}
	}

	return nil
}

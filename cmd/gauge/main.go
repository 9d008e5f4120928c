package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Every condition reached the success threshold
	ExitEvalFailed = 1 // One or more conditions fell short or failed to run
	ExitError      = 2 // Configuration or runtime error
)

// EvalFailureError indicates that the evaluation itself ran to completion,
// but one or more conditions scored below the success threshold or failed at
// the execution layer.
type EvalFailureError struct {
	Message string
}

func (e *EvalFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var evalErr *EvalFailureError
		if errors.As(err, &evalErr) {
			os.Exit(ExitEvalFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}

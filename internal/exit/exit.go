// Package exit carries termination messages and exit codes out of the CLI.
package exit

import (
	"fmt"
	"io"
	"os"
)

// Result pairs a termination message with the destination it should be
// written to and the process exit code.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the message to the configured destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success writes to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: 0,
		Message:  message,
	}
}

// Error writes to stderr with exit code 1.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: 1,
		Message:  message,
	}
}

// Errorf is Error with formatting.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

package cli

import (
	"errors"

	"github.com/yaklabco/gomdpos/pkg/runner"
)

// Exit codes for gomdpos.
const (
	// ExitSuccess indicates every file was annotated and verified.
	ExitSuccess = 0

	// ExitAnnotationFailures indicates the run finished but at least one
	// file failed to annotate or a location failed verification.
	ExitAnnotationFailures = 1

	// ExitUsageError indicates invalid usage, a configuration error, or an
	// I/O error that stopped the run.
	ExitUsageError = 2
)

// ErrAnnotationFailures is returned when a run completed with failures.
var ErrAnnotationFailures = errors.New("annotation failures")

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitAnnotationFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrAnnotationFailures):
		return ExitAnnotationFailures
	default:
		return ExitUsageError
	}
}

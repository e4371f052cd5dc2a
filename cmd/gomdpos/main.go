// Package main is the entry point for the gomdpos CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/gomdpos/internal/cli"
	"github.com/yaklabco/gomdpos/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.Execute()
	// Annotation failures are already in the report; the exit code is enough.
	if err != nil && !errors.Is(err, cli.ErrAnnotationFailures) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}

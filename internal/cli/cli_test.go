package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/internal/cli"
	"github.com/yaklabco/gomdpos/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "gomdpos", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"annotate", "types", "init", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, sub.Name())
		}
	}

	alias, _, err := cmd.Find([]string{"pos"})
	require.NoError(t, err)
	assert.Equal(t, "annotate", alias.Name())
}

func TestAnnotateCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	annotate, _, err := cmd.Find([]string{"annotate"})
	require.NoError(t, err)

	for _, name := range []string{
		"format", "flavor", "jobs", "ignore", "filter", "detect-language",
		"tagged-blocks", "verify", "output", "compact", "follow-symlinks", "max-raw",
	} {
		assert.NotNil(t, annotate.Flags().Lookup(name), "flag %q", name)
	}
	assert.Contains(t, annotate.Flags().Lookup("format").Usage, "summary")
	assert.NoError(t, annotate.Args(annotate, []string{"a.md", "docs/", "-"}))
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"annotate", "--help"})

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "Aliases:")
	assert.Contains(t, help, "--tagged-blocks")
	assert.Contains(t, help, "Global Flags:")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, cli.ExitSuccess},
		{"failures", cli.ErrAnnotationFailures, cli.ExitAnnotationFailures},
		{"wrapped failures", fmt.Errorf("run: %w", cli.ErrAnnotationFailures), cli.ExitAnnotationFailures},
		{"other error", errors.New("bad flag"), cli.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(&runner.Result{}))
	assert.Equal(t, cli.ExitAnnotationFailures,
		cli.ExitCodeFromResult(&runner.Result{Stats: runner.Stats{FilesFailed: 1}}))
	assert.Equal(t, cli.ExitAnnotationFailures,
		cli.ExitCodeFromResult(&runner.Result{Stats: runner.Stats{Violations: 2}}))
}

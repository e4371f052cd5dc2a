package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/internal/cli"
	"github.com/yaklabco/gomdpos/pkg/analysis"
)

const testMarkdown = "# Hello World\n\nSome *text* and a [link](https://example.com).\n"

// execute runs the root command with a throwaway config file so the
// repository's own configuration cannot leak into the test.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("flavor: gfm\n"), 0o644))

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgFile, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeMarkdown(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIntegration_AnnotateText(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := execute(t, "", "annotate", writeMarkdown(t, testMarkdown))
	require.NoError(t, err)

	assert.Contains(t, stdout, `heading [1:1-1:14] "# Hello World" depth=1`)
	assert.Contains(t, stdout, `em [3:6-3:12] "*text*"`)
	assert.Contains(t, stdout, "href=https://example.com")
	assert.Contains(t, stderr, "in 1 file")
}

func TestIntegration_AnnotateStdinJSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "## Two\n", "pos", "--format", "json", "-")
	require.NoError(t, err)

	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, "-", report.Files[0].Path)

	heading := report.Files[0].Tokens[0]
	assert.Equal(t, "heading", heading.Type)
	require.NotNil(t, heading.Location)
	assert.Equal(t, 6, heading.Location.End.Offset)
}

func TestIntegration_Filter(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "annotate", "--compact",
		"--filter", `type == "link" && start.line == 2`, writeMarkdown(t, testMarkdown))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], ":3:19 link")
}

func TestIntegration_InvalidFilter(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "annotate", "--filter", "type ==", writeMarkdown(t, testMarkdown))
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsageError, cli.ExitCode(err))
}

func TestIntegration_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "annotate", "--format", "sarif", writeMarkdown(t, testMarkdown))
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsageError, cli.ExitCode(err))
}

func TestIntegration_MissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.md")
	_, _, err := execute(t, "", "annotate", missing)
	require.Error(t, err)
}

func TestIntegration_Verify(t *testing.T) {
	t.Parallel()

	src := "> - a\n> - b\n>\n> > deep\n\n| x | y |\n|---|---|\n| **1** | 2 |\n"
	_, stderr, err := execute(t, "", "annotate", "--verify", writeMarkdown(t, src))
	require.NoError(t, err)
	assert.NotContains(t, stderr, "violation")
}

func TestIntegration_OutputFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "report.xml")
	stdout, _, err := execute(t, "", "annotate", "--format", "xml", "--output", out, writeMarkdown(t, testMarkdown))
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<token type="heading" depth="0">`)
	assert.NotContains(t, string(data), "\x1b[", "files never get color codes")
}

func TestIntegration_Summary(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "annotate", "--format", "summary", writeMarkdown(t, testMarkdown))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Token types")
	assert.Contains(t, stdout, "heading")
}

func TestIntegration_TaggedBlocks(t *testing.T) {
	t.Parallel()

	src := ":note:\nsee **this**\n:\n"
	stdout, _, err := execute(t, "", "annotate", "--tagged-blocks", "--compact", writeMarkdown(t, src))
	require.NoError(t, err)
	assert.Contains(t, stdout, "taggedBlock [1:1-3:2]")
	assert.Contains(t, stdout, "tag=note")
}

func TestIntegration_Types(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "types", "--format", "json")
	require.NoError(t, err)

	var types []struct {
		Type  string   `json:"type"`
		Attrs []string `json:"attrs"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &types))
	assert.NotEmpty(t, types)
	assert.Equal(t, "space", types[0].Type)
}

func TestIntegration_ConfigEnv(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "config", "--env")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GOMDPOS_FLAVOR")
	assert.Contains(t, stdout, "GOMDPOS_FILTER")
}

func TestIntegration_ConfigShow(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Loaded from:")
	assert.Contains(t, stdout, "flavor: gfm")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "custom.yml")

	_, _, err := execute(t, "", "init", "--output", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flavor: gfm")

	_, _, err = execute(t, "", "init", "--output", target)
	require.Error(t, err, "refuses to overwrite without --force")

	_, _, err = execute(t, "", "init", "--output", target, "--force")
	require.NoError(t, err)
}

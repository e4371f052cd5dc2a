package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdpos/pkg/analysis"
	"github.com/yaklabco/gomdpos/pkg/position"
	"github.com/yaklabco/gomdpos/pkg/reporter"
	"github.com/yaklabco/gomdpos/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "yaml", input: "yaml", want: reporter.FormatYAML},
		{name: "xml upper case", input: "XML", want: reporter.FormatXML},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "yaml reporter", format: reporter.FormatYAML},
		{name: "xml reporter", format: reporter.FormatXML},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "diff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"
	rep, err := reporter.New(opts)
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), count
}

func TestReporter_Text(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatText}, sampleResult(t))

	assert.Equal(t, 6, count)
	assert.Contains(t, out, "doc.md (6 tokens)")
	assert.Contains(t, out, `heading [1:1-1:8] "# Title" depth=1`)
	assert.Contains(t, out, "codespan [3:6-3:12] \"`code`\"")
	assert.Contains(t, out, "broken.md: error: permission denied")
}

func TestReporter_TextCompact(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatText, Compact: true}, sampleResult(t))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "doc.md:1:1 heading"))
	assert.True(t, strings.HasPrefix(lines[1], "doc.md:1:3 text"))
	assert.NotContains(t, out, "├──")
}

func TestReporter_TextFilter(t *testing.T) {
	t.Parallel()

	filter, err := analysis.CompileFilter(`type == "codespan"`)
	require.NoError(t, err)

	out, count := report(t, reporter.Options{Format: reporter.FormatText, Filter: filter}, sampleResult(t))

	assert.Equal(t, 1, count)
	assert.Contains(t, out, "doc.md (1 token)")
	assert.NotContains(t, out, "heading")
}

func TestReporter_TextViolations(t *testing.T) {
	t.Parallel()

	src := "# Title\n"
	tokens := lex(t, src)
	result := &runner.Result{Files: []runner.FileResult{{
		Path:       "doc.md",
		Tokens:     tokens,
		Violations: position.Verify(tokens, "# Other\n"),
	}}}
	require.NotEmpty(t, result.Files[0].Violations)

	out, _ := report(t, reporter.Options{Format: reporter.FormatText}, result)
	assert.Contains(t, out, "doc.md: violation: ")
}

func TestReporter_JSON(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatJSON}, sampleResult(t))
	assert.Equal(t, 6, count)

	var decoded analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, analysis.ReportVersion, decoded.Version)
	assert.Equal(t, "permission denied", decoded.Files[1].Error)

	heading := decoded.Files[0].Tokens[0]
	assert.Equal(t, "heading", heading.Type)
	require.NotNil(t, heading.Location)
	assert.Equal(t, 7, heading.Location.End.Offset)
	assert.Equal(t, 6, decoded.Totals.Reported)
	assert.True(t, strings.HasPrefix(out, "{\n  "), "indented by default")
}

func TestReporter_JSONCompact(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, sampleResult(t))
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestReporter_YAML(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatYAML}, sampleResult(t))

	var decoded analysis.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "doc.md", decoded.Files[0].Path)
	assert.Equal(t, 1, decoded.Totals.FilesFailed)
	assert.Contains(t, out, "by_type:")
}

func TestReporter_XML(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatXML}, sampleResult(t))
	assert.Equal(t, 6, count)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))

	root := doc.SelectElement("report")
	require.NotNil(t, root)
	assert.Equal(t, "6", root.SelectElement("summary").SelectAttrValue("reported", ""))

	files := root.SelectElements("file")
	require.Len(t, files, 2)
	assert.Equal(t, "permission denied", files[1].SelectElement("error").Text())

	heading := files[0].SelectElement("token")
	assert.Equal(t, "heading", heading.SelectAttrValue("type", ""))
	assert.Equal(t, "# Title", heading.SelectElement("raw").Text())
	end := heading.FindElement("location/end")
	require.NotNil(t, end)
	assert.Equal(t, "7", end.SelectAttrValue("offset", ""))

	para := files[0].SelectElements("token")[1]
	assert.Equal(t, "Some `code` here.", para.SelectElement("raw").Text())
}

func TestReporter_XMLEscapesRaw(t *testing.T) {
	t.Parallel()

	src := "```\na < b && c\n```\n"
	result := &runner.Result{Files: []runner.FileResult{{Path: "code.md", Tokens: lex(t, src)}}}

	out, _ := report(t, reporter.Options{Format: reporter.FormatXML, Compact: true}, result)
	assert.Contains(t, out, "a &lt; b &amp;&amp; c")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	code := doc.FindElement("report/file/token")
	require.NotNil(t, code)
	assert.Equal(t, "```\na < b && c\n```", code.SelectElement("raw").Text())
}

func TestReporter_Summary(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatSummary, Width: 80}, sampleResult(t))

	assert.Equal(t, 6, count)
	assert.Contains(t, out, "Token types")
	assert.Contains(t, out, "paragraph")
	assert.Contains(t, out, "broken.md: error: permission denied")
	assert.Contains(t, out, "Failed: 1")
	assert.NotContains(t, out, `"# Title"`)
}

func TestReporter_SummaryNoTokens(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatSummary}, &runner.Result{})
	assert.Zero(t, count)
	assert.Contains(t, out, "No tokens found")
}

func TestReporter_OneLineSummary(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &out,
		ErrorWriter: &errOut,
		Format:      reporter.FormatJSON,
		Color:       "never",
		ShowSummary: true,
	})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, "6 tokens in 1 file, 1 failed (0s)\n", errOut.String())
	assert.NotContains(t, out.String(), "tokens in")
}

func TestReporter_NilResult(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &out,
		ErrorWriter: &errOut,
		Color:       "never",
		ShowSummary: true,
	})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, errOut.String(), "No files to annotate")
}

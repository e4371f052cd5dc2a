// Package reporter writes annotated token trees in the supported output
// formats.
package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/gomdpos/internal/ui/pretty"
	"github.com/yaklabco/gomdpos/pkg/analysis"
	"github.com/yaklabco/gomdpos/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of tokens reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
	summary      io.Writer
	styles       *pretty.Styles
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report, err := analysis.Analyze(result, f.analysisOpts)
	if err != nil {
		return 0, fmt.Errorf("analyze: %w", err)
	}
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}

	if f.summary != nil {
		var stats runner.Stats
		if result != nil {
			stats = result.Stats
		}
		if _, err := io.WriteString(f.summary, f.styles.FormatSummaryOneLine(stats)); err != nil {
			return 0, fmt.Errorf("write summary: %w", err)
		}
	}
	return report.Totals.Reported, nil
}

// newRendererFacade creates a facade wrapping a Renderer.
func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	f := &reporterFacade{
		renderer: renderer,
		analysisOpts: analysis.Options{
			Filter:        opts.Filter,
			IncludeTokens: opts.Format != FormatSummary,
			IncludeByType: true,
			SortBy:        analysis.SortByCount,
			SortDesc:      true,
			WorkingDir:    opts.WorkingDir,
		},
	}
	if opts.ShowSummary && opts.ErrorWriter != nil {
		f.summary = opts.ErrorWriter
		f.styles = pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.ErrorWriter))
	}
	return f
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	opts.Format = format

	var renderer Renderer
	switch format {
	case FormatText:
		renderer = NewTextRenderer(opts)
	case FormatJSON:
		renderer = NewJSONRenderer(opts)
	case FormatYAML:
		renderer = NewYAMLRenderer(opts)
	case FormatXML:
		renderer = NewXMLRenderer(opts)
	case FormatSummary:
		renderer = NewSummaryRenderer(opts)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return newRendererFacade(renderer, opts), nil
}

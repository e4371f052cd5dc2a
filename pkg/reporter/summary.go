package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdpos/internal/ui/pretty"
	"github.com/yaklabco/gomdpos/pkg/analysis"
)

// SummaryRenderer prints per-type token counts instead of the tokens.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	for _, file := range report.Files {
		if file.Error != "" {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render("error: "+file.Error),
			)
		}
	}

	if report.Totals.Reported == 0 {
		fmt.Fprintln(bw, r.styles.Dim.Render("No tokens found"))
	} else {
		width := r.opts.Width
		if width == 0 {
			width = pretty.TerminalWidth(r.opts.Writer)
		}
		fmt.Fprint(bw, r.styles.FormatTypeTable(report.ByType, width))
	}

	r.renderTotals(bw, report.Totals)
	return nil
}

func (r *SummaryRenderer) renderTotals(bw *bufio.Writer, totals analysis.Totals) {
	line := fmt.Sprintf("%s %d   %s %d",
		r.styles.SummaryTitle.Render("Files:"), totals.Files,
		r.styles.SummaryTitle.Render("Reported:"), totals.Reported,
	)
	if totals.FilesFailed > 0 {
		line += "   " + r.styles.Failure.Render(fmt.Sprintf("Failed: %d", totals.FilesFailed))
	}
	if totals.Violations > 0 {
		line += "   " + r.styles.Warning.Render(fmt.Sprintf("Violations: %d", totals.Violations))
	}
	fmt.Fprintln(bw, line)
}

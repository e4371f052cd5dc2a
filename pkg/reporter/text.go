package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gomdpos/internal/ui/pretty"
	"github.com/yaklabco/gomdpos/pkg/analysis"
)

// TextRenderer formats reports as styled terminal output: a token tree per
// file, or one line per token in compact mode.
type TextRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(ctx context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	maxRaw := r.opts.maxRaw()
	for i, file := range report.Files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("render cancelled: %w", err)
		}

		if file.Error != "" {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render("error: "+file.Error),
			)
			continue
		}

		if r.opts.Compact {
			r.writeCompact(bw, file.Path, file.Tokens, maxRaw)
		} else {
			if i > 0 {
				fmt.Fprintln(bw)
			}
			fmt.Fprintln(bw, r.styles.FormatFileHeader(file.Path, file.TokenCount()))
			fmt.Fprint(bw, r.styles.FormatTree(file.Tokens, maxRaw))
		}

		for _, v := range file.Violations {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Warning.Render("violation: "+v),
			)
		}
	}
	return nil
}

func (r *TextRenderer) writeCompact(bw *bufio.Writer, path string, nodes []analysis.Node, maxRaw int) {
	for _, n := range nodes {
		fmt.Fprint(bw, r.styles.FormatCompactLine(path, n, maxRaw))
		r.writeCompact(bw, path, n.Children, maxRaw)
	}
}

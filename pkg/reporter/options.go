package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/gomdpos/pkg/analysis"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// defaultMaxRaw is how many runes of a token's raw text the text format shows.
const defaultMaxRaw = 60

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives the one-line run summary (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary writes the one-line run summary to ErrorWriter.
	ShowSummary bool

	// Compact prints one line per token in text output and minified JSON.
	Compact bool

	// Filter selects the reported tokens. Nil reports whole trees.
	Filter *analysis.Filter

	// MaxRaw caps the raw snippet length in text output. 0 means the
	// default; negative disables truncation.
	MaxRaw int

	// Width is the summary table width. 0 means the terminal width.
	Width int

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

func (o Options) maxRaw() int {
	switch {
	case o.MaxRaw == 0:
		return defaultMaxRaw
	case o.MaxRaw < 0:
		return 0
	default:
		return o.MaxRaw
	}
}

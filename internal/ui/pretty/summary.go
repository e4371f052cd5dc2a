package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/gomdpos/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "142 tokens in 3 files, 1 failed, 2 violations (12ms)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to annotate.") + "\n"
	}

	head := fmt.Sprintf("%d %s in %d %s",
		stats.Tokens, plural(stats.Tokens, "token", "tokens"),
		stats.FilesAnnotated, plural(stats.FilesAnnotated, wordFile, wordFiles),
	)

	parts := []string{s.Success.Render(head)}
	if stats.FilesFailed > 0 {
		parts[0] = s.SummaryValue.Render(head)
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if stats.Violations > 0 {
		parts[0] = s.SummaryValue.Render(head)
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s",
			stats.Violations, plural(stats.Violations, "violation", "violations"))))
	}

	return strings.Join(parts, ", ") + s.Dim.Render(fmt.Sprintf(" (%s)", stats.Elapsed.Round(100*time.Microsecond))) + "\n"
}

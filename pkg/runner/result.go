package runner

import (
	"time"

	"github.com/yaklabco/gomdpos/pkg/position"
	"github.com/yaklabco/gomdpos/pkg/token"
)

// FileResult is the outcome of annotating one file.
type FileResult struct {
	// Path is the absolute file path, or StdinPath.
	Path string

	// Source is the text the locations refer to.
	Source string

	// Tokens is the annotated token tree. Nil when Err is set.
	Tokens []token.Token

	// Violations lists locations that failed verification. Only populated
	// when verification is enabled.
	Violations []position.Violation

	// Err is set when the file could not be read, lexed or annotated.
	Err error

	// Duration is the time spent lexing and annotating.
	Duration time.Duration
}

// Failed reports whether the file errored or failed verification.
func (f FileResult) Failed() bool {
	return f.Err != nil || len(f.Violations) > 0
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the number of files discovery produced.
	FilesDiscovered int

	// FilesAnnotated is the number of files annotated without error.
	FilesAnnotated int

	// FilesFailed is the number of files that errored.
	FilesFailed int

	// Tokens is the number of annotated tokens across all files.
	Tokens int

	// Violations is the number of verification failures across all files.
	Violations int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files holds one result per discovered file, in discovery order.
	Files []FileResult

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file errored or failed verification.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.Stats.Violations > 0
}

func (r *Result) accumulate(file FileResult) {
	r.Files = append(r.Files, file)

	if file.Err != nil {
		r.Stats.FilesFailed++
		return
	}
	r.Stats.FilesAnnotated++
	r.Stats.Tokens += token.Count(file.Tokens)
	r.Stats.Violations += len(file.Violations)
}

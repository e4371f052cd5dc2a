package analysis

import (
	"time"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Report is the renderer-neutral view of a run. Analyze computes it once and
// every output format renders it.
type Report struct {
	// Files holds one entry per annotated file, in run order.
	Files []FileReport `json:"files" yaml:"files"`

	// ByType counts reported tokens per type.
	ByType []TypeAnalysis `json:"byType,omitempty" yaml:"by_type,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary" yaml:"summary"`

	// Version is the report format version.
	Version string `json:"version" yaml:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// FileReport is one file's tokens.
type FileReport struct {
	Path       string   `json:"path"                 yaml:"path"`
	Error      string   `json:"error,omitempty"      yaml:"error,omitempty"`
	Tokens     []Node   `json:"tokens,omitempty"     yaml:"tokens,omitempty"`
	Violations []string `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// TokenCount returns the number of reported tokens in the file, children
// included.
func (f FileReport) TokenCount() int {
	n := 0
	forEachNode(f.Tokens, func(Node) { n++ })
	return n
}

// Node is one reported token. Children is empty when a filter flattened the
// tree; Depth still records where the token sat.
type Node struct {
	Type     string            `json:"type"               yaml:"type"`
	Raw      string            `json:"raw"                yaml:"raw"`
	Depth    int               `json:"depth"              yaml:"depth"`
	Location *token.Location   `json:"location,omitempty" yaml:"location,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"    yaml:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty" yaml:"children,omitempty"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files       int `json:"files"       yaml:"files"`
	FilesFailed int `json:"filesFailed" yaml:"files_failed"`
	Tokens      int `json:"tokens"      yaml:"tokens"`
	Reported    int `json:"reported"    yaml:"reported"`
	Violations  int `json:"violations"  yaml:"violations"`
}

// HasFailures returns true if any file failed or any location failed
// verification.
func (t Totals) HasFailures() bool {
	return t.FilesFailed > 0 || t.Violations > 0
}

// TypeAnalysis counts tokens of one type.
type TypeAnalysis struct {
	Type  string   `json:"type"            yaml:"type"`
	Count int      `json:"count"           yaml:"count"`
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

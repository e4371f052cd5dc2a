package token

import "fmt"

// Point is a position in source text. All fields are 0-based; Offset and
// Column count bytes.
type Point struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String renders the point as 1-based "line:column", the way editors show it.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Before reports whether p is strictly before q.
func (p Point) Before(q Point) bool {
	return p.Offset < q.Offset
}

// Location is the source span a token was matched against.
type Location struct {
	Start Point `json:"start" yaml:"start"`
	End   Point `json:"end"   yaml:"end"`

	// Lines holds one entry per line of a multi-line token's raw text.
	// It is nil for single-line tokens.
	Lines []Location `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// Len returns the span length in bytes.
func (l Location) Len() int {
	return l.End.Offset - l.Start.Offset
}

// IsMultiLine reports whether the location carries a per-line breakdown.
func (l Location) IsMultiLine() bool {
	return len(l.Lines) > 1
}

// Contains reports whether other lies within l.
func (l Location) Contains(other Location) bool {
	return other.Start.Offset >= l.Start.Offset && other.End.Offset <= l.End.Offset
}

// String renders the span as "l:c-l:c".
func (l Location) String() string {
	return l.Start.String() + "-" + l.End.String()
}

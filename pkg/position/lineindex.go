package position

import (
	"sort"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// LineIndex maps byte offsets to points by binary search over line starts.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex builds an index for source. A source with n line breaks has
// n+1 lines.
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(source)}
}

// LineCount returns the number of lines.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

// Line returns the byte range of line n, excluding its line break.
func (ix *LineIndex) Line(n int) (int, int, bool) {
	if n < 0 || n >= len(ix.starts) {
		return 0, 0, false
	}
	start := ix.starts[n]
	end := ix.size
	if n+1 < len(ix.starts) {
		end = ix.starts[n+1] - 1
	}
	return start, end, true
}

// PointAt returns the point at offset. Offsets equal to the source length
// are valid and address the end of the last line.
func (ix *LineIndex) PointAt(offset int) (token.Point, bool) {
	if offset < 0 || offset > ix.size {
		return token.Point{}, false
	}
	line := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1
	return token.Point{
		Offset: offset,
		Line:   line,
		Column: offset - ix.starts[line],
	}, true
}

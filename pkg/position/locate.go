package position

import (
	"strings"

	"go4.org/mem"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// lineIter yields the lines of a window lazily. A window with n line breaks
// has n+1 lines; the last may be empty.
type lineIter struct {
	rest mem.RO
	off  int
	done bool
}

func (it *lineIter) next() (mem.RO, int, bool) {
	if it.done {
		return mem.RO{}, 0, false
	}
	off := it.off
	i := mem.IndexByte(it.rest, '\n')
	if i < 0 {
		it.done = true
		return it.rest, off, true
	}
	line := it.rest.SliceTo(i)
	it.rest = it.rest.SliceFrom(i + 1)
	it.off += i + 1
	return line, off, true
}

// locate finds raw in the cursor's window and returns its location.
//
// raw is split into lines. The match is the first run of consecutive window
// lines where each raw line occurs in the corresponding window line. A raw
// line need not cover its whole window line, which tolerates container
// prefixes present in the source but absent from the raw text.
func locate(c Cursor, raw string) (token.Location, error) {
	if raw == "" {
		return token.Location{Start: c.Point, End: c.Point}, nil
	}

	rawLines := strings.Split(raw, "\n")
	spans := make([]token.Location, len(rawLines))

	outer := lineIter{rest: c.window}
	for i := 0; ; i++ {
		line, off, ok := outer.next()
		if !ok {
			break
		}
		col, found := c.matchLine(line, i, rawLines[0])
		if !found {
			continue
		}
		spans[0] = c.span(i, off, col, len(rawLines[0]))

		probe := outer
		matched := true
		for j := 1; j < len(rawLines); j++ {
			next, nextOff, ok := probe.next()
			if !ok {
				return token.Location{}, c.unlocatable(raw)
			}
			col, found := c.matchLine(next, i+j, rawLines[j])
			if !found {
				matched = false
				break
			}
			spans[j] = c.span(i+j, nextOff, col, len(rawLines[j]))
		}
		if !matched {
			continue
		}

		loc := token.Location{Start: spans[0].Start, End: spans[len(spans)-1].End}
		if len(spans) > 1 {
			loc.Lines = spans
		}
		return loc, nil
	}

	return token.Location{}, c.unlocatable(raw)
}

// matchLine returns the column of raw within the window line at index idx.
// Blockquote markers at the start of the line are skipped first; if raw is
// not found after them, the whole line is searched.
func (c Cursor) matchLine(line mem.RO, idx int, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	needle := mem.S(raw)
	if c.quotes > 0 && (idx > 0 || c.atQuote) {
		if skip := skipMarkers(line, c.quotes); skip > 0 {
			if i := mem.Index(line.SliceFrom(skip), needle); i >= 0 {
				return skip + i, true
			}
		}
	}
	i := mem.Index(line, needle)
	return i, i >= 0
}

// span builds the location of n bytes at column col of the window line idx,
// which starts off bytes into the window.
func (c Cursor) span(idx, off, col, n int) token.Location {
	start := token.Point{
		Offset: c.Offset + off + col,
		Line:   c.Line + idx,
		Column: col,
	}
	if idx == 0 {
		start.Column += c.Column
	}
	end := start
	end.Offset += n
	end.Column += n
	return token.Location{Start: start, End: end}
}

func (c Cursor) unlocatable(raw string) *UnlocatableError {
	return &UnlocatableError{
		Raw:    raw,
		Window: c.window.StringCopy(),
		At:     c.Point,
	}
}

// skipMarkers returns the width of up to n leading blockquote markers
// ("   > ") in line.
func skipMarkers(line mem.RO, n int) int {
	pos := 0
	for ; n > 0; n-- {
		j := pos
		for k := 0; k < 3 && j < line.Len() && line.At(j) == ' '; k++ {
			j++
		}
		if j >= line.Len() || line.At(j) != '>' {
			break
		}
		j++
		if j < line.Len() && (line.At(j) == ' ' || line.At(j) == '\t') {
			j++
		}
		pos = j
	}
	return pos
}

package position

import (
	"go4.org/mem"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Cursor is the state threaded through a walk: the current point and the
// remaining search window, which always begins at Point.Offset.
//
// Cursors are values. Walk takes one and returns the advanced one, so a caller
// composing several sibling sequences can continue where the previous ended.
type Cursor struct {
	token.Point

	window mem.RO

	// quotes is the number of enclosing blockquotes whose markers may start
	// each physical line of the window.
	quotes int

	// atQuote is set while the window still begins at a blockquote's own
	// first marker.
	atQuote bool
}

// Begin returns a cursor at the start of source.
func Begin(source string) Cursor {
	return Cursor{window: mem.S(source)}
}

// BeginBytes returns a cursor at the start of source without copying it.
// source must not be modified while the cursor, or any token annotated from
// it, is in use.
func BeginBytes(source []byte) Cursor {
	return Cursor{window: mem.B(source)}
}

// Remaining returns a copy of the unconsumed window.
func (c Cursor) Remaining() string {
	return c.window.StringCopy()
}

// Len returns the number of unconsumed bytes in the window.
func (c Cursor) Len() int {
	return c.window.Len()
}

// advance moves the cursor to p, dropping the consumed prefix of the window.
func (c Cursor) advance(p token.Point) Cursor {
	delta := p.Offset - c.Offset
	c.window = c.window.SliceFrom(delta)
	c.Point = p
	c.atQuote = c.atQuote && delta == 0
	return c
}

// enter returns a cursor positioned at loc.Start whose window is narrowed to
// the source span of loc.
func (c Cursor) enter(loc token.Location) Cursor {
	from := loc.Start.Offset - c.Offset
	to := loc.End.Offset - c.Offset
	return Cursor{
		Point:  loc.Start,
		window: c.window.Slice(from, to),
		quotes: c.quotes,
	}
}

// quoted marks the cursor as sitting at the first marker of one more
// blockquote level.
func (c Cursor) quoted() Cursor {
	c.quotes++
	c.atQuote = true
	return c
}

// nextLine moves the cursor to the start of the following line. On the last
// line of the window it is unchanged.
func (c Cursor) nextLine() Cursor {
	i := mem.IndexByte(c.window, '\n')
	if i < 0 {
		return c
	}
	c.window = c.window.SliceFrom(i + 1)
	c.Offset += i + 1
	c.Line++
	c.Column = 0
	c.atQuote = false
	return c
}

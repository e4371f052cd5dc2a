package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// span is a half-open byte range of the source. Nodes whose extent cannot be
// recovered from the goldmark AST carry noSpan.
type span struct {
	start, stop int
}

var noSpan = span{start: -1, stop: -1}

func (s span) ok() bool {
	return s.start >= 0 && s.stop >= s.start
}

// extend grows s to cover other.
func (s span) extend(other span) span {
	if !other.ok() {
		return s
	}
	if !s.ok() {
		return other
	}
	return span{start: min(s.start, other.start), stop: max(s.stop, other.stop)}
}

// ranges answers byte-offset questions about one source document.
type ranges struct {
	src []byte
}

// segments returns the extent of a segment list, from the first segment's
// start to the last segment's stop without its line break.
func (r ranges) segments(lines *text.Segments) span {
	if lines == nil || lines.Len() == 0 {
		return noSpan
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return span{start: first.Start, stop: max(first.Start, r.trimNewline(last.Stop))}
}

// trimNewline backs stop over a trailing "\n" or "\r\n".
func (r ranges) trimNewline(stop int) int {
	if stop > 0 && stop <= len(r.src) && r.src[stop-1] == '\n' {
		stop--
		if stop > 0 && r.src[stop-1] == '\r' {
			stop--
		}
	}
	return stop
}

// lineStart returns the offset of the first byte of the line containing pos.
func (r ranges) lineStart(pos int) int {
	pos = min(pos, len(r.src))
	if i := bytes.LastIndexByte(r.src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset of the line break ending the line containing
// pos, excluding a carriage return, or the source length.
func (r ranges) lineEnd(pos int) int {
	pos = min(max(pos, 0), len(r.src))
	end := len(r.src)
	if i := bytes.IndexByte(r.src[pos:], '\n'); i >= 0 {
		end = pos + i
	}
	if end > pos && r.src[end-1] == '\r' {
		end--
	}
	return end
}

// lineEndTrimmed is lineEnd without trailing spaces and tabs.
func (r ranges) lineEndTrimmed(pos int) int {
	end := r.lineEnd(pos)
	return end - util.TrimRightSpaceLength(r.src[pos:end])
}

// nextLineStart returns the offset just past the line break at or after pos,
// or the source length.
func (r ranges) nextLineStart(pos int) int {
	pos = min(max(pos, 0), len(r.src))
	if i := bytes.IndexByte(r.src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(r.src)
}

// backOverSpace returns the smallest i <= pos such that src[i:pos] is only
// spaces and tabs.
func (r ranges) backOverSpace(pos int) int {
	for pos > 0 && (r.src[pos-1] == ' ' || r.src[pos-1] == '\t') {
		pos--
	}
	return pos
}

// skipBlank advances pos over whitespace, line breaks and blockquote markers.
func (r ranges) skipBlank(pos int) int {
	for pos < len(r.src) {
		switch r.src[pos] {
		case ' ', '\t', '\r', '\n', '>':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// quoteStart returns the offset of the blockquote marker opening the content
// that begins at pos.
func (r ranges) quoteStart(pos, floor int) int {
	if i := r.backOverSpace(pos); i > 0 && r.src[i-1] == '>' {
		return i - 1
	}
	if i := bytes.LastIndexByte(r.src[:pos], '>'); i >= floor && i >= 0 {
		return i
	}
	return pos
}

// emptyQuote returns the extent of a blockquote without content that opens
// at or after floor: the innermost marker on its first line through the last
// following line holding only as many markers.
func (r ranges) emptyQuote(floor int) span {
	pos := max(floor, 0)
	for pos < len(r.src) && (r.src[pos] == ' ' || r.src[pos] == '\t' || r.src[pos] == '\r' || r.src[pos] == '\n') {
		pos++
	}
	i := bytes.IndexByte(r.src[pos:r.lineEnd(pos)], '>')
	if i < 0 {
		return noSpan
	}
	last, depth := r.markerRun(pos + i)
	sp := span{start: last, stop: last + 1}
	for next := r.nextLineStart(sp.stop); next < len(r.src); next = r.nextLineStart(next) {
		marker, n := r.markerRun(next)
		if n < depth || r.lineEndTrimmed(next) != marker+1 {
			break
		}
		sp.stop = marker + 1
	}
	return sp
}

// markerRun returns the offset of the last blockquote marker in the run of
// markers and spaces starting at pos, and the number of markers in it. last
// is -1 when the run holds no marker.
func (r ranges) markerRun(pos int) (last, count int) {
	last = -1
	end := r.lineEnd(pos)
	for i := pos; i < end; i++ {
		switch r.src[i] {
		case '>':
			last, count = i, count+1
		case ' ', '\t':
		default:
			return last, count
		}
	}
	return last, count
}

// listMarkerStart returns the offset of the list marker opening the item
// content that begins at pos, or -1 when none precedes it on the line.
func (r ranges) listMarkerStart(pos int) int {
	i := r.backOverSpace(pos) - 1
	if i < 0 {
		return -1
	}
	switch c := r.src[i]; {
	case c == '-' || c == '+' || c == '*':
		return i
	case c == '.' || c == ')':
		j := i
		for j > 0 && util.IsNumeric(r.src[j-1]) {
			j--
		}
		if j < i {
			return j
		}
	}
	return -1
}

// listMarkerAt returns the extent of a list marker at pos, or noSpan.
func (r ranges) listMarkerAt(pos int) span {
	if pos >= len(r.src) {
		return noSpan
	}
	switch c := r.src[pos]; {
	case c == '-' || c == '+' || c == '*':
		return span{start: pos, stop: pos + 1}
	case util.IsNumeric(c):
		j := pos
		for j < len(r.src) && util.IsNumeric(r.src[j]) {
			j++
		}
		if j < len(r.src) && (r.src[j] == '.' || r.src[j] == ')') {
			return span{start: pos, stop: j + 1}
		}
	}
	return noSpan
}

// thematicBreakFrom returns the first thematic break line at or after floor,
// from its first marker to its trimmed line end.
func (r ranges) thematicBreakFrom(floor int) span {
	for pos := max(floor, 0); pos < len(r.src); pos++ {
		c := r.src[pos]
		if c != '-' && c != '*' && c != '_' {
			continue
		}
		end := r.lineEndTrimmed(pos)
		count := 0
		valid := true
		for _, b := range r.src[pos:end] {
			switch b {
			case c:
				count++
			case ' ', '\t':
			default:
				valid = false
			}
			if !valid {
				break
			}
		}
		if valid && count >= 3 {
			return span{start: pos, stop: end}
		}
	}
	return noSpan
}

// atxFrom returns the first empty ATX heading at or after floor.
func (r ranges) atxFrom(floor int) span {
	floor = max(floor, 0)
	i := bytes.IndexByte(r.src[min(floor, len(r.src)):], '#')
	if i < 0 {
		return noSpan
	}
	return span{start: floor + i, stop: r.lineEndTrimmed(floor + i)}
}

// fenceIn returns the position, character and length of the first fence run
// of at least three backticks or tildes in src[from:to].
func (r ranges) fenceIn(from, to int) (int, byte, int) {
	to = min(to, len(r.src))
	for i := max(from, 0); i+2 < to; i++ {
		c := r.src[i]
		if c != '`' && c != '~' {
			continue
		}
		n := 1
		for i+n < to && r.src[i+n] == c {
			n++
		}
		if n >= 3 {
			return i, c, n
		}
		i += n - 1
	}
	return -1, 0, 0
}

// closingFence reports the trimmed end of the line starting at lineStart if
// it closes a fence of char repeated at least n times.
func (r ranges) closingFence(lineStart int, char byte, n int) (int, bool) {
	if lineStart >= len(r.src) {
		return 0, false
	}
	end := r.lineEndTrimmed(lineStart)
	pos, c, run := r.fenceIn(lineStart, end)
	if pos < 0 || c != char || run < n {
		return 0, false
	}
	if pos+run != end {
		return 0, false
	}
	return end, true
}

// delimited grows inner outward over the same number of delimiter bytes from
// chars on each side, at most limit. Unmatched delimiters in a longer run are
// left to the neighbouring text.
func (r ranges) delimited(inner span, chars string, limit int) span {
	if !inner.ok() {
		return noSpan
	}
	open := 0
	for open < limit && inner.start-open > 0 && strings.IndexByte(chars, r.src[inner.start-open-1]) >= 0 {
		open++
	}
	closing := 0
	for closing < open && inner.stop+closing < len(r.src) && strings.IndexByte(chars, r.src[inner.stop+closing]) >= 0 {
		closing++
	}
	return span{start: inner.start - closing, stop: inner.stop + closing}
}

// codeSpan grows the content of a code span over its padding space and
// backtick runs.
func (r ranges) codeSpan(inner span) span {
	if !inner.ok() {
		return noSpan
	}
	start, stop := inner.start, inner.stop
	if start > 1 && (r.src[start-1] == ' ' || r.src[start-1] == '\n') && r.src[start-2] == '`' {
		start--
	}
	for start > 0 && r.src[start-1] == '`' {
		start--
	}
	if stop+1 < len(r.src) && (r.src[stop] == ' ' || r.src[stop] == '\n') && r.src[stop+1] == '`' {
		stop++
	}
	for stop < len(r.src) && r.src[stop] == '`' {
		stop++
	}
	return span{start: start, stop: stop}
}

// link grows the text of a link or image over its brackets and destination
// or reference label.
func (r ranges) link(inner span, image bool) span {
	if !inner.ok() || inner.start == 0 {
		return noSpan
	}
	start := inner.start - 1
	if r.src[start] != '[' {
		i := bytes.LastIndexByte(r.src[:inner.start], '[')
		if i < 0 {
			return noSpan
		}
		start = i
	}
	if image && start > 0 && r.src[start-1] == '!' {
		start--
	}

	closeBracket := r.skipEscaped(inner.stop, ']')
	if closeBracket < 0 {
		return span{start: start, stop: inner.stop}
	}
	stop := closeBracket + 1
	if stop < len(r.src) {
		switch r.src[stop] {
		case '(':
			if end := r.matchParen(stop); end > 0 {
				stop = end
			}
		case '[':
			if end := r.skipEscaped(stop+1, ']'); end > 0 {
				stop = end + 1
			}
		}
	}
	return span{start: start, stop: stop}
}

// skipEscaped returns the offset of the first unescaped c at or after pos,
// or -1.
func (r ranges) skipEscaped(pos int, c byte) int {
	for i := pos; i < len(r.src); i++ {
		switch r.src[i] {
		case '\\':
			i++
		case c:
			return i
		}
	}
	return -1
}

// matchParen returns the offset just past the parenthesis closing the one at
// open, or -1.
func (r ranges) matchParen(open int) int {
	depth := 0
	inAngle := false
	for i := open; i < len(r.src); i++ {
		switch r.src[i] {
		case '\\':
			i++
		case '<':
			inAngle = true
		case '>':
			inAngle = false
		case '(':
			if !inAngle {
				depth++
			}
		case ')':
			if !inAngle {
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}
	return -1
}

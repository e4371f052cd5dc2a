package position_test

import (
	"errors"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/pkg/position"
	"github.com/yaklabco/gomdpos/pkg/token"
)

func pt(offset, line, column int) token.Point {
	return token.Point{Offset: offset, Line: line, Column: column}
}

func span(start, end token.Point) token.Location {
	return token.Location{Start: start, End: end}
}

func text(raw string) *token.Text {
	return &token.Text{Base: token.Base{RawText: raw}, Text: raw}
}

func para(raw string, children ...token.Token) *token.Paragraph {
	return &token.Paragraph{Base: token.Base{RawText: raw}, Inline: token.Inline{Tokens: children}, Text: raw}
}

func quote(raw string, children ...token.Token) *token.Blockquote {
	return &token.Blockquote{Base: token.Base{RawText: raw}, Inline: token.Inline{Tokens: children}}
}

func cell(raw string, header bool) *token.TableCell {
	return &token.TableCell{
		Base:   token.Base{RawText: raw},
		Inline: token.Inline{Tokens: []token.Token{text(raw)}},
		Header: header,
	}
}

func locOf(t *testing.T, tok token.Token) token.Location {
	t.Helper()
	require.NotNil(t, tok.Location(), "%s %q has no location", tok.Type(), tok.Raw())
	return *tok.Location()
}

func assertLoc(t *testing.T, want token.Location, tok token.Token) {
	t.Helper()
	if diff := cmp.Diff(want, locOf(t, tok)); diff != "" {
		t.Errorf("%s %q location mismatch (-want +got):\n%s", tok.Type(), tok.Raw(), diff)
	}
}

func TestAnnotate_Heading(t *testing.T) {
	t.Parallel()

	const src = "# example markdown"
	child := text("example markdown")
	heading := &token.Heading{
		Base:   token.Base{RawText: src},
		Inline: token.Inline{Tokens: []token.Token{child}},
		Depth:  1,
		Text:   "example markdown",
	}

	_, err := position.Annotate([]token.Token{heading}, src)
	require.NoError(t, err)

	assertLoc(t, span(pt(0, 0, 0), pt(18, 0, 18)), heading)
	assert.Nil(t, heading.Location().Lines)
	assertLoc(t, span(pt(2, 0, 2), pt(18, 0, 18)), child)
}

func TestAnnotate_BlockquoteStrippedChildren(t *testing.T) {
	t.Parallel()

	const src = "> line 1\n> line 2"
	inner := text("line 1\nline 2")
	p := para("line 1\nline 2", inner)
	bq := quote(src, p)

	_, err := position.Annotate([]token.Token{bq}, src)
	require.NoError(t, err)

	want := token.Location{
		Start: pt(2, 0, 2),
		End:   pt(17, 1, 8),
		Lines: []token.Location{
			span(pt(2, 0, 2), pt(8, 0, 8)),
			span(pt(11, 1, 2), pt(17, 1, 8)),
		},
	}
	assertLoc(t, want, p)
	assertLoc(t, want, inner)

	bqLoc := locOf(t, bq)
	assert.Equal(t, pt(0, 0, 0), bqLoc.Start)
	assert.Equal(t, pt(17, 1, 8), bqLoc.End)
	assert.Len(t, bqLoc.Lines, 2)
}

func TestAnnotate_TableCellsAdvance(t *testing.T) {
	t.Parallel()

	const src = "| a | b |\n|---|---|\n| 1 | 2 |\n"
	tbl := &token.Table{
		Base:   token.Base{RawText: "| a | b |\n|---|---|\n| 1 | 2 |\n"},
		Align:  []token.Align{token.AlignNone, token.AlignNone},
		Header: []*token.TableCell{cell("a", true), cell("b", true)},
		Rows:   [][]*token.TableCell{{cell("1", false), cell("2", false)}},
	}

	_, err := position.Annotate([]token.Token{tbl}, src)
	require.NoError(t, err)

	tests := []struct {
		cell *token.TableCell
		want token.Location
	}{
		{tbl.Header[0], span(pt(2, 0, 2), pt(3, 0, 3))},
		{tbl.Header[1], span(pt(6, 0, 6), pt(7, 0, 7))},
		{tbl.Rows[0][0], span(pt(22, 2, 2), pt(23, 2, 3))},
		{tbl.Rows[0][1], span(pt(26, 2, 6), pt(27, 2, 7))},
	}
	var prevEnd int
	for _, tt := range tests {
		assertLoc(t, tt.want, tt.cell)
		assertLoc(t, tt.want, tt.cell.Tokens[0])
		assert.GreaterOrEqual(t, tt.cell.Location().Start.Offset, prevEnd)
		prevEnd = tt.cell.Location().End.Offset
	}
}

func TestAnnotate_TableBodyCellSkipsDelimiterRow(t *testing.T) {
	t.Parallel()

	const src = "| a | b |\n|---|:-:|\n| - | : |\n"
	tbl := &token.Table{
		Base:   token.Base{RawText: "| a | b |\n|---|:-:|\n| - | : |"},
		Align:  []token.Align{token.AlignNone, token.AlignCenter},
		Header: []*token.TableCell{cell("a", true), cell("b", true)},
		Rows:   [][]*token.TableCell{{cell("-", false), cell(":", false)}},
	}

	_, err := position.Annotate([]token.Token{tbl}, src)
	require.NoError(t, err)

	assertLoc(t, span(pt(22, 2, 2), pt(23, 2, 3)), tbl.Rows[0][0])
	assertLoc(t, span(pt(26, 2, 6), pt(27, 2, 7)), tbl.Rows[0][1])
	assert.Empty(t, position.Verify([]token.Token{tbl}, src))
}

func TestAnnotate_TableHeaderOnly(t *testing.T) {
	t.Parallel()

	const src = "| a |\n|---|"
	tbl := &token.Table{
		Base:   token.Base{RawText: src},
		Header: []*token.TableCell{cell("a", true)},
	}

	_, err := position.Annotate([]token.Token{tbl}, src)
	require.NoError(t, err)
	assertLoc(t, span(pt(2, 0, 2), pt(3, 0, 3)), tbl.Header[0])
}

func TestAnnotate_ExtensionFieldWithinParentSpan(t *testing.T) {
	t.Parallel()

	const src = "**some text**\n\n:tag:\n**some text**\n:"
	leading := &token.Strong{
		Base:   token.Base{RawText: "**some text**"},
		Inline: token.Inline{Tokens: []token.Token{text("some text")}},
	}
	fieldText := text("some text")
	fieldStrong := &token.Strong{
		Base:   token.Base{RawText: "**some text**"},
		Inline: token.Inline{Tokens: []token.Token{fieldText}},
	}
	ext := &token.Extension{
		Base:   token.Base{RawText: ":tag:\n**some text**\n:"},
		Name:   "taggedBlock",
		Attrs:  map[string]string{"tag": "tag"},
		Fields: []token.Field{{Name: "content", Tokens: []token.Token{fieldStrong}}},
	}

	_, err := position.Annotate([]token.Token{para("**some text**", leading), ext}, src)
	require.NoError(t, err)

	extLoc := locOf(t, ext)
	assert.Equal(t, pt(15, 2, 0), extLoc.Start)
	assertLoc(t, span(pt(21, 3, 0), pt(34, 3, 13)), fieldStrong)
	assertLoc(t, span(pt(23, 3, 2), pt(32, 3, 11)), fieldText)
	assert.True(t, extLoc.Contains(locOf(t, fieldStrong)))
}

func TestAnnotate_ExtensionFieldsThreadCursor(t *testing.T) {
	t.Parallel()

	const src = ":a:\na\n:"
	title := text("a")
	body := text("a")
	ext := &token.Extension{
		Base: token.Base{RawText: src},
		Name: "taggedBlock",
		Fields: []token.Field{
			{Name: "title", Tokens: []token.Token{title}},
			{Name: "body", Tokens: []token.Token{body}},
		},
	}

	_, err := position.Annotate([]token.Token{ext}, src)
	require.NoError(t, err)

	assertLoc(t, span(pt(1, 0, 1), pt(2, 0, 2)), title)
	assertLoc(t, span(pt(4, 1, 0), pt(5, 1, 1)), body)
}

func TestAnnotate_ListItems(t *testing.T) {
	t.Parallel()

	const src = "- one\n- two"
	one, two := text("one"), text("two")
	list := &token.List{
		Base: token.Base{RawText: src},
		Items: []*token.ListItem{
			{Base: token.Base{RawText: "- one"}, Inline: token.Inline{Tokens: []token.Token{one}}},
			{Base: token.Base{RawText: "- two"}, Inline: token.Inline{Tokens: []token.Token{two}}},
		},
	}

	_, err := position.Annotate([]token.Token{list}, src)
	require.NoError(t, err)

	assertLoc(t, span(pt(0, 0, 0), pt(5, 0, 5)), list.Items[0])
	assertLoc(t, span(pt(6, 1, 0), pt(11, 1, 5)), list.Items[1])
	assertLoc(t, span(pt(2, 0, 2), pt(5, 0, 5)), one)
	assertLoc(t, span(pt(8, 1, 2), pt(11, 1, 5)), two)
}

func TestAnnotate_NestedBlockquotes(t *testing.T) {
	t.Parallel()

	const src = "> > a\n> > b"
	p := para("a\nb", text("a\nb"))
	inner := quote("> a\n> b", p)
	outer := quote(src, inner)

	_, err := position.Annotate([]token.Token{outer}, src)
	require.NoError(t, err)

	innerLoc := locOf(t, inner)
	assert.Equal(t, pt(2, 0, 2), innerLoc.Start)
	assert.Equal(t, pt(11, 1, 5), innerLoc.End)

	assertLoc(t, token.Location{
		Start: pt(4, 0, 4),
		End:   pt(11, 1, 5),
		Lines: []token.Location{
			span(pt(4, 0, 4), pt(5, 0, 5)),
			span(pt(10, 1, 4), pt(11, 1, 5)),
		},
	}, p)
}

func TestAnnotate_PrefersTextAfterQuoteMarkers(t *testing.T) {
	t.Parallel()

	const src = "> a\n>  b"
	p := para("a\n b")
	bq := quote(src, p)

	_, err := position.Annotate([]token.Token{bq}, src)
	require.NoError(t, err)

	lines := locOf(t, p).Lines
	require.Len(t, lines, 2)
	assert.Equal(t, pt(6, 1, 2), lines[1].Start)
	assert.Equal(t, pt(8, 1, 4), lines[1].End)
}

func TestAnnotate_QuotedRawKeepingMarkers(t *testing.T) {
	t.Parallel()

	const src = "> ```\n> code\n> ```"
	code := &token.Code{Base: token.Base{RawText: "```\n> code\n> ```"}, Text: "code", Fenced: true}
	bq := quote(src, code)

	_, err := position.Annotate([]token.Token{bq}, src)
	require.NoError(t, err)

	loc := locOf(t, code)
	assert.Equal(t, pt(2, 0, 2), loc.Start)
	assert.Equal(t, pt(18, 2, 5), loc.End)
	require.Len(t, loc.Lines, 3)
	assert.Equal(t, pt(6, 1, 0), loc.Lines[1].Start)
}

func TestAnnotate_SingleLineContinuesColumn(t *testing.T) {
	t.Parallel()

	a, b := text("a"), text("b")
	_, err := position.Annotate([]token.Token{a, b}, "a b\nb")
	require.NoError(t, err)

	assertLoc(t, span(pt(0, 0, 0), pt(1, 0, 1)), a)
	assertLoc(t, span(pt(2, 0, 2), pt(3, 0, 3)), b)
}

func TestAnnotate_ScansPastInterposedContent(t *testing.T) {
	t.Parallel()

	const src = "[ref]: /url\n\nsecond line\n"
	p := para("second line", text("second line"))

	_, err := position.Annotate([]token.Token{p}, src)
	require.NoError(t, err)

	assertLoc(t, span(pt(13, 2, 0), pt(24, 2, 11)), p)
}

func TestAnnotate_EmptyRawIsZeroWidth(t *testing.T) {
	t.Parallel()

	empty := text("")
	after := text("x")
	_, err := position.Annotate([]token.Token{text("ab"), empty, after}, "ab x")
	require.NoError(t, err)

	assertLoc(t, span(pt(2, 0, 2), pt(2, 0, 2)), empty)
	assertLoc(t, span(pt(3, 0, 3), pt(4, 0, 4)), after)
}

func TestAnnotate_CRLF(t *testing.T) {
	t.Parallel()

	const src = "a\r\nb"
	p := para(src)

	_, err := position.Annotate([]token.Token{p}, src)
	require.NoError(t, err)

	assertLoc(t, token.Location{
		Start: pt(0, 0, 0),
		End:   pt(4, 1, 1),
		Lines: []token.Location{
			span(pt(0, 0, 0), pt(2, 0, 2)),
			span(pt(3, 1, 0), pt(4, 1, 1)),
		},
	}, p)
}

func TestAnnotate_TrailingNewlineInRaw(t *testing.T) {
	t.Parallel()

	const src = "# h\n\npara"
	h := &token.Heading{Base: token.Base{RawText: "# h\n"}, Depth: 1, Text: "h"}
	p := para("para")

	_, err := position.Annotate([]token.Token{h, p}, src)
	require.NoError(t, err)

	loc := locOf(t, h)
	require.Len(t, loc.Lines, 2)
	assert.Equal(t, span(pt(4, 1, 0), pt(4, 1, 0)), loc.Lines[1])
	assert.Equal(t, pt(4, 1, 0), loc.End)
	assertLoc(t, span(pt(5, 2, 0), pt(9, 2, 4)), p)
}

func TestAnnotate_Unlocatable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tokens   []token.Token
		source   string
		wantType string
		wantRaw  string
	}{
		{
			name:     "missing single line",
			tokens:   []token.Token{text("zzz")},
			source:   "abc",
			wantType: token.TypeText,
			wantRaw:  "zzz",
		},
		{
			name:     "nested child outside parent span",
			tokens:   []token.Token{para("abc", text("d")), text("d")},
			source:   "abc d",
			wantType: token.TypeText,
			wantRaw:  "d",
		},
		{
			name:     "multi-line without contiguous match",
			tokens:   []token.Token{para("a\nc")},
			source:   "a\nb\nc",
			wantType: token.TypeParagraph,
			wantRaw:  "a\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := position.Annotate(tt.tokens, tt.source)
			require.Error(t, err)
			require.ErrorIs(t, err, position.ErrUnlocatable)

			var ue *position.UnlocatableError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.wantType, ue.Type)
			assert.Equal(t, tt.wantRaw, ue.Raw)
			assert.Contains(t, ue.Error(), "cannot locate")
		})
	}
}

func TestUnlocatableError_TruncatesWindow(t *testing.T) {
	t.Parallel()

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	_, err := position.Annotate([]token.Token{text("y")}, string(long))

	var ue *position.UnlocatableError
	require.ErrorAs(t, err, &ue)
	assert.Len(t, ue.Window, 200)
	assert.Contains(t, ue.Error(), "...")
	assert.Less(t, len(ue.Error()), 120)
}

func TestAnnotateRaw(t *testing.T) {
	t.Parallel()

	h := &token.Heading{Base: token.Base{RawText: "# a\n"}, Depth: 1, Text: "a"}
	p := para("b", text("b"))

	_, err := position.AnnotateRaw([]token.Token{h, p})
	require.NoError(t, err)

	assertLoc(t, span(pt(4, 1, 0), pt(5, 1, 1)), p)
	assert.Equal(t, "# a\nb", position.JoinRaw([]token.Token{h, p}))
}

func TestAnnotateBytes_MatchesAnnotate(t *testing.T) {
	t.Parallel()

	const src = "> line 1\n> line 2"
	build := func() *token.Blockquote {
		return quote(src, para("line 1\nline 2", text("line 1\nline 2")))
	}

	fromString := build()
	fromBytes := build()
	_, err := position.Annotate([]token.Token{fromString}, src)
	require.NoError(t, err)
	_, err = position.AnnotateBytes([]token.Token{fromBytes}, []byte(src))
	require.NoError(t, err)

	if diff := cmp.Diff(fromString.Tokens[0].Location(), fromBytes.Tokens[0].Location()); diff != "" {
		t.Errorf("bytes and string annotation differ (-string +bytes):\n%s", diff)
	}
}

func TestMustAnnotate(t *testing.T) {
	t.Parallel()

	toks := position.MustAnnotate([]token.Token{text("a")}, "a")
	require.Len(t, toks, 1)

	mtest.MustPanic(t, func() { position.MustAnnotate([]token.Token{text("b")}, "a") })
}

func TestWalk_ReturnsCursorForSiblingSequences(t *testing.T) {
	t.Parallel()

	first := []token.Token{text("one")}
	second := []token.Token{text("two")}

	cur, err := position.Walk(first, position.Begin("one two one"))
	require.NoError(t, err)
	assert.Equal(t, pt(3, 0, 3), cur.Point)
	assert.Equal(t, " two one", cur.Remaining())
	assert.Equal(t, 8, cur.Len())

	cur, err = position.Walk(second, cur)
	require.NoError(t, err)
	assertLoc(t, span(pt(4, 0, 4), pt(7, 0, 7)), second[0])
	assert.Equal(t, " one", cur.Remaining())
}

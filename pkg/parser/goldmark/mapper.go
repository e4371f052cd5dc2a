package goldmark

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// mapper converts a goldmark AST into a token tree.
//
// goldmark records byte segments rather than raw text, so each token's raw
// text is rebuilt from segments and by scanning the source around them. floor
// arguments are the offset where the previous sibling ended, used when a node
// carries no segments of its own.
type mapper struct {
	ranges

	// lines are the line segments of the block whose inlines are being
	// mapped.
	lines *text.Segments
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{ranges: ranges{src: content}}
}

// mapDocument converts a goldmark document node to its top-level tokens.
func (m *mapper) mapDocument(doc ast.Node) []token.Token {
	tokens, _ := m.blocks(doc, 0)
	return tokens
}

func (m *mapper) raw(s span) string {
	if !s.ok() {
		return ""
	}
	return string(m.src[s.start:s.stop])
}

// joined concatenates the literal bytes of each segment.
func (m *mapper) joined(n ast.Node) string {
	lines := n.Lines()
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(m.src[seg.Start:seg.Stop])
	}
	return sb.String()
}

// blocks maps the block children of parent.
func (m *mapper) blocks(parent ast.Node, floor int) ([]token.Token, span) {
	var out []token.Token
	whole := noSpan
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		tok, sp := m.block(child, floor)
		if tok == nil {
			continue
		}
		out = append(out, tok)
		if sp.ok() {
			whole = whole.extend(sp)
			floor = sp.stop
		}
	}
	return out, whole
}

// block maps a single block node.
func (m *mapper) block(n ast.Node, floor int) (token.Token, span) {
	switch gmn := n.(type) {
	case *ast.Paragraph:
		return m.mapParagraph(gmn)
	case *ast.TextBlock:
		return m.mapParagraph(gmn)
	case *ast.Heading:
		return m.mapHeading(gmn, floor)
	case *ast.ThematicBreak:
		sp := m.thematicBreakFrom(floor)
		return &token.Hr{Base: token.Base{RawText: m.raw(sp)}}, sp
	case *ast.FencedCodeBlock:
		return m.mapFencedCodeBlock(gmn, floor)
	case *ast.CodeBlock:
		return m.mapIndentedCodeBlock(gmn)
	case *ast.HTMLBlock:
		return m.mapHTMLBlock(gmn)
	case *ast.Blockquote:
		return m.mapBlockquote(gmn, floor)
	case *ast.List:
		return m.mapList(gmn, floor)
	case *east.Table:
		return m.mapTable(gmn)
	case *TaggedBlock:
		return m.mapTaggedBlock(gmn)
	default:
		return m.mapUnknownBlock(n, floor)
	}
}

// mapParagraph converts a Paragraph or TextBlock. Its raw text is the
// concatenation of its lines, which excludes container prefixes.
func (m *mapper) mapParagraph(n ast.Node) (token.Token, span) {
	raw := m.joined(n)
	sp := m.segments(n.Lines())
	return &token.Paragraph{
		Base:   token.Base{RawText: raw},
		Inline: token.Inline{Tokens: m.inlines(n, sp.start)},
		Text:   raw,
	}, sp
}

// mapHeading converts an ATX or setext heading.
func (m *mapper) mapHeading(h *ast.Heading, floor int) (token.Token, span) {
	lines := h.Lines()
	sp := noSpan
	if lines.Len() > 0 {
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		if start := m.backOverSpace(first.Start); start > 0 && m.src[start-1] == '#' {
			for start > 0 && m.src[start-1] == '#' {
				start--
			}
			sp = span{start: start, stop: m.lineEndTrimmed(first.Start)}
		} else {
			underline := m.nextLineStart(last.Stop)
			sp = span{start: first.Start, stop: max(m.lineEndTrimmed(underline), last.Stop)}
		}
	} else {
		sp = m.atxFrom(floor)
	}

	return &token.Heading{
		Base:   token.Base{RawText: m.raw(sp)},
		Inline: token.Inline{Tokens: m.inlines(h, sp.start)},
		Depth:  h.Level,
		Text:   strings.TrimSpace(m.joined(h)),
	}, sp
}

// mapFencedCodeBlock converts a fenced code block. The raw text runs from the
// opening fence through the closing fence when one is present.
func (m *mapper) mapFencedCodeBlock(code *ast.FencedCodeBlock, floor int) (token.Token, span) {
	lines := code.Lines()

	var openLine int
	switch {
	case code.Info != nil:
		openLine = m.lineStart(code.Info.Segment.Start)
	case lines.Len() > 0:
		openLine = m.lineStart(max(m.lineStart(lines.At(0).Start)-1, 0))
	default:
		pos, _, _ := m.fenceIn(floor, len(m.src))
		openLine = m.lineStart(max(pos, 0))
	}

	fencePos, fenceChar, fenceLen := m.fenceIn(openLine, m.lineEnd(openLine))
	if fencePos < 0 {
		fencePos = openLine
	}

	contentEnd := m.lineEndTrimmed(fencePos)
	closeLine := m.nextLineStart(fencePos)
	if lines.Len() > 0 {
		last := lines.At(lines.Len() - 1)
		contentEnd = m.trimNewline(last.Stop)
		closeLine = m.nextLineStart(contentEnd)
	}

	stop := contentEnd
	if end, ok := m.closingFence(closeLine, fenceChar, fenceLen); ok {
		stop = end
	}
	sp := span{start: fencePos, stop: max(stop, fencePos)}

	return &token.Code{
		Base:   token.Base{RawText: m.raw(sp)},
		Lang:   string(code.Language(m.src)),
		Text:   strings.TrimSuffix(m.joined(code), "\n"),
		Fenced: true,
	}, sp
}

// mapIndentedCodeBlock converts an indented code block.
func (m *mapper) mapIndentedCodeBlock(code *ast.CodeBlock) (token.Token, span) {
	sp := m.segments(code.Lines())
	return &token.Code{
		Base: token.Base{RawText: m.raw(sp)},
		Text: strings.TrimSuffix(m.joined(code), "\n"),
	}, sp
}

// mapHTMLBlock converts an HTML block, including its closure line.
func (m *mapper) mapHTMLBlock(h *ast.HTMLBlock) (token.Token, span) {
	sp := m.segments(h.Lines())
	if h.HasClosure() {
		closure := h.ClosureLine
		sp = sp.extend(span{start: closure.Start, stop: m.trimNewline(closure.Stop)})
	}
	return &token.HTML{Base: token.Base{RawText: m.raw(sp)}, Block: true}, sp
}

// mapBlockquote converts a block quote. Its raw text is the contiguous source
// from its first marker to the end of its last child. A quote without
// children covers only its own marker lines.
func (m *mapper) mapBlockquote(bq *ast.Blockquote, floor int) (token.Token, span) {
	children, inner := m.blocks(bq, floor)

	sp := m.emptyQuote(floor)
	if inner.ok() {
		sp = span{start: m.quoteStart(inner.start, floor), stop: inner.stop}
	}

	return &token.Blockquote{
		Base:   token.Base{RawText: m.raw(sp)},
		Inline: token.Inline{Tokens: children},
	}, sp
}

// mapList converts a list and its items.
func (m *mapper) mapList(list *ast.List, floor int) (token.Token, span) {
	out := &token.List{
		Ordered: list.IsOrdered(),
		Start:   list.Start,
		Loose:   !list.IsTight,
	}
	if !out.Ordered {
		out.Start = 0
	}

	sp := noSpan
	for child := list.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		tok, isp := m.mapListItem(item, floor, out.Loose)
		out.Items = append(out.Items, tok)
		if isp.ok() {
			sp = sp.extend(isp)
			floor = isp.stop
		}
	}

	out.RawText = m.raw(sp)
	return out, sp
}

// mapListItem converts a list item. Its raw text runs from the list marker to
// the end of its last child.
func (m *mapper) mapListItem(item *ast.ListItem, floor int, loose bool) (*token.ListItem, span) {
	children, inner := m.blocks(item, floor)

	sp := noSpan
	if inner.ok() {
		start := m.listMarkerStart(inner.start)
		if start < 0 {
			start = inner.start
			if marker := m.listMarkerAt(m.skipBlank(floor)); marker.ok() && marker.start < inner.start {
				start = marker.start
			}
		}
		sp = span{start: start, stop: inner.stop}
	} else {
		sp = m.listMarkerAt(m.skipBlank(floor))
	}

	tok := &token.ListItem{
		Base:   token.Base{RawText: m.raw(sp)},
		Inline: token.Inline{Tokens: children},
		Loose:  loose,
	}
	if cb := taskCheckBox(item); cb != nil {
		tok.Task = true
		tok.Checked = cb.IsChecked
	}
	return tok, sp
}

// taskCheckBox returns the task marker leading a list item's first block.
func taskCheckBox(item *ast.ListItem) *east.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	cb, _ := first.FirstChild().(*east.TaskCheckBox)
	return cb
}

// mapTable converts a GFM table. Cells carry their trimmed content as raw
// text; the table spans from the header's leading pipe to the end of its last
// row.
func (m *mapper) mapTable(table *east.Table) (token.Token, span) {
	out := &token.Table{Align: make([]token.Align, len(table.Alignments))}
	for i, a := range table.Alignments {
		out.Align[i] = alignment(a)
	}

	sp := noSpan
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		cells, rowSpan := m.mapTableRow(row, header)
		if header {
			out.Header = cells
		} else {
			out.Rows = append(out.Rows, cells)
		}
		if !rowSpan.ok() {
			continue
		}
		line := span{start: m.backOverSpace(rowSpan.start), stop: m.lineEndTrimmed(rowSpan.start)}
		if line.start > 0 && m.src[line.start-1] == '|' {
			line.start--
		}
		sp = sp.extend(line)
		if header {
			delim := m.nextLineStart(rowSpan.start)
			sp = sp.extend(span{start: delim, stop: m.lineEndTrimmed(delim)})
		}
	}

	out.RawText = m.raw(sp)
	return out, sp
}

func (m *mapper) mapTableRow(row ast.Node, header bool) ([]*token.TableCell, span) {
	var cells []*token.TableCell
	sp := noSpan
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		tc, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		csp := m.segments(tc.Lines())
		cells = append(cells, &token.TableCell{
			Base:   token.Base{RawText: m.raw(csp)},
			Inline: token.Inline{Tokens: m.inlines(tc, csp.start)},
			Header: header,
			Align:  alignment(tc.Alignment),
		})
		sp = sp.extend(csp)
	}
	return cells, sp
}

func alignment(a east.Alignment) token.Align {
	switch a {
	case east.AlignLeft:
		return token.AlignLeft
	case east.AlignCenter:
		return token.AlignCenter
	case east.AlignRight:
		return token.AlignRight
	default:
		return token.AlignNone
	}
}

// mapTaggedBlock converts a tagged block into an extension token whose inline
// content is a declared field.
func (m *mapper) mapTaggedBlock(n *TaggedBlock) (token.Token, span) {
	sp := span{start: n.OpenStart, stop: n.CloseStop}
	if n.CloseStop < n.OpenStart {
		sp.stop = m.lineEndTrimmed(n.OpenStart)
		if content := m.segments(n.Lines()); content.ok() {
			sp.stop = content.stop
		}
	}
	return &token.Extension{
		Base:  token.Base{RawText: m.raw(sp)},
		Name:  TaggedBlockName,
		Attrs: map[string]string{"tag": n.Tag},
		Fields: []token.Field{
			{Name: "content", Tokens: m.inlines(n, n.OpenStart)},
		},
	}, sp
}

// mapUnknownBlock maps block kinds without a dedicated token type to a
// generic extension token named after the goldmark kind.
func (m *mapper) mapUnknownBlock(n ast.Node, floor int) (token.Token, span) {
	out := &token.Extension{Name: n.Kind().String()}

	sp := m.segments(n.Lines())
	if first := n.FirstChild(); first != nil && first.Type() == ast.TypeInline {
		out.Tokens = m.inlines(n, sp.start)
	} else {
		children, inner := m.blocks(n, floor)
		out.Tokens = children
		sp = sp.extend(inner)
	}

	out.RawText = m.raw(sp)
	return out, sp
}

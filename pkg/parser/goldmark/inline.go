package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// inlines maps the inline children of parent. floor is the offset where the
// parent's content starts.
func (m *mapper) inlines(parent ast.Node, floor int) []token.Token {
	outer := m.lines
	m.lines = parent.Lines()
	defer func() { m.lines = outer }()

	out, _ := m.inlineRun(parent, floor)
	return out
}

// inlineRaw returns the raw text of an inline span. A span crossing lines is
// rebuilt from the enclosing block's line segments, so container prefixes
// such as blockquote markers and list indentation are left out, as they are
// from the block's own raw text.
func (m *mapper) inlineRaw(sp span) string {
	if !sp.ok() || m.lines == nil || bytes.IndexByte(m.src[sp.start:sp.stop], '\n') < 0 {
		return m.raw(sp)
	}

	var sb strings.Builder
	pos := sp.start
	for i := 0; i < m.lines.Len() && pos < sp.stop; i++ {
		seg := m.lines.At(i)
		if seg.Stop <= pos {
			continue
		}
		if pos > sp.start {
			pos = max(pos, seg.Start)
		}
		stop := min(seg.Stop, sp.stop)
		sb.Write(m.src[pos:stop])
		pos = stop
	}
	if pos < sp.stop {
		sb.Write(m.src[pos:sp.stop])
	}
	return sb.String()
}

// inlineRun maps the inline children of parent and returns their extent.
func (m *mapper) inlineRun(parent ast.Node, floor int) ([]token.Token, span) {
	var out []token.Token
	whole := noSpan
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		toks, sp := m.inline(child, floor)
		out = append(out, toks...)
		if sp.ok() {
			whole = whole.extend(sp)
			floor = sp.stop
		}
	}
	return out, whole
}

// inline maps one inline node. A goldmark text node may expand to several
// tokens when it holds escapes or ends in a hard line break.
func (m *mapper) inline(n ast.Node, floor int) ([]token.Token, span) {
	switch gmn := n.(type) {
	case *ast.Text:
		return m.mapText(gmn)
	case *ast.String:
		return nil, noSpan
	case *ast.CodeSpan:
		return m.mapCodeSpan(gmn, floor)
	case *ast.Emphasis:
		children, inner := m.inlineRun(gmn, floor)
		sp := m.delimited(inner, "*_", gmn.Level)
		base := token.Base{RawText: m.inlineRaw(sp)}
		inline := token.Inline{Tokens: children}
		if gmn.Level >= 2 {
			return []token.Token{&token.Strong{Base: base, Inline: inline}}, sp
		}
		return []token.Token{&token.Em{Base: base, Inline: inline}}, sp
	case *east.Strikethrough:
		children, inner := m.inlineRun(gmn, floor)
		sp := m.delimited(inner, "~", 2)
		return []token.Token{&token.Del{
			Base:   token.Base{RawText: m.inlineRaw(sp)},
			Inline: token.Inline{Tokens: children},
		}}, sp
	case *ast.Link:
		children, sp := m.mapLinkLike(gmn, floor, false)
		return []token.Token{&token.Link{
			Base:   token.Base{RawText: m.inlineRaw(sp)},
			Inline: token.Inline{Tokens: children},
			Href:   string(gmn.Destination),
			Title:  string(gmn.Title),
		}}, sp
	case *ast.Image:
		children, sp := m.mapLinkLike(gmn, floor, true)
		return []token.Token{&token.Image{
			Base:   token.Base{RawText: m.inlineRaw(sp)},
			Inline: token.Inline{Tokens: children},
			Href:   string(gmn.Destination),
			Title:  string(gmn.Title),
		}}, sp
	case *ast.AutoLink:
		return m.mapAutoLink(gmn, floor)
	case *ast.RawHTML:
		sp := m.segments(gmn.Segments)
		var raw bytes.Buffer
		for i := 0; i < gmn.Segments.Len(); i++ {
			seg := gmn.Segments.At(i)
			raw.Write(m.src[seg.Start:seg.Stop])
		}
		return []token.Token{&token.HTML{Base: token.Base{RawText: raw.String()}}}, sp
	case *east.TaskCheckBox:
		i := bytes.IndexByte(m.src[min(max(floor, 0), len(m.src)):], '[')
		if i < 0 {
			return nil, noSpan
		}
		sp := span{start: floor + i, stop: min(floor+i+3, len(m.src))}
		return []token.Token{&token.Checkbox{
			Base:    token.Base{RawText: m.raw(sp)},
			Checked: gmn.IsChecked,
		}}, sp
	default:
		children, sp := m.inlineRun(n, floor)
		return []token.Token{&token.Extension{
			Base:   token.Base{RawText: m.inlineRaw(sp)},
			Inline: token.Inline{Tokens: children},
			Name:   n.Kind().String(),
		}}, sp
	}
}

// mapText splits a text segment on backslash escapes and appends a line break
// token when the text ends in a hard break.
func (m *mapper) mapText(t *ast.Text) ([]token.Token, span) {
	seg := t.Segment
	var out []token.Token

	from := seg.Start
	flush := func(to int) {
		if to > from {
			s := string(m.src[from:to])
			out = append(out, &token.Text{Base: token.Base{RawText: s}, Text: s})
		}
	}
	for i := seg.Start; i < seg.Stop; i++ {
		if m.src[i] != '\\' || i+1 >= seg.Stop || !util.IsPunct(m.src[i+1]) {
			continue
		}
		flush(i)
		out = append(out, &token.Escape{
			Base: token.Base{RawText: string(m.src[i : i+2])},
			Text: string(m.src[i+1]),
		})
		i++
		from = i + 1
	}
	flush(seg.Stop)

	sp := span{start: seg.Start, stop: seg.Stop}
	if t.HardLineBreak() {
		if end := m.lineEnd(seg.Stop); end > seg.Stop {
			out = append(out, &token.Br{Base: token.Base{RawText: string(m.src[seg.Stop:end])}})
			sp.stop = end
		}
	}
	return out, sp
}

// mapCodeSpan converts an inline code span. Its text is the content with the
// single padding space stripped, as goldmark records it.
func (m *mapper) mapCodeSpan(cs *ast.CodeSpan, floor int) ([]token.Token, span) {
	var text bytes.Buffer
	inner := noSpan
	for child := cs.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		text.Write(t.Segment.Value(m.src))
		inner = inner.extend(span{start: t.Segment.Start, stop: t.Segment.Stop})
	}
	if !inner.ok() {
		if i := bytes.IndexByte(m.src[min(max(floor, 0), len(m.src)):], '`'); i >= 0 {
			inner = span{start: floor + i, stop: floor + i}
		}
	}
	sp := m.codeSpan(inner)
	return []token.Token{&token.CodeSpan{
		Base: token.Base{RawText: m.inlineRaw(sp)},
		Text: text.String(),
	}}, sp
}

// mapLinkLike maps the children of a link or image and grows their extent over
// the brackets and destination.
func (m *mapper) mapLinkLike(n ast.Node, floor int, image bool) ([]token.Token, span) {
	children, inner := m.inlineRun(n, floor)
	if !inner.ok() {
		i := bytes.Index(m.src[min(max(floor, 0), len(m.src)):], []byte("[]"))
		if i < 0 {
			return children, noSpan
		}
		inner = span{start: floor + i + 1, stop: floor + i + 1}
	}
	return children, m.link(inner, image)
}

// mapAutoLink converts an autolink. goldmark does not expose its segment, so
// the label is searched for from floor.
func (m *mapper) mapAutoLink(al *ast.AutoLink, floor int) ([]token.Token, span) {
	label := al.Label(m.src)
	floor = min(max(floor, 0), len(m.src))
	i := bytes.Index(m.src[floor:], label)
	if i < 0 {
		return nil, noSpan
	}
	inner := span{start: floor + i, stop: floor + i + len(label)}
	sp := inner
	if sp.start > 0 && m.src[sp.start-1] == '<' && sp.stop < len(m.src) && m.src[sp.stop] == '>' {
		sp = span{start: sp.start - 1, stop: sp.stop + 1}
	}

	text := string(label)
	return []token.Token{&token.Link{
		Base: token.Base{RawText: m.raw(sp)},
		Inline: token.Inline{Tokens: []token.Token{
			&token.Text{Base: token.Base{RawText: text}, Text: text},
		}},
		Href: string(al.URL(m.src)),
	}}, sp
}

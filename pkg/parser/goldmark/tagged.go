package goldmark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// TaggedBlockName is the token type produced for tagged blocks.
const TaggedBlockName = "taggedBlock"

// KindTaggedBlock is the goldmark node kind of a TaggedBlock.
var KindTaggedBlock = ast.NewNodeKind("TaggedBlock")

// TaggedBlock is a block opened by a ":tag:" line and closed by a line holding
// a single ":". Its content lines are parsed as inline markdown.
//
//	:note:
//	Remember to **run** the migration.
//	:
type TaggedBlock struct {
	ast.BaseBlock

	Tag string

	// OpenStart is the offset of the opening colon. CloseStop is the offset
	// just past the closing colon, or -1 when the block is never closed.
	OpenStart int
	CloseStop int
}

// Kind implements ast.Node.
func (n *TaggedBlock) Kind() ast.NodeKind {
	return KindTaggedBlock
}

// Dump implements ast.Node.
func (n *TaggedBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tag": n.Tag}, nil)
}

type taggedBlockParser struct{}

func (taggedBlockParser) Trigger() []byte {
	return []byte{':'}
}

func (taggedBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != ':' {
		return nil, parser.NoChildren
	}
	tag, ok := openerTag(line[pos:])
	if !ok {
		return nil, parser.NoChildren
	}

	node := &TaggedBlock{
		Tag:       tag,
		OpenStart: segment.Start - segment.Padding + pos,
		CloseStop: -1,
	}
	consumeLine(reader, line, segment)
	return node, parser.NoChildren
}

func (taggedBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}

	if i := util.TrimLeftSpaceLength(line); i < len(line) && line[i] == ':' && util.IsBlank(line[i+1:]) {
		node.(*TaggedBlock).CloseStop = segment.Start - segment.Padding + i + 1
		consumeLine(reader, line, segment)
		return parser.Close
	}

	node.Lines().Append(segment)
	consumeLine(reader, line, segment)
	return parser.Continue | parser.NoChildren
}

// consumeLine advances past the content of the current line. The line break,
// when there is one, is left for the block loop; a last line without one must
// be consumed whole or goldmark opens a new block on what remains.
func consumeLine(reader text.Reader, line []byte, segment text.Segment) {
	newline := 1
	if len(line) == 0 || line[len(line)-1] != '\n' {
		newline = 0
	}
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
}

func (taggedBlockParser) Close(ast.Node, text.Reader, parser.Context) {}

func (taggedBlockParser) CanInterruptParagraph() bool {
	return false
}

func (taggedBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// openerTag parses ":tag:" followed by optional trailing space.
func openerTag(line []byte) (string, bool) {
	if len(line) < 3 || line[0] != ':' {
		return "", false
	}
	i := 1
	for i < len(line) && isTagByte(line[i], i == 1) {
		i++
	}
	if i == 1 || i >= len(line) || line[i] != ':' || !util.IsBlank(line[i+1:]) {
		return "", false
	}
	return string(line[1:i]), true
}

func isTagByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case first:
		return false
	default:
		return c == '-' || c == '_' || util.IsNumeric(c)
	}
}

// TaggedBlocks is a goldmark extension that parses tagged blocks.
var TaggedBlocks goldmark.Extender = taggedBlocks{}

type taggedBlocks struct{}

func (taggedBlocks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(taggedBlockParser{}, 750),
	))
}

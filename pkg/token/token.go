// Package token defines the markdown token tree that gomdpos annotates.
//
// Tokens are a closed set of variants. Each variant carries the raw source
// text it was lexed from and declares, through the Parent and FieldCarrier
// interfaces or its own typed fields, which nested token collections it owns.
package token

// Type tags, matching the names used by common markdown lexers.
const (
	TypeSpace      = "space"
	TypeCode       = "code"
	TypeHeading    = "heading"
	TypeHr         = "hr"
	TypeBlockquote = "blockquote"
	TypeList       = "list"
	TypeListItem   = "list_item"
	TypeParagraph  = "paragraph"
	TypeHTML       = "html"
	TypeTable      = "table"
	TypeTableCell  = "table_cell"
	TypeText       = "text"
	TypeEscape     = "escape"
	TypeLink       = "link"
	TypeImage      = "image"
	TypeStrong     = "strong"
	TypeEm         = "em"
	TypeDel        = "del"
	TypeCodeSpan   = "codespan"
	TypeBr         = "br"
	TypeCheckbox   = "checkbox"
)

// Token is a node in the token tree.
type Token interface {
	// Type returns the token's type tag.
	Type() string

	// Raw returns the source text the token was lexed from.
	Raw() string

	// Location returns the attached location, or nil before annotation.
	Location() *Location

	// SetLocation attaches a location.
	SetLocation(loc *Location)

	token()
}

// Parent is a token with a nested inline token sequence.
type Parent interface {
	Token
	Children() []Token
}

// FieldCarrier is a token with declared secondary token sequences.
type FieldCarrier interface {
	Token
	ChildFields() []Field
}

// Field is a named secondary token sequence.
type Field struct {
	Name   string
	Tokens []Token
}

// Base holds the state shared by every token variant.
type Base struct {
	RawText string
	Loc     *Location
}

// Raw returns the raw source text.
func (b *Base) Raw() string { return b.RawText }

// Location returns the attached location.
func (b *Base) Location() *Location { return b.Loc }

// SetLocation attaches loc.
func (b *Base) SetLocation(loc *Location) { b.Loc = loc }

func (*Base) token() {}

// Inline holds a nested inline token sequence.
type Inline struct {
	Tokens []Token
}

// Children returns the nested tokens.
func (i *Inline) Children() []Token { return i.Tokens }

// Block tokens.

// Space is a run of blank lines.
type Space struct{ Base }

// Code is a fenced or indented code block.
type Code struct {
	Base
	Lang   string
	Text   string
	Fenced bool
}

// Heading is an ATX or setext heading.
type Heading struct {
	Base
	Inline
	Depth int
	Text  string
}

// Hr is a thematic break.
type Hr struct{ Base }

// Blockquote is a block quote. Its children are block tokens.
type Blockquote struct {
	Base
	Inline
}

// List is an ordered or bullet list.
type List struct {
	Base
	Ordered bool
	Start   int
	Loose   bool
	Items   []*ListItem
}

// ListItem is a single list item. Its children are block tokens.
type ListItem struct {
	Base
	Inline
	Task    bool
	Checked bool
	Loose   bool
}

// Paragraph is a paragraph of inline content.
type Paragraph struct {
	Base
	Inline
	Text string
}

// HTML is a raw HTML block or inline HTML.
type HTML struct {
	Base
	Block bool
}

// Align is a table column alignment.
type Align string

// Column alignments.
const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Table is a GFM table.
type Table struct {
	Base
	Align  []Align
	Header []*TableCell
	Rows   [][]*TableCell
}

// Cells returns the header cells followed by every row's cells in reading order.
func (t *Table) Cells() []Token {
	n := len(t.Header)
	for _, row := range t.Rows {
		n += len(row)
	}
	cells := make([]Token, 0, n)
	for _, c := range t.Header {
		cells = append(cells, c)
	}
	for _, row := range t.Rows {
		for _, c := range row {
			cells = append(cells, c)
		}
	}
	return cells
}

// TableCell is a header or body cell.
type TableCell struct {
	Base
	Inline
	Header bool
	Align  Align
}

// Inline tokens.

// Text is literal text.
type Text struct {
	Base
	Text string
}

// Escape is a backslash escape.
type Escape struct {
	Base
	Text string
}

// Link is an inline, reference, or autolink.
type Link struct {
	Base
	Inline
	Href  string
	Title string
}

// Image is an image reference.
type Image struct {
	Base
	Inline
	Href  string
	Title string
}

// Strong is strong emphasis.
type Strong struct {
	Base
	Inline
}

// Em is emphasis.
type Em struct {
	Base
	Inline
}

// Del is strikethrough.
type Del struct {
	Base
	Inline
}

// CodeSpan is inline code.
type CodeSpan struct {
	Base
	Text string
}

// Br is a hard line break.
type Br struct{ Base }

// Checkbox is a task list marker.
type Checkbox struct {
	Base
	Checked bool
}

// Extension is a token produced by a lexer extension. Tokens holds its
// primary children; Fields holds declared secondary sequences, annotated in
// declaration order.
type Extension struct {
	Base
	Inline
	Name   string
	Attrs  map[string]string
	Fields []Field
}

// ChildFields returns the declared secondary sequences.
func (e *Extension) ChildFields() []Field { return e.Fields }

func (*Space) Type() string      { return TypeSpace }
func (*Code) Type() string       { return TypeCode }
func (*Heading) Type() string    { return TypeHeading }
func (*Hr) Type() string         { return TypeHr }
func (*Blockquote) Type() string { return TypeBlockquote }
func (*List) Type() string       { return TypeList }
func (*ListItem) Type() string   { return TypeListItem }
func (*Paragraph) Type() string  { return TypeParagraph }
func (*HTML) Type() string       { return TypeHTML }
func (*Table) Type() string      { return TypeTable }
func (*TableCell) Type() string  { return TypeTableCell }
func (*Text) Type() string       { return TypeText }
func (*Escape) Type() string     { return TypeEscape }
func (*Link) Type() string       { return TypeLink }
func (*Image) Type() string      { return TypeImage }
func (*Strong) Type() string     { return TypeStrong }
func (*Em) Type() string         { return TypeEm }
func (*Del) Type() string        { return TypeDel }
func (*CodeSpan) Type() string   { return TypeCodeSpan }
func (*Br) Type() string         { return TypeBr }
func (*Checkbox) Type() string   { return TypeCheckbox }

// Type returns the extension name.
func (e *Extension) Type() string { return e.Name }

// Compile-time shape checks.
var (
	_ Parent       = (*Heading)(nil)
	_ Parent       = (*Blockquote)(nil)
	_ Parent       = (*ListItem)(nil)
	_ Parent       = (*Paragraph)(nil)
	_ Parent       = (*TableCell)(nil)
	_ Parent       = (*Link)(nil)
	_ Parent       = (*Image)(nil)
	_ Parent       = (*Strong)(nil)
	_ Parent       = (*Em)(nil)
	_ Parent       = (*Del)(nil)
	_ Parent       = (*Extension)(nil)
	_ FieldCarrier = (*Extension)(nil)
)

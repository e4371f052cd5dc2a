// Package position attaches source locations to markdown token trees.
//
// Lexers typically record only the raw text each token matched. Annotate
// recovers where that text sits in the original source by walking the tree
// in document order with a cursor that only moves forward, narrowing the
// search window to a token's own span whenever it descends into nested
// content.
package position

import (
	"errors"
	"strings"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Annotate attaches a location to every token reachable from tokens,
// matching raw text against source. The tokens are modified in place and
// returned.
func Annotate(tokens []token.Token, source string) ([]token.Token, error) {
	if _, err := Walk(tokens, Begin(source)); err != nil {
		return tokens, err
	}
	return tokens, nil
}

// AnnotateBytes is Annotate over a byte slice, without copying it.
func AnnotateBytes(tokens []token.Token, source []byte) ([]token.Token, error) {
	if _, err := Walk(tokens, BeginBytes(source)); err != nil {
		return tokens, err
	}
	return tokens, nil
}

// AnnotateRaw annotates tokens against the concatenation of their top-level
// raw texts. This only matches the original source when the lexer kept every
// byte in some top-level token; content collected out of band, such as link
// reference definitions, breaks it.
func AnnotateRaw(tokens []token.Token) ([]token.Token, error) {
	return Annotate(tokens, JoinRaw(tokens))
}

// MustAnnotate is like Annotate but panics on error.
func MustAnnotate(tokens []token.Token, source string) []token.Token {
	out, err := Annotate(tokens, source)
	if err != nil {
		panic(err)
	}
	return out
}

// JoinRaw concatenates the raw text of tokens in order.
func JoinRaw(tokens []token.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Raw())
	}
	return sb.String()
}

// Walk locates each token of the sequence in turn, starting at c, descends
// into its nested sequences, and returns the cursor positioned after the
// last token.
func Walk(tokens []token.Token, c Cursor) (Cursor, error) {
	for _, tok := range tokens {
		loc, err := locate(c, tok.Raw())
		if err != nil {
			var ue *UnlocatableError
			if errors.As(err, &ue) && ue.Type == "" {
				ue.Type = tok.Type()
			}
			return c, err
		}
		tok.SetLocation(&loc)

		if err := descend(tok, c.enter(loc)); err != nil {
			return c, err
		}

		c = c.advance(loc.End)
	}
	return c, nil
}

// descend walks the sequences owned by tok. span is positioned at the
// token's start with its window narrowed to the token's span.
func descend(tok token.Token, span Cursor) error {
	if p, ok := tok.(token.Parent); ok {
		inner := span
		if _, ok := tok.(*token.Blockquote); ok {
			inner = inner.quoted()
		}
		if _, err := Walk(p.Children(), inner); err != nil {
			return err
		}
	}

	if fc, ok := tok.(token.FieldCarrier); ok {
		cur := span
		for _, f := range fc.ChildFields() {
			next, err := Walk(f.Tokens, cur)
			if err != nil {
				return err
			}
			cur = next
		}
	}

	switch t := tok.(type) {
	case *token.List:
		items := make([]token.Token, len(t.Items))
		for i, it := range t.Items {
			items[i] = it
		}
		if _, err := Walk(items, span); err != nil {
			return err
		}
	case *token.Table:
		return walkTable(t, span)
	}

	return nil
}

// walkTable walks the header cells, then the body cells row by row. Body
// cells are searched from the line after the delimiter row, so a cell such as
// "-" is not matched inside the delimiter.
func walkTable(t *token.Table, span Cursor) error {
	header := make([]token.Token, len(t.Header))
	for i, c := range t.Header {
		header[i] = c
	}
	cur, err := Walk(header, span)
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return nil
	}
	if len(t.Header) > 0 {
		cur = cur.nextLine().nextLine()
	}

	var body []token.Token
	for _, row := range t.Rows {
		for _, c := range row {
			body = append(body, c)
		}
	}
	_, err = Walk(body, cur)
	return err
}

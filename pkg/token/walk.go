package token

// WalkFunc is the function signature for Walk callbacks. depth is 0 for the
// top-level sequence. Return a non-nil error to stop the walk.
type WalkFunc func(tok Token, depth int) error

// Walk performs a pre-order traversal of tokens in document order. For each
// token it visits, in turn, its children, its declared fields, its list
// items, and its table cells.
func Walk(tokens []Token, fn WalkFunc) error {
	return walk(tokens, 0, fn)
}

func walk(tokens []Token, depth int, fn WalkFunc) error {
	for _, tok := range tokens {
		if err := fn(tok, depth); err != nil {
			return err
		}
		for _, seq := range Nested(tok) {
			if err := walk(seq, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Nested returns the token sequences directly owned by tok, in the order the
// annotator visits them.
func Nested(tok Token) [][]Token {
	var out [][]Token
	if p, ok := tok.(Parent); ok && len(p.Children()) > 0 {
		out = append(out, p.Children())
	}
	if fc, ok := tok.(FieldCarrier); ok {
		for _, f := range fc.ChildFields() {
			if len(f.Tokens) > 0 {
				out = append(out, f.Tokens)
			}
		}
	}
	switch t := tok.(type) {
	case *List:
		if len(t.Items) > 0 {
			items := make([]Token, len(t.Items))
			for i, it := range t.Items {
				items[i] = it
			}
			out = append(out, items)
		}
	case *Table:
		if cells := t.Cells(); len(cells) > 0 {
			out = append(out, cells)
		}
	}
	return out
}

// Count returns the number of tokens reachable from tokens.
func Count(tokens []Token) int {
	n := 0
	_ = Walk(tokens, func(Token, int) error {
		n++
		return nil
	})
	return n
}

// FindAll returns every reachable token with the given type tag.
func FindAll(tokens []Token, typ string) []Token {
	var out []Token
	_ = Walk(tokens, func(tok Token, _ int) error {
		if tok.Type() == typ {
			out = append(out, tok)
		}
		return nil
	})
	return out
}

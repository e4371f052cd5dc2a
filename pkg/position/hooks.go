package position

import "github.com/yaklabco/gomdpos/pkg/token"

// Extension annotates tokens as a lexer pipeline stage. Preprocess captures
// the source before tokenization and ProcessAllTokens annotates the finished
// token list against it.
//
// An Extension holds the source of the document being lexed, so it is not
// safe for concurrent use. Give each lexer its own.
type Extension struct {
	source string
}

// NewExtension returns an Extension with no captured source.
func NewExtension() *Extension {
	return &Extension{}
}

// Preprocess remembers src and returns it unchanged.
func (e *Extension) Preprocess(src string) string {
	e.source = src
	return src
}

// ProcessAllTokens annotates tokens against the captured source.
func (e *Extension) ProcessAllTokens(tokens []token.Token) ([]token.Token, error) {
	return Annotate(tokens, e.source)
}

// Source returns the captured source.
func (e *Extension) Source() string {
	return e.source
}

// Package goldmark lexes markdown into position-ready tokens using the
// goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdpos/pkg/langdetect"
	"github.com/yaklabco/gomdpos/pkg/token"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Hook observes a lex. Preprocess sees the source before parsing and may
// return a replacement; ProcessAllTokens sees the finished token tree.
// position.Extension satisfies Hook.
type Hook interface {
	Preprocess(src string) string
	ProcessAllTokens(tokens []token.Token) ([]token.Token, error)
}

// Option configures a Parser.
type Option func(*Parser)

// WithFlavor selects the Markdown flavor. Unknown flavors fall back to
// CommonMark.
func WithFlavor(flavor string) Option {
	return func(p *Parser) {
		p.flavor = flavorOrDefault(flavor)
	}
}

// WithHooks registers hooks run around every lex, in order.
func WithHooks(hooks ...Hook) Option {
	return func(p *Parser) {
		p.hooks = append(p.hooks, hooks...)
	}
}

// WithLanguageDetection fills in the language of unlabeled code blocks with
// langdetect.Fill before any hook sees the tokens.
func WithLanguageDetection(enabled bool) Option {
	return func(p *Parser) {
		p.detectLang = enabled
	}
}

// WithTaggedBlocks enables ":tag:" blocks.
func WithTaggedBlocks(enabled bool) Option {
	return func(p *Parser) {
		p.tagged = enabled
	}
}

// Parser lexes markdown with goldmark. A Parser is not safe for concurrent
// use when its hooks are not.
type Parser struct {
	flavor     string
	hooks      []Hook
	detectLang bool
	tagged     bool
	md         goldmark.Markdown
}

// New creates a new goldmark-based parser. The default flavor is CommonMark.
func New(opts ...Option) *Parser {
	p := &Parser{flavor: FlavorCommonMark}
	for _, opt := range opts {
		opt(p)
	}
	p.md = newGoldmarkInstance(p.flavor, p.tagged)
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Use appends hooks to the parser.
func (p *Parser) Use(hooks ...Hook) {
	p.hooks = append(p.hooks, hooks...)
}

// Lex converts markdown into a token tree.
//
// Hooks see the source first, in registration order, and the last hook's
// output is what goldmark parses. After mapping and optional language
// detection, each hook's ProcessAllTokens runs in order over the tree.
func (p *Parser) Lex(ctx context.Context, source []byte) ([]token.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lex cancelled: %w", err)
	}

	content := string(source)
	for _, h := range p.hooks {
		content = h.Preprocess(content)
	}
	src := []byte(content)

	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lex cancelled: %w", err)
	}

	tokens := newMapper(src).mapDocument(doc)
	if p.detectLang {
		langdetect.Fill(tokens)
	}

	for _, h := range p.hooks {
		var err error
		if tokens, err = h.ProcessAllTokens(tokens); err != nil {
			return nil, fmt.Errorf("process tokens: %w", err)
		}
	}
	return tokens, nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, tagged bool) goldmark.Markdown {
	var exts []goldmark.Extender
	if flavor == FlavorGFM {
		exts = append(exts, extension.GFM)
	}
	if tagged {
		exts = append(exts, TaggedBlocks)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}

package reporter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/pkg/parser/goldmark"
	"github.com/yaklabco/gomdpos/pkg/position"
	"github.com/yaklabco/gomdpos/pkg/runner"
	"github.com/yaklabco/gomdpos/pkg/token"
)

func lex(t *testing.T, src string) []token.Token {
	t.Helper()

	p := goldmark.New(goldmark.WithFlavor(goldmark.FlavorGFM), goldmark.WithHooks(position.NewExtension()))
	tokens, err := p.Lex(context.Background(), []byte(src))
	require.NoError(t, err)
	return tokens
}

// sampleResult pairs one annotated document of six tokens with a failed
// file.
func sampleResult(t *testing.T) *runner.Result {
	t.Helper()

	src := "# Title\n\nSome `code` here.\n"
	return &runner.Result{
		Files: []runner.FileResult{
			{Path: "doc.md", Source: src, Tokens: lex(t, src)},
			{Path: "broken.md", Err: errors.New("permission denied")},
		},
		Stats: runner.Stats{FilesDiscovered: 2, FilesAnnotated: 1, FilesFailed: 1, Tokens: 6},
	}
}

package langdetect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/pkg/langdetect"
	"github.com/yaklabco/gomdpos/pkg/parser/goldmark"
	"github.com/yaklabco/gomdpos/pkg/token"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"vim modeline", "# vim: set ft=ruby:\nputs 1\n", "ruby"},
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang sh", "#!/bin/sh\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"shebang beats signatures", "#!/bin/bash\ndef foo():\n    pass", "bash"},
		{"go package", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go"},
		{"python def", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"python from import", "from os import path\nprint(path.sep)", "python"},
		{"es module import", "import React from 'react'\nexport default App", "javascript"},
		{"javascript arrow", "const x = () => { return 42; };\nconsole.log(x());", "javascript"},
		{"json object", `{"key": "value", "number": 123}`, "json"},
		{"json array", "[1, 2, 3]", "json"},
		{"yaml mapping", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml"},
		{"yaml sequence", "- one\n- two\n", "yaml"},
		{"rust", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust"},
		{"sql", "SELECT * FROM users WHERE id = 1;", "sql"},
		{"sql cte", "with recent as (select 1)\nselect * from recent", "sql"},
		{"html", "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>", "html"},
		{"dockerfile", "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build", "dockerfile"},
		{"dockerfile after comment", "# build stage\nFROM alpine\n", "dockerfile"},
		{"plain text", "just some text without any code patterns", langdetect.Unknown},
		{"single key is prose", "Note: this is a sentence.", langdetect.Unknown},
		{"empty", "", langdetect.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, langdetect.Detect(tt.body))
		})
	}
}

func TestGuess(t *testing.T) {
	t.Parallel()

	lang, ok := langdetect.Guess("package main\n")
	assert.True(t, ok)
	assert.Equal(t, "go", lang)

	_, ok = langdetect.Guess("   \n")
	assert.False(t, ok)

	_, ok = langdetect.Guess("just words")
	assert.False(t, ok)
}

func lexCode(t *testing.T, src string) ([]token.Token, []*token.Code) {
	t.Helper()

	tokens, err := goldmark.New().Lex(context.Background(), []byte(src))
	require.NoError(t, err)

	var codes []*token.Code
	for _, tok := range token.FindAll(tokens, token.TypeCode) {
		codes = append(codes, tok.(*token.Code))
	}
	return tokens, codes
}

func TestFill(t *testing.T) {
	t.Parallel()

	const src = "```\npackage main\n```\n\n" +
		"```sh\nSELECT 1;\n```\n\n" +
		"    def f():\n        pass\n\n" +
		"```\n\n```\n\n" +
		"- item\n\n  ```\n  {\"a\": 1}\n  ```\n"

	tokens, codes := lexCode(t, src)
	require.Len(t, codes, 5)

	assert.Equal(t, 3, langdetect.Fill(tokens))

	got := make([]string, len(codes))
	for i, c := range codes {
		got[i] = c.Lang
	}
	assert.Equal(t, []string{"go", "sh", "python", "", "json"}, got)
}

func TestFill_Idempotent(t *testing.T) {
	t.Parallel()

	tokens, _ := lexCode(t, "```\npackage main\n```\n")

	assert.Equal(t, 1, langdetect.Fill(tokens))
	assert.Equal(t, 0, langdetect.Fill(tokens))
}

func TestFill_ThroughLexer(t *testing.T) {
	t.Parallel()

	const src = "> ```\n> #!/usr/bin/env python3\n> print(1)\n> ```\n"

	tokens, err := goldmark.New(goldmark.WithLanguageDetection(true)).Lex(context.Background(), []byte(src))
	require.NoError(t, err)

	codes := token.FindAll(tokens, token.TypeCode)
	require.Len(t, codes, 1)
	assert.Equal(t, "python", codes[0].(*token.Code).Lang)
}

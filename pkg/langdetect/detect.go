// Package langdetect labels code tokens that were lexed without an info
// string.
package langdetect

import (
	"encoding/json"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Unknown is returned by Detect when no language could be determined.
const Unknown = "text"

// Fill sets Lang on every code token reachable from tokens that has none and
// returns how many tokens it labeled. Code with a fence info string keeps its
// language; blank bodies are never labeled.
func Fill(tokens []token.Token) int {
	labeled := 0
	_ = token.Walk(tokens, func(tok token.Token, _ int) error {
		code, ok := tok.(*token.Code)
		if !ok || code.Lang != "" {
			return nil
		}
		if lang, ok := Guess(code.Text); ok {
			code.Lang = lang
			labeled++
		}
		return nil
	})
	return labeled
}

// Guess returns the language of a code body and whether one was found.
func Guess(body string) (string, bool) {
	if strings.TrimSpace(body) == "" {
		return "", false
	}
	lang := Detect(body)
	return lang, lang != Unknown
}

// Detect returns the fence tag for the language of a code body, or Unknown.
//
// An editor modeline or a shebang decides outright. Otherwise the body is
// checked against signatures of languages common in documentation.
func Detect(body string) string {
	content := []byte(body)
	if len(content) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByModeline(content); safe {
		return fenceTag(lang)
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	trimmed := strings.TrimSpace(body)
	for _, sig := range signatures {
		if sig.match(body, trimmed) {
			return sig.lang
		}
	}
	return Unknown
}

// fenceAliases maps enry language names to the tags people write after a
// fence when lowercasing is not enough.
var fenceAliases = map[string]string{
	"Shell":       "bash",
	"C++":         "cpp",
	"C#":          "csharp",
	"Objective-C": "objc",
}

func fenceTag(lang string) string {
	if tag, ok := fenceAliases[lang]; ok {
		return tag
	}
	return strings.ToLower(lang)
}

// signature recognises a language from its body. Order matters: earlier
// entries win, so stricter signatures come first.
type signature struct {
	lang  string
	match func(body, trimmed string) bool
}

var signatures = []signature{
	{"go", func(_, trimmed string) bool {
		return strings.HasPrefix(trimmed, "package ")
	}},
	{"python", isPython},
	{"html", func(_, trimmed string) bool {
		lower := strings.ToLower(trimmed)
		return containsAny(lower, "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(_, trimmed string) bool {
		return (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && json.Valid([]byte(trimmed))
	}},
	{"dockerfile", func(body, trimmed string) bool {
		return strings.HasPrefix(firstStatement(trimmed), "FROM ") ||
			(strings.Contains(body, "WORKDIR ") && strings.Contains(body, "COPY "))
	}},
	{"sql", func(_, trimmed string) bool {
		upper := strings.ToUpper(trimmed)
		return hasAnyPrefix(upper, "SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE ", "WITH ")
	}},
	{"rust", func(body, _ string) bool {
		return containsAny(body, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(body, trimmed string) bool {
		return containsAny(body, "=>", "console.log", " from '", ` from "`) ||
			hasAnyPrefix(trimmed, "const ", "let ", "function ")
	}},
	{"yaml", isYAML},
}

func isPython(body, trimmed string) bool {
	switch {
	case strings.Contains(body, "def ") && strings.Contains(body, "):"):
		return true
	case containsAny(body, "__name__", "__main__"):
		return true
	case strings.HasPrefix(trimmed, "from ") && strings.Contains(firstStatement(trimmed), " import "):
		return true
	case strings.HasPrefix(trimmed, "import "):
		return !containsAny(body, "import (", " from ")
	}
	return false
}

// isYAML reports whether body decodes as a YAML mapping or sequence with at
// least two entries. A single "key: value" line is too common in prose to
// count.
func isYAML(body, _ string) bool {
	var mapping map[string]any
	if err := yaml.Unmarshal([]byte(body), &mapping); err == nil && len(mapping) >= 2 {
		return true
	}
	var seq []any
	err := yaml.Unmarshal([]byte(body), &seq)
	return err == nil && len(seq) >= 2
}

// firstStatement returns the first line of s that is neither blank nor a "#"
// comment.
func firstStatement(s string) string {
	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

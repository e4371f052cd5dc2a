package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/yaklabco/gomdpos/pkg/analysis"
	"github.com/yaklabco/gomdpos/pkg/token"
)

// ellipsis marks a truncated raw snippet.
const ellipsis = "…"

// Snippet quotes raw for one-line display, cutting it to at most maxRunes
// runes first. maxRunes <= 0 disables truncation.
func Snippet(raw string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(raw) <= maxRunes {
		return strconv.Quote(raw)
	}
	runes := []rune(raw)
	return strconv.Quote(string(runes[:maxRunes])) + ellipsis
}

// FormatLocation renders a location as "[l:c-l:c]", 1-based, or "[?]" when
// the token was never annotated.
func (s *Styles) FormatLocation(loc *token.Location) string {
	if loc == nil {
		return s.Location.Render("[?]")
	}
	return s.Location.Render("[" + loc.String() + "]")
}

// FormatAttrs renders attributes as sorted key=value pairs.
func (s *Styles) FormatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+attrs[k])
	}
	return s.Attr.Render(strings.Join(parts, " "))
}

// FormatNodeLabel renders one token as `type [l:c-l:c] "raw" attrs`.
func (s *Styles) FormatNodeLabel(n analysis.Node, maxRaw int) string {
	label := s.TokenType.Render(n.Type) + " " +
		s.FormatLocation(n.Location) + " " +
		s.Raw.Render(Snippet(n.Raw, maxRaw))
	if attrs := s.FormatAttrs(n.Attrs); attrs != "" {
		label += " " + attrs
	}
	return label
}

// FormatTree renders nodes as a tree with one token per line.
func (s *Styles) FormatTree(nodes []analysis.Node, maxRaw int) string {
	if len(nodes) == 0 {
		return ""
	}
	t := tree.New().
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(s.Guide)
	for _, n := range nodes {
		t.Child(s.subtree(n, maxRaw))
	}
	return t.String() + "\n"
}

func (s *Styles) subtree(n analysis.Node, maxRaw int) any {
	label := s.FormatNodeLabel(n, maxRaw)
	if len(n.Children) == 0 {
		return label
	}
	t := tree.Root(label).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(s.Guide)
	for _, c := range n.Children {
		t.Child(s.subtree(c, maxRaw))
	}
	return t
}

// FormatCompactLine renders one token on a single line prefixed by its file
// and start point, the way compilers report positions.
func (s *Styles) FormatCompactLine(path string, n analysis.Node, maxRaw int) string {
	start := "?"
	if n.Location != nil {
		start = n.Location.Start.String()
	}
	return fmt.Sprintf("%s:%s %s\n",
		s.FilePath.Render(path),
		start,
		s.FormatNodeLabel(n, maxRaw),
	)
}

// FormatFileHeader renders a file path with its reported token count.
func (s *Styles) FormatFileHeader(path string, tokens int) string {
	word := "tokens"
	if tokens == 1 {
		word = "token"
	}
	return s.FilePath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d %s)", tokens, word))
}

package position

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Violation rules reported by Verify.
const (
	RuleMissing   = "missing"
	RuleBounds    = "bounds"
	RuleDerivable = "derivable"
	RuleContent   = "content"
	RuleLines     = "lines"
	RuleOrder     = "order"
	RuleNesting   = "nesting"
)

// Violation is a location that does not agree with the source.
type Violation struct {
	Rule    string
	Token   token.Token
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s %q: %s", v.Rule, v.Token.Type(), v.Token.Raw(), v.Message)
}

// Verify checks annotated tokens against source, independently of the walk
// that produced their locations:
//
//   - every token has a location within the source;
//   - every point's line and column follow from its offset;
//   - each raw line equals the source it spans;
//   - multi-line tokens carry one Lines entry per raw line;
//   - siblings do not overlap and appear in order;
//   - nested sequences lie within their owner.
func Verify(tokens []token.Token, source string) []Violation {
	v := verifier{source: source, index: NewLineIndex(source)}
	v.sequence(tokens, nil)
	return v.out
}

type verifier struct {
	source string
	index  *LineIndex
	out    []Violation
}

func (v *verifier) report(rule string, tok token.Token, format string, args ...any) {
	v.out = append(v.out, Violation{Rule: rule, Token: tok, Message: fmt.Sprintf(format, args...)})
}

func (v *verifier) sequence(tokens []token.Token, owner *token.Location) {
	var prev *token.Location
	for _, tok := range tokens {
		loc := tok.Location()
		if loc == nil {
			v.report(RuleMissing, tok, "no location")
			continue
		}
		if !v.token(tok, *loc) {
			continue
		}
		if prev != nil && loc.Start.Offset < prev.End.Offset {
			v.report(RuleOrder, tok, "starts at %d before previous sibling ends at %d",
				loc.Start.Offset, prev.End.Offset)
		}
		if owner != nil && !owner.Contains(*loc) {
			v.report(RuleNesting, tok, "span %d-%d outside owner %d-%d",
				loc.Start.Offset, loc.End.Offset, owner.Start.Offset, owner.End.Offset)
		}
		prev = loc

		for _, seq := range token.Nested(tok) {
			v.sequence(seq, loc)
		}
	}
}

// token checks a single location and reports whether it is usable for the
// ordering checks.
func (v *verifier) token(tok token.Token, loc token.Location) bool {
	if loc.Start.Offset < 0 || loc.End.Offset > len(v.source) || loc.Start.Offset > loc.End.Offset {
		v.report(RuleBounds, tok, "span %d-%d outside source of %d bytes",
			loc.Start.Offset, loc.End.Offset, len(v.source))
		return false
	}

	v.point(tok, loc.Start)
	v.point(tok, loc.End)

	rawLines := strings.Split(tok.Raw(), "\n")
	if len(rawLines) == 1 {
		if loc.Lines != nil {
			v.report(RuleLines, tok, "single-line token has %d line entries", len(loc.Lines))
		}
		if got := v.source[loc.Start.Offset:loc.End.Offset]; got != tok.Raw() {
			v.report(RuleContent, tok, "source span is %q", got)
		}
		return true
	}

	if len(loc.Lines) != len(rawLines) {
		v.report(RuleLines, tok, "%d raw lines but %d line entries", len(rawLines), len(loc.Lines))
		return true
	}
	for i, line := range loc.Lines {
		v.point(tok, line.Start)
		v.point(tok, line.End)
		if line.Start.Offset < 0 || line.End.Offset > len(v.source) || line.Start.Offset > line.End.Offset {
			v.report(RuleBounds, tok, "line %d span %d-%d out of range", i, line.Start.Offset, line.End.Offset)
			continue
		}
		if got := v.source[line.Start.Offset:line.End.Offset]; got != rawLines[i] {
			v.report(RuleContent, tok, "line %d source span is %q, raw line is %q", i, got, rawLines[i])
		}
		if i > 0 && line.Start.Line != loc.Lines[i-1].Start.Line+1 {
			v.report(RuleLines, tok, "line %d is not on the line after line %d", i, i-1)
		}
	}
	if loc.Start != loc.Lines[0].Start || loc.End != loc.Lines[len(loc.Lines)-1].End {
		v.report(RuleLines, tok, "start/end do not match first/last line entries")
	}
	return true
}

func (v *verifier) point(tok token.Token, p token.Point) {
	want, ok := v.index.PointAt(p.Offset)
	if !ok {
		v.report(RuleBounds, tok, "offset %d out of range", p.Offset)
		return
	}
	if want != p {
		v.report(RuleDerivable, tok, "point %+v, offset implies %+v", p, want)
	}
}

// Package analysis turns a run's annotated token trees into a Report that
// the output formats render.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gomdpos/pkg/runner"
	"github.com/yaklabco/gomdpos/pkg/token"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" || absPath == runner.StdinPath {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// typeCounter accumulates the per-type breakdown.
type typeCounter struct {
	counts map[string]*TypeAnalysis
	files  map[string]map[string]bool
}

func (c *typeCounter) add(typ, file string) {
	ta, ok := c.counts[typ]
	if !ok {
		ta = &TypeAnalysis{Type: typ}
		c.counts[typ] = ta
		c.files[typ] = map[string]bool{}
	}
	ta.Count++
	if !c.files[typ][file] {
		c.files[typ][file] = true
		ta.Files = append(ta.Files, file)
	}
}

// Analyze builds a Report from a run. It only fails when a filter
// expression errors at evaluation time.
func Analyze(result *runner.Result, opts Options) (*Report, error) {
	report := &Report{
		Files:     []FileReport{},
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report, nil
	}

	counter := &typeCounter{counts: map[string]*TypeAnalysis{}, files: map[string]map[string]bool{}}
	report.Files = make([]FileReport, 0, len(result.Files))

	for _, file := range result.Files {
		fr := FileReport{Path: makeRelativePath(file.Path, opts.WorkingDir)}
		report.Totals.Files++

		if file.Err != nil {
			fr.Error = file.Err.Error()
			report.Totals.FilesFailed++
			report.Files = append(report.Files, fr)
			continue
		}

		for _, v := range file.Violations {
			fr.Violations = append(fr.Violations, v.String())
		}
		report.Totals.Violations += len(file.Violations)
		report.Totals.Tokens += token.Count(file.Tokens)

		nodes, err := selectNodes(file.Tokens, opts.Filter)
		if err != nil {
			return nil, err
		}
		forEachNode(nodes, func(n Node) {
			report.Totals.Reported++
			counter.add(n.Type, fr.Path)
		})
		if opts.IncludeTokens {
			fr.Tokens = nodes
		}

		report.Files = append(report.Files, fr)
	}

	if opts.IncludeByType {
		report.ByType = sortTypes(counter, opts)
	}
	return report, nil
}

// selectNodes returns the token tree, or the flat list of filter matches.
func selectNodes(tokens []token.Token, filter *Filter) ([]Node, error) {
	if filter == nil {
		return tree(tokens, 0), nil
	}

	var out []Node
	err := token.Walk(tokens, func(tok token.Token, depth int) error {
		ok, err := filter.Match(NewEnv(tok, depth))
		if err != nil {
			return err
		}
		if ok {
			out = append(out, newNode(tok, depth))
		}
		return nil
	})
	return out, err
}

func tree(tokens []token.Token, depth int) []Node {
	if len(tokens) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(tokens))
	for _, tok := range tokens {
		n := newNode(tok, depth)
		for _, seq := range token.Nested(tok) {
			n.Children = append(n.Children, tree(seq, depth+1)...)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func newNode(tok token.Token, depth int) Node {
	return Node{
		Type:     tok.Type(),
		Raw:      tok.Raw(),
		Depth:    depth,
		Location: tok.Location(),
		Attrs:    Attrs(tok),
	}
}

// forEachNode visits nodes and their children in document order.
func forEachNode(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		forEachNode(n.Children, fn)
	}
}

func sortTypes(c *typeCounter, opts Options) []TypeAnalysis {
	out := make([]TypeAnalysis, 0, len(c.counts))
	for _, ta := range c.counts {
		out = append(out, *ta)
	}

	slices.SortFunc(out, func(a, b TypeAnalysis) int {
		if opts.SortBy == SortByCount {
			byCount := cmp.Compare(a.Count, b.Count)
			if opts.SortDesc {
				byCount = -byCount
			}
			if byCount != 0 {
				return byCount
			}
		}
		byName := cmp.Compare(a.Type, b.Type)
		if opts.SortBy == SortByAlpha && opts.SortDesc {
			return -byName
		}
		return byName
	})
	return out
}

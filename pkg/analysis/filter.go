package analysis

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Env is what a filter expression sees for each token:
//
//	type == "heading" && start.line < 10
//	lines > 1 && depth == 0
//	type == "code" && attrs.lang == "go"
type Env struct {
	Type  string            `expr:"type"`
	Raw   string            `expr:"raw"`
	Depth int               `expr:"depth"`
	Start PointEnv          `expr:"start"`
	End   PointEnv          `expr:"end"`
	Lines int               `expr:"lines"`
	Attrs map[string]string `expr:"attrs"`
}

// PointEnv is a token.Point as seen by a filter expression.
type PointEnv struct {
	Offset int `expr:"offset"`
	Line   int `expr:"line"`
	Column int `expr:"column"`
}

// Filter is a compiled token filter. A Filter is not safe for concurrent use.
type Filter struct {
	source  string
	program *vm.Program
	vm      vm.VM
}

// CompileFilter compiles a boolean expression over Env. An empty source
// yields a nil Filter, which matches everything.
func CompileFilter(source string) (*Filter, error) {
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source,
		expr.Env(Env{}),
		expr.AsBool(),
		// "type" is a field here, not the builtin.
		expr.DisableBuiltin("type"),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}
	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter against env.
func (f *Filter) Match(env Env) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := f.vm.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// NewEnv builds the filter environment for an annotated token.
func NewEnv(tok token.Token, depth int) Env {
	env := Env{
		Type:  tok.Type(),
		Raw:   tok.Raw(),
		Depth: depth,
		Lines: 1,
		Attrs: Attrs(tok),
	}
	if loc := tok.Location(); loc != nil {
		env.Start = pointEnv(loc.Start)
		env.End = pointEnv(loc.End)
		if len(loc.Lines) > 0 {
			env.Lines = len(loc.Lines)
		}
	}
	if env.Attrs == nil {
		env.Attrs = map[string]string{}
	}
	return env
}

func pointEnv(p token.Point) PointEnv {
	return PointEnv{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

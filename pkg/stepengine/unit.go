package stepengine

import (
	"regexp"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/evalctx"
)

// UnitStepFunc is a domain step implementation, the "unit translator"
// collaborator spec.md §1 describes as the extension point domain step
// libraries hook into: it receives the regex capture groups from the
// pattern it was registered under.
type UnitStepFunc func(ctx *evalctx.EvalContext, step ast.Step, args []string) error

type unitBinding struct {
	pattern *regexp.Regexp
	fn      UnitStepFunc
}

// UnitRegistry is the step engine's fallback translator: a regex-matched
// table of Go step implementations, tried after composite dispatch and
// StepDef lookup both miss (spec.md §4.G stage 4 "unit translator").
type UnitRegistry struct {
	bindings []unitBinding
}

// NewUnitRegistry returns an empty registry.
func NewUnitRegistry() *UnitRegistry {
	return &UnitRegistry{}
}

// Register compiles pattern and associates it with fn. Patterns are tried
// in registration order; the first match wins.
func (r *UnitRegistry) Register(pattern string, fn UnitStepFunc) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.bindings = append(r.bindings, unitBinding{pattern: re, fn: fn})
	return nil
}

// MustRegister is Register, panicking on a malformed pattern — intended
// for registrations fixed at init time.
func (r *UnitRegistry) MustRegister(pattern string, fn UnitStepFunc) {
	if err := r.Register(pattern, fn); err != nil {
		panic(err)
	}
}

func (r *UnitRegistry) lookup(text string) (UnitStepFunc, []string, bool) {
	for _, b := range r.bindings {
		if m := b.pattern.FindStringSubmatch(text); m != nil {
			return b.fn, m[1:], true
		}
	}
	return nil, nil, false
}

package stepengine

import (
	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/binding"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/gerr"
)

// healthCheck runs once, before the first step of a non-StepDef scenario
// (spec.md §4.G stage 3): it rejects a scenario whose visible scope already
// holds a name bound in more than one frame (ambiguous precedence) and, for
// a scenario carrying its own @If precondition tag, rejects one whose named
// binding does not resolve — an "unsatisfied precondition".
func healthCheck(ctx *evalctx.EvalContext, scenario ast.Scenario) error {
	if dup := ctx.Scope.Duplicates(); len(dup) > 0 {
		return gerr.New(gerr.Ambiguous, "duplicate bindings in visible scope: %v", dup)
	}

	if tag, ok := findScenarioTag(scenario, ast.TagIf); ok {
		name, negate := parseNegatable(tag.Value)
		_, err := binding.Resolve(ctx.Scope, name, ctx.Evaluator)
		satisfied := err == nil
		if negate {
			satisfied = !satisfied
		}
		if !satisfied {
			return gerr.New(gerr.UnboundBinding, "scenario %q precondition %q is not satisfied", scenario.Name, tag.Value)
		}
	}
	return nil
}

func findScenarioTag(scenario ast.Scenario, name ast.ReservedTag) (ast.Tag, bool) {
	for _, t := range scenario.Tags {
		if t.Name == string(name) {
			return t, true
		}
	}
	return ast.Tag{}, false
}

package stepengine

import (
	"fmt"
	"strings"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/composite"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/gerr"
)

// translateComposite recognises a reserved control-flow tag (@If, @While,
// @Until, @ForEach) on step itself and produces the matching composite
// lambda, wrapping the step with that tag removed so the wrapped
// evaluation does not re-enter the same composite translation (spec.md
// §4.H). A step with none of these tags is not a composite; ok is false
// and the caller proceeds to StepDef lookup.
//
// Tag value grammar (an interpreter decision recorded in DESIGN.md, the
// spec names the reserved tags but not their value syntax):
//   - @If("name")       — run iff name has a resolvable binding
//   - @If("!name")       — run iff name does NOT resolve (negated)
//   - @While("expr")     — loop while expr (a JS condition) is truthy
//   - @Until("expr")     — loop until expr is truthy, body runs first
//   - @ForEach("item in elementsExpr") — bind item to each element of
//     elementsExpr (itself interpolated, then split on ",")
func (e *Engine) translateComposite(step ast.Step) (Lambda, bool, error) {
	if tag, ok := findTag(step, ast.TagIf); ok {
		name, negate := parseNegatable(tag.Value)
		inner := withoutTag(step, ast.TagIf)
		return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
			return composite.IfDefinedCondition(ctx, inner, name, negate, e)
		}, true, nil
	}

	if tag, ok := findTag(step, ast.TagWhile); ok {
		expr, negate := parseNegatable(tag.Value)
		inner := withoutTag(step, ast.TagWhile)
		return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
			cond := func() (bool, error) { return composite.JSCondition(ctx, expr, negate) }
			results, err := composite.While(ctx, cond, inner, e)
			return aggregateLoop(s, results, err)
		}, true, nil
	}

	if tag, ok := findTag(step, ast.TagUntil); ok {
		expr, negate := parseNegatable(tag.Value)
		inner := withoutTag(step, ast.TagUntil)
		return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
			cond := func() (bool, error) { return composite.JSCondition(ctx, expr, negate) }
			results, err := composite.Until(ctx, cond, inner, e)
			return aggregateLoop(s, results, err)
		}, true, nil
	}

	if tag, ok := findTag(step, ast.TagForEach); ok {
		elementName, elementsExpr, err := parseForEach(tag.Value)
		if err != nil {
			return nil, false, err
		}
		inner := withoutTag(step, ast.TagForEach)
		return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
			elements, err := resolveElements(ctx, elementsExpr)
			if err != nil {
				return s, err
			}
			results, err := composite.ForEach(ctx, elements, elementName, inner, e)
			return aggregateLoop(s, results, err)
		}, true, nil
	}

	return nil, false, nil
}

func findTag(step ast.Step, name ast.ReservedTag) (ast.Tag, bool) {
	for _, t := range step.Tags {
		if t.Name == string(name) {
			return t, true
		}
	}
	return ast.Tag{}, false
}

// withoutTag returns a copy of step with every tag named name removed, so
// the inner re-dispatch does not loop back into the same composite.
func withoutTag(step ast.Step, name ast.ReservedTag) ast.Step {
	kept := make([]ast.Tag, 0, len(step.Tags))
	for _, t := range step.Tags {
		if t.Name != string(name) {
			kept = append(kept, t)
		}
	}
	return step.WithTags(kept)
}

// parseNegatable splits a tag value of the form "!expr" into (expr, true)
// or "expr" into (expr, false).
func parseNegatable(value string) (string, bool) {
	if strings.HasPrefix(value, "!") {
		return strings.TrimSpace(value[1:]), true
	}
	return strings.TrimSpace(value), false
}

// parseForEach splits a "@ForEach(\"item in expr\")" tag value into the
// bound element name and the (still unresolved) elements expression.
func parseForEach(value string) (elementName, elementsExpr string, err error) {
	parts := strings.SplitN(value, " in ", 2)
	if len(parts) != 2 {
		return "", "", gerr.New(gerr.Syntax, "@ForEach value %q must be of the form \"item in elements\"", value)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// resolveElements interpolates elementsExpr (so it may reference ${...} or
// $<...> bindings) and splits the resolved string on commas.
func resolveElements(ctx *evalctx.EvalContext, elementsExpr string) ([]string, error) {
	resolved, err := InterpolateStepText(ctx, ast.NewStep(ast.SourceRef{}, "", elementsExpr))
	if err != nil {
		return nil, err
	}
	parts := strings.Split(resolved, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// aggregateLoop folds a control-flow loop's per-iteration results into a
// single Step: the outer step's status is the non-StepDef aggregate of its
// iterations, and each iteration's outcome is recorded as an attachment
// (the Step model has no dedicated nested-result field, spec.md §4.H
// "synthetic outline-like structure").
func aggregateLoop(step ast.Step, results []ast.Step, err error) (ast.Step, error) {
	if err != nil {
		return step, err
	}
	statuses := make([]ast.Status, len(results))
	for i, r := range results {
		statuses[i] = r.EvalStatus
	}
	out := step.WithStatus(ast.AggregateNonStepDef(statuses))
	for i, r := range results {
		out = out.WithAttachment(ast.Attachment{Name: fmt.Sprintf("iteration[%d]", i+1), File: r.EvalStatus.String()})
	}
	return out, nil
}

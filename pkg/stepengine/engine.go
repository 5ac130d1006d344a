// Package stepengine implements Gwen's seven-stage step pipeline (spec.md
// §4.G): interpolate, before-event, health check, translate, execute,
// finalise, after-event. It owns StepDef dispatch and is the Runner
// pkg/composite's control-flow lambdas call back into for every step they
// reach through a loop or a conditional.
package stepengine

import (
	"fmt"
	"strconv"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/binding"
	"github.com/gwen-io/gwen/pkg/composite"
	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/eventbus"
	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/interpolate"
	"github.com/gwen-io/gwen/pkg/scope"
)

// Lambda is the translate stage's product: something that, given a step
// already past interpolation, produces its evaluated result.
type Lambda func(ctx *evalctx.EvalContext, parent ast.Node, step ast.Step) (ast.Step, error)

// Engine walks Scenarios and their Steps, firing node events and dispatching
// each step through the seven-stage pipeline. It implements
// composite.Runner so While/Until/ForEach/StepDefCall bodies are evaluated
// through the exact same pipeline as a top-level scenario step.
type Engine struct {
	Units *UnitRegistry
}

// New returns an Engine whose unit translator falls back to units.
func New(units *UnitRegistry) *Engine {
	if units == nil {
		units = NewUnitRegistry()
	}
	return &Engine{Units: units}
}

// RunScenario evaluates every step of scenario (background steps included)
// in sequence, running the health check once before the first step, and
// returns scenario with its Steps (and, if present, Background.Steps)
// replaced by their evaluated results.
func (e *Engine) RunScenario(ctx *evalctx.EvalContext, scenario ast.Scenario) (ast.Scenario, error) {
	ctx.BeginSequence()
	defer ctx.EndSequence()

	all := scenario.AllSteps()
	results := make([]ast.Step, len(all))
	bgLen := 0
	if scenario.Background != nil {
		bgLen = len(scenario.Background.Steps)
	}

	for i, step := range all {
		if i == 0 {
			if err := healthCheck(ctx, scenario); err != nil {
				return scenario, err
			}
		}
		result, err := e.RunStep(ctx, scenario, step)
		if err != nil {
			return scenario, err
		}
		results[i] = result
	}

	if scenario.Background != nil {
		bg := *scenario.Background
		bg.Steps = results[:bgLen]
		scenario.Background = &bg
	}
	return scenario.WithSteps(results[bgLen:]), nil
}

// RunStep implements composite.Runner and the per-step pipeline minus the
// scenario-level health check (stage 3), which only ever runs once, at
// RunScenario's first step.
func (e *Engine) RunStep(ctx *evalctx.EvalContext, parent ast.Node, step ast.Step) (ast.Step, error) {
	var callChain []ast.NodeType
	if parent != nil {
		callChain = append(callChain, parent.NodeType())
	}

	// A @ForEach step's own text is interpolated per element by the inner
	// re-dispatch, once the element name is bound.
	if _, forEach := findTag(step, ast.TagForEach); !forEach {
		text, err := InterpolateStepText(ctx, step)
		if err != nil {
			return e.finalise(ctx, step, err), nil
		}
		step = step.WithText(text)
	}

	ctx.Bus.PublishBefore(eventbus.Event{NodeType: ast.NodeStep, Source: step, CallChain: callChain})

	lambda, err := e.translate(ctx, parent, step)
	if err != nil {
		result := e.finalise(ctx, step, err)
		ctx.Bus.PublishAfter(eventbus.Event{NodeType: ast.NodeStep, Source: result, CallChain: callChain})
		return result, nil
	}

	var result ast.Step
	if ctx.SequenceShouldSkip() {
		result = step.WithStatus(ast.Skipped)
	} else {
		evaluated, lambdaErr := lambda(ctx, parent, step)
		if lambdaErr != nil {
			evaluated = step
		}
		result = e.finalise(ctx, evaluated, lambdaErr)
	}

	ctx.Bus.PublishAfter(eventbus.Event{NodeType: ast.NodeStep, Source: result, CallChain: callChain})
	return result, nil
}

// InterpolateStepText runs the step's text through the full interpolate
// pass (params first, then properties — pkg/interpolate already orders it
// that way), property lookups resolving through a declared Binding first
// and falling back to a plain scope value.
func InterpolateStepText(ctx *evalctx.EvalContext, step ast.Step) (string, error) {
	lookup := func(name string) (string, bool) {
		if v, err := binding.Resolve(ctx.Scope, name, ctx.Evaluator); err == nil {
			return v, true
		}
		return ctx.Scope.GetString(name)
	}
	return interpolate.Interpolate(step.Text, lookup, step.Params, ctx.DryRun)
}

// translate attempts, in order, the composite translator, StepDef lookup,
// then the unit translator (spec.md §4.G stage 4).
func (e *Engine) translate(ctx *evalctx.EvalContext, parent ast.Node, step ast.Step) (Lambda, error) {
	if lambda, ok, err := e.translateComposite(step); err != nil {
		return nil, err
	} else if ok {
		return lambda, nil
	}

	if def, ok := ctx.StepDefs.Lookup(step.Text); ok {
		if def.IsForEachDataTable() {
			return e.forEachDataTableLambda(def), nil
		}
		return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
			return composite.StepDefCall(ctx, def, s, e)
		}, nil
	}

	if fn, args, ok := e.Units.lookup(step.Text); ok {
		return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
			if ctx.DryRun {
				return s.WithStatus(ast.Passed), nil
			}
			if err := fn(ctx, s, args); err != nil {
				return s, err
			}
			return s.WithStatus(ast.Passed), nil
		}, nil
	}

	return nil, gerr.New(gerr.UndefinedStep, "no StepDef or unit binding matches %q", step.Text)
}

// forEachDataTableLambda builds the lambda for a StepDef tagged both
// @ForEach and @DataTable(...): the calling step's own Table supplies one
// record per invocation of def's body (spec.md §4.G).
func (e *Engine) forEachDataTableLambda(def ast.StepDef) Lambda {
	return func(ctx *evalctx.EvalContext, parent ast.Node, s ast.Step) (ast.Step, error) {
		if s.Table == nil {
			return s, gerr.New(gerr.DataTable, "StepDef %q is tagged @ForEach+@DataTable but the calling step has no table", def.Name)
		}
		records, err := s.Table.Records()
		if err != nil {
			return s, err
		}

		ctx.BeginSequence()
		defer ctx.EndSequence()

		out := s
		statuses := make([]ast.Status, 0, len(records))
		for i, record := range records {
			ctx.Scope.Push(scope.LevelRecord, "record")
			for col, val := range record {
				ctx.Scope.Set("data["+col+"]", val)
			}
			ctx.Scope.Set("record.number", strconv.Itoa(i+1))
			result, err := composite.StepDefCall(ctx, def, s, e)
			ctx.Scope.Pop()
			if err != nil {
				return s, err
			}
			statuses = append(statuses, result.EvalStatus)
			out = out.WithAttachment(ast.Attachment{Name: fmt.Sprintf("record[%d]", i+1), File: result.EvalStatus.String()})
		}
		return out.WithStatus(ast.AggregateStepDef(statuses)), nil
	}
}

// finalise moves accumulated context attachments onto step, and, when err
// is non-nil (a failure raised directly at this step — interpolation,
// translation, or execution), marks step Failed, attaches a scope dump
// alongside the classified error unless one is already present, and
// promotes Failed to Sustained/Disabled per the failure's kind (spec.md
// §4.G stage 6). A step that already carries an aggregated Failed status
// from a composite/StepDef body (no fresh err here — its children already
// went through their own finalise) only gets the sequence marked failed.
func (e *Engine) finalise(ctx *evalctx.EvalContext, step ast.Step, err error) ast.Step {
	for _, a := range ctx.Attachments {
		step = step.WithAttachment(a)
	}
	ctx.Attachments = nil

	if err == nil {
		if step.EvalStatus == ast.Failed {
			if !hasAttachment(step, "Error details") {
				step = step.WithAttachment(ast.Attachment{Name: "Error details", File: visibleScopeDump(ctx)})
			}
			ctx.MarkSequenceFailed()
		}
		return step
	}

	kind := gerr.KindOf(err)
	step = step.WithStatus(ast.Failed)
	if !hasAttachment(step, "Error details") {
		step = step.WithAttachment(ast.Attachment{
			Name: "Error details",
			File: fmt.Sprintf("[%s] %v\n%s", kind, err, visibleScopeDump(ctx)),
		})
	}

	switch {
	case kind == gerr.Disabled:
		step = step.WithStatus(ast.Disabled)
	case kind.IsSoftAssertion():
		step = step.WithStatus(ast.Sustained)
	}

	if !(kind.IsSoftAssertion() && ctx.AssertionMode() == config.AssertionSoft) {
		ctx.MarkSequenceFailed()
	}
	return step
}

func hasAttachment(step ast.Step, name string) bool {
	for _, a := range step.Attachments {
		if a.Name == name {
			return true
		}
	}
	return false
}

func visibleScopeDump(ctx *evalctx.EvalContext) string {
	visible := ctx.Scope.Visible()
	out := "visible scope:\n"
	for k, v := range visible {
		out += fmt.Sprintf("  %s = %v\n", k, v)
	}
	return out
}

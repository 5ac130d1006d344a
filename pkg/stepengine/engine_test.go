package stepengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/binding"
	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/gerr"
)

func newEngineCtx(t *testing.T, defs []ast.StepDef, settings config.Settings) *evalctx.EvalContext {
	t.Helper()
	return evalctx.New(context.Background(), defs, settings)
}

func TestRunStepDispatchesToUnitTranslator(t *testing.T) {
	units := NewUnitRegistry()
	var got []string
	require.NoError(t, units.Register(`^an order for (\w+)$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		got = args
		return nil
	}))
	e := New(units)
	ctx := newEngineCtx(t, nil, config.DefaultSettings())

	step := ast.NewStep(ast.SourceRef{}, "Given", "an order for widgets")
	result, err := e.RunStep(ctx, nil, step)

	require.NoError(t, err)
	assert.Equal(t, ast.Passed, result.EvalStatus)
	assert.Equal(t, []string{"widgets"}, got)
}

func TestRunStepUndefinedStepFails(t *testing.T) {
	e := New(nil)
	ctx := newEngineCtx(t, nil, config.DefaultSettings())

	step := ast.NewStep(ast.SourceRef{}, "Given", "nothing matches this")
	result, err := e.RunStep(ctx, nil, step)

	require.NoError(t, err)
	assert.Equal(t, ast.Failed, result.EvalStatus)
	found := false
	for _, a := range result.Attachments {
		if a.Name == "Error details" {
			found = true
			assert.Contains(t, a.File, string(gerr.UndefinedStep))
		}
	}
	assert.True(t, found)
}

func TestRunScenarioDispatchesStepDefAndAggregates(t *testing.T) {
	units := NewUnitRegistry()
	require.NoError(t, units.Register(`^step one$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error { return nil }))
	require.NoError(t, units.Register(`^step two$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error { return nil }))
	e := New(units)

	def := ast.NewStepDef(ast.SourceRef{}, "do both steps", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "Given", "step one"),
		ast.NewStep(ast.SourceRef{}, "And", "step two"),
	})
	ctx := newEngineCtx(t, []ast.StepDef{def}, config.DefaultSettings())

	scenario := ast.NewScenario(ast.SourceRef{}, "Scenario", "calls a stepdef", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "When", "do both steps"),
	})

	result, err := e.RunScenario(ctx, scenario)
	require.NoError(t, err)
	assert.Equal(t, ast.Passed, result.EvalStatus())
}

func TestRunScenarioDetectsRecursiveStepDef(t *testing.T) {
	e := New(nil)
	def := ast.NewStepDef(ast.SourceRef{}, "loopy", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "Given", "loopy"),
	})
	ctx := newEngineCtx(t, []ast.StepDef{def}, config.DefaultSettings())

	scenario := ast.NewScenario(ast.SourceRef{}, "Scenario", "self-recursive stepdef", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "When", "loopy"),
	})

	result, err := e.RunScenario(ctx, scenario)
	require.NoError(t, err)
	assert.Equal(t, ast.Failed, result.EvalStatus())
}

func TestHardFailureSkipsSubsequentSiblingSteps(t *testing.T) {
	units := NewUnitRegistry()
	require.NoError(t, units.Register(`^boom$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		return gerr.New(gerr.Internal, "boom")
	}))
	require.NoError(t, units.Register(`^never reached$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error { return nil }))
	e := New(units)
	ctx := newEngineCtx(t, nil, config.DefaultSettings())

	scenario := ast.NewScenario(ast.SourceRef{}, "Scenario", "hard failure stops siblings", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "Given", "boom"),
		ast.NewStep(ast.SourceRef{}, "And", "never reached"),
	})

	result, err := e.RunScenario(ctx, scenario)
	require.NoError(t, err)
	assert.Equal(t, ast.Failed, result.Steps[0].EvalStatus)
	assert.Equal(t, ast.Skipped, result.Steps[1].EvalStatus)
}

func TestSoftAssertionModeContinuesSiblings(t *testing.T) {
	units := NewUnitRegistry()
	require.NoError(t, units.Register(`^soft fail$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		return gerr.New(gerr.AssertionSoft, "soft assertion failed")
	}))
	require.NoError(t, units.Register(`^still runs$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error { return nil }))
	e := New(units)
	settings := config.DefaultSettings()
	settings.AssertionMode = config.AssertionSoft
	ctx := newEngineCtx(t, nil, settings)

	scenario := ast.NewScenario(ast.SourceRef{}, "Scenario", "soft mode continues", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "Given", "soft fail"),
		ast.NewStep(ast.SourceRef{}, "And", "still runs"),
	})

	result, err := e.RunScenario(ctx, scenario)
	require.NoError(t, err)
	assert.Equal(t, ast.Sustained, result.Steps[0].EvalStatus)
	assert.Equal(t, ast.Passed, result.Steps[1].EvalStatus)
}

func TestHardAssertionModeStopsEvenOnSoftAssertion(t *testing.T) {
	units := NewUnitRegistry()
	require.NoError(t, units.Register(`^soft fail$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		return gerr.New(gerr.AssertionSoft, "soft assertion failed")
	}))
	require.NoError(t, units.Register(`^never reached$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error { return nil }))
	e := New(units)
	settings := config.DefaultSettings()
	settings.AssertionMode = config.AssertionHard
	ctx := newEngineCtx(t, nil, settings)

	scenario := ast.NewScenario(ast.SourceRef{}, "Scenario", "hard mode halts on soft assertion too", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "Given", "soft fail"),
		ast.NewStep(ast.SourceRef{}, "And", "never reached"),
	})

	result, err := e.RunScenario(ctx, scenario)
	require.NoError(t, err)
	assert.Equal(t, ast.Sustained, result.Steps[0].EvalStatus)
	assert.Equal(t, ast.Skipped, result.Steps[1].EvalStatus)
}

func TestIfTagAbstainsWhenBindingMissing(t *testing.T) {
	units := NewUnitRegistry()
	called := false
	require.NoError(t, units.Register(`^conditional action$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		called = true
		return nil
	}))
	e := New(units)
	ctx := newEngineCtx(t, nil, config.DefaultSettings())

	step := ast.NewStep(ast.SourceRef{}, "When", "conditional action").
		WithTags([]ast.Tag{ast.NewTagWithValue(ast.SourceRef{}, string(ast.TagIf), "some.flag")})

	result, err := e.RunStep(ctx, nil, step)
	require.NoError(t, err)
	assert.Equal(t, ast.Passed, result.EvalStatus)
	assert.False(t, called)
}

func TestIfTagRunsWhenBindingPresent(t *testing.T) {
	units := NewUnitRegistry()
	called := false
	require.NoError(t, units.Register(`^conditional action$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		called = true
		return nil
	}))
	e := New(units)
	ctx := newEngineCtx(t, nil, config.DefaultSettings())
	binding.DeclareValue(ctx.Scope, "some.flag", "yes")

	step := ast.NewStep(ast.SourceRef{}, "When", "conditional action").
		WithTags([]ast.Tag{ast.NewTagWithValue(ast.SourceRef{}, string(ast.TagIf), "some.flag")})

	result, err := e.RunStep(ctx, nil, step)
	require.NoError(t, err)
	assert.Equal(t, ast.Passed, result.EvalStatus)
	assert.True(t, called)
}

func TestForEachTagRunsOncePerElement(t *testing.T) {
	units := NewUnitRegistry()
	var seen []string
	require.NoError(t, units.Register(`^handle (\w+)$`, func(ctx *evalctx.EvalContext, step ast.Step, args []string) error {
		seen = append(seen, args[0])
		return nil
	}))
	e := New(units)
	ctx := newEngineCtx(t, nil, config.DefaultSettings())
	binding.DeclareValue(ctx.Scope, "items", "a,b,c")

	step := ast.NewStep(ast.SourceRef{}, "When", "handle ${item}").
		WithTags([]ast.Tag{ast.NewTagWithValue(ast.SourceRef{}, string(ast.TagForEach), "item in ${items}")})

	result, err := e.RunStep(ctx, nil, step)
	require.NoError(t, err)
	assert.Equal(t, ast.Passed, result.EvalStatus)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestHealthCheckRejectsDuplicateBindings(t *testing.T) {
	e := New(NewUnitRegistry())
	ctx := newEngineCtx(t, nil, config.DefaultSettings())
	ctx.Scope.Set("dup", "outer")
	ctx.Scope.Push(ctx.Scope.CurrentLevel(), "x")

	scenario := ast.NewScenario(ast.SourceRef{}, "Scenario", "dup-checked", []ast.Step{
		ast.NewStep(ast.SourceRef{}, "Given", "anything"),
	})

	// Force a duplicate across frames by pushing a second frame that shadows
	// the same name, mirroring what a StepDef call leaves behind if not
	// popped cleanly.
	ctx.Scope.Set("dup", "inner")

	_, err := e.RunScenario(ctx, scenario)
	require.Error(t, err)
	assert.Equal(t, gerr.Ambiguous, gerr.KindOf(err))
}

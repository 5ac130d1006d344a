// Package composite implements Gwen's composite lambdas (spec.md §4.H):
// StepDefCall, IfDefinedCondition, JSCondition, While/Until, ForEach, and
// ForEachTableRecord. None of these evaluate a step directly — each calls
// back into a Runner (the step engine, pkg/stepengine) so a step reached
// through a loop or a conditional still gets the same before/after events,
// health check, and finalisation as any other step (Design Note "plain
// synchronous control flow for for-each/while/until").
package composite

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/binding"
	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/scope"
)

// Runner evaluates one Step end-to-end and returns its finalised result.
// Implemented by pkg/stepengine.Engine; composite lambdas are given a
// Runner rather than importing the engine package directly, avoiding an
// import cycle (the engine is what dispatches *to* composites).
type Runner interface {
	RunStep(ctx *evalctx.EvalContext, parent ast.Node, step ast.Step) (ast.Step, error)
}

// synchronizedMutexes holds one named mutex per @Synchronized StepDef name,
// resolving Open Question 1 (DESIGN.md): serialise that StepDef's calls
// across workers without serialising the rest of the unit.
var (
	syncMu       sync.Mutex
	synchronized = map[string]*sync.Mutex{}
)

func synchronizedLock(name string) func() {
	syncMu.Lock()
	m, ok := synchronized[name]
	if !ok {
		m = &sync.Mutex{}
		synchronized[name] = m
	}
	syncMu.Unlock()

	m.Lock()
	return m.Unlock
}

// StepDefCall binds def's params in a fresh stepDef scope, guards against
// RecursiveStepDef via ctx.CallStack, runs def.Steps through runner, and
// reports callStep's status as the aggregated status of the body (spec.md
// §4.H). A @Synchronized/@Synchronised StepDef additionally holds a
// name-keyed mutex for the duration of the call.
func StepDefCall(ctx *evalctx.EvalContext, def ast.StepDef, callStep ast.Step, runner Runner) (ast.Step, error) {
	if def.IsSynchronized() {
		unlock := synchronizedLock(def.Name)
		defer unlock()
	}

	if err := ctx.CallStack.Enter(def.Name); err != nil {
		return callStep, err
	}
	defer ctx.CallStack.Exit()

	args := make(map[string]string, len(def.Params))
	ctx.Scope.Push(scope.LevelStepDef, def.Name)
	defer ctx.Scope.Pop()
	for _, p := range def.Params {
		if v, ok := callStep.Params[p]; ok {
			ctx.Scope.Set(p, v)
			args[p] = v
		}
	}

	ctx.BeginSequence()
	defer ctx.EndSequence()

	statuses := make([]ast.Status, len(def.Steps))
	for i, step := range def.Steps {
		result, err := runner.RunStep(ctx, def, step.WithParams(args))
		if err != nil {
			return callStep, err
		}
		statuses[i] = result.EvalStatus
	}

	return callStep.WithStatus(ast.AggregateStepDef(statuses)), nil
}

// IfDefinedCondition runs doStep via runner iff name has a binding that
// resolves without error (or fails to resolve, when negate is set);
// otherwise it abstains, reporting Passed without ever invoking runner
// (spec.md §4.H "yields Passed(0, abstained=true)" — abstention is recorded
// as an attachment since the Step model has no dedicated flag for it).
func IfDefinedCondition(ctx *evalctx.EvalContext, doStep ast.Step, name string, negate bool, runner Runner) (ast.Step, error) {
	_, err := binding.Resolve(ctx.Scope, name, ctx.Evaluator)
	satisfied := err == nil
	if negate {
		satisfied = !satisfied
	}

	if !satisfied {
		return doStep.
			WithStatus(ast.Passed).
			WithAttachment(ast.Attachment{Name: "abstained", File: ""}), nil
	}
	return runner.RunStep(ctx, nil, doStep)
}

// JSCondition evaluates expression via ctx.Evaluator and interprets the
// result as a boolean, negating it when negate is set. Used by While/Until.
func JSCondition(ctx *evalctx.EvalContext, expression string, negate bool) (bool, error) {
	result, err := ctx.Evaluator.Eval(expression, visibleStrings(ctx.Scope))
	if err != nil {
		return false, gerr.Wrap(gerr.JSExecution, err, "condition %q failed", expression)
	}
	truthy, err := strconv.ParseBool(strings.TrimSpace(result))
	if err != nil {
		return false, gerr.New(gerr.JSExecution, "condition %q produced non-boolean result %q", expression, result)
	}
	if negate {
		return !truthy, nil
	}
	return truthy, nil
}

// visibleStrings narrows a scope's visible bindings to the string-valued
// ones an expr-lang condition can reference by name.
func visibleStrings(env *scope.Environment) map[string]string {
	out := make(map[string]string)
	for k, v := range env.Visible() {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// loopBound returns the effective iteration cap and inter-iteration delay,
// falling back to config defaults when unset.
func loopBound(ctx *evalctx.EvalContext) (int, time.Duration) {
	max := ctx.Settings.MaxIterations
	if max <= 0 {
		max = config.DefaultSettings().MaxIterations
	}
	return max, ctx.Settings.IterationDelay
}

// While tests cond before every iteration (spec.md §4.H "While tests first")
// and runs doStep through runner for as long as cond holds, up to the
// configured iteration bound.
func While(ctx *evalctx.EvalContext, cond func() (bool, error), doStep ast.Step, runner Runner) ([]ast.Step, error) {
	max, delay := loopBound(ctx)
	ctx.BeginSequence()
	defer ctx.EndSequence()
	var results []ast.Step
	for i := 0; i < max; i++ {
		ok, err := cond()
		if err != nil {
			return results, err
		}
		if !ok {
			break
		}
		result, err := runIteration(ctx, doStep, runner, i, delay)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Until runs doStep first, then tests cond, repeating until cond holds or
// the iteration bound is reached (spec.md §4.H "Until runs body first then
// tests").
func Until(ctx *evalctx.EvalContext, cond func() (bool, error), doStep ast.Step, runner Runner) ([]ast.Step, error) {
	max, delay := loopBound(ctx)
	ctx.BeginSequence()
	defer ctx.EndSequence()
	var results []ast.Step
	for i := 0; i < max; i++ {
		result, err := runIteration(ctx, doStep, runner, i, delay)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		ok, err := cond()
		if err != nil {
			return results, err
		}
		if ok {
			break
		}
	}
	return results, nil
}

func runIteration(ctx *evalctx.EvalContext, doStep ast.Step, runner Runner, index int, delay time.Duration) (ast.Step, error) {
	ctx.Scope.Push(scope.LevelRecord, "iteration")
	ctx.Scope.Set("iteration.number", strconv.Itoa(index+1))
	result, err := runner.RunStep(ctx, nil, doStep)
	ctx.Scope.Pop()
	if err != nil {
		return result, err
	}
	if delay > 0 && index > 0 {
		time.Sleep(delay)
	}
	return result, nil
}

// ForEach binds elementName to each value in elements in turn and runs
// doStep through runner, collecting one Step result per element — the
// synthetic outline-like structure spec.md §4.H describes.
func ForEach(ctx *evalctx.EvalContext, elements []string, elementName string, doStep ast.Step, runner Runner) ([]ast.Step, error) {
	ctx.BeginSequence()
	defer ctx.EndSequence()
	results := make([]ast.Step, 0, len(elements))
	for _, value := range elements {
		ctx.Scope.Push(scope.LevelRecord, elementName)
		ctx.Scope.Set(elementName, value)
		result, err := runner.RunStep(ctx, nil, doStep)
		ctx.Scope.Pop()
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ForEachTableRecord specialises ForEach over a DataTable: for each record,
// binds data[col] per column plus record.number, then runs doStep through
// runner (spec.md §4.H).
func ForEachTableRecord(ctx *evalctx.EvalContext, table ast.Table, doStep ast.Step, runner Runner) ([]ast.Step, error) {
	records, err := table.Records()
	if err != nil {
		return nil, err
	}

	ctx.BeginSequence()
	defer ctx.EndSequence()
	results := make([]ast.Step, 0, len(records))
	for i, record := range records {
		ctx.Scope.Push(scope.LevelRecord, "record")
		for col, val := range record {
			ctx.Scope.Set("data["+col+"]", val)
		}
		ctx.Scope.Set("record.number", strconv.Itoa(i+1))
		result, err := runner.RunStep(ctx, nil, doStep)
		ctx.Scope.Pop()
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

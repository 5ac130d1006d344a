// Package evalctx bundles everything one worker needs to evaluate one
// FeatureUnit: a scope.Environment, the resolved StepDef library, the
// node-event bus, accumulated attachments, and the process-wide Settings
// (spec.md §3 "Lifecycle / ownership", §5 "Shared-resource discipline").
// Exactly one goroutine owns an EvalContext at a time; it is never shared.
package evalctx

import (
	"context"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/binding"
	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/eventbus"
	"github.com/gwen-io/gwen/pkg/scope"
	"github.com/gwen-io/gwen/pkg/stepdefs"
)

// EvalContext is the per-unit evaluation handle threaded through the step
// engine.
type EvalContext struct {
	GoCtx       context.Context
	Scope       *scope.Environment
	StepDefs    *stepdefs.Library
	CallStack   *stepdefs.CallStack
	Bus         *eventbus.Bus
	Evaluator   binding.Evaluator
	Settings    config.Settings
	DryRun      bool
	Attachments []ast.Attachment

	sequenceFailed []bool
}

// New constructs a fresh EvalContext for one FeatureUnit.
func New(goCtx context.Context, defs []ast.StepDef, settings config.Settings) *EvalContext {
	return &EvalContext{
		GoCtx:     goCtx,
		Scope:     scope.New(),
		StepDefs:  stepdefs.New(defs),
		CallStack: stepdefs.NewCallStack(),
		Bus:       eventbus.New(),
		Evaluator: binding.NewExprEvaluator(),
		Settings:  settings,
		DryRun:    settings.DryRun,
	}
}

// ForUnit returns a shallow copy of ec suitable for reuse across units in
// REPL mode: the StepDefs library, event bus, and evaluator are shared
// (load-once-per-shared-context, spec.md §5), but Scope and Attachments are
// fresh so one unit's bindings never leak into the next.
func (ec *EvalContext) ForUnit(goCtx context.Context) *EvalContext {
	next := *ec
	next.GoCtx = goCtx
	next.Scope = scope.New()
	next.CallStack = stepdefs.NewCallStack()
	next.Attachments = nil
	return &next
}

// Reset discards scopes above the configured state level and clears
// accumulated attachments, the per-unit reuse behaviour spec.md §5
// describes for a shared (REPL) EvalContext between units.
func (ec *EvalContext) Reset() {
	ec.Scope.Reset(ec.Settings.StateLevel)
	ec.Attachments = nil
}

// AddAttachment appends a to the unit's accumulated attachments.
func (ec *EvalContext) AddAttachment(a ast.Attachment) {
	ec.Attachments = append(ec.Attachments, a)
}

// BeginSequence starts a new sibling-step sequence (a Scenario's steps, a
// called StepDef's body, one control-flow loop): the step engine's "skip
// further steps after a failure" rule (spec.md §4.G) is scoped to the
// innermost open sequence, so nesting (e.g. a StepDef called mid-scenario)
// isolates a failure inside the call from the caller's own sequence.
func (ec *EvalContext) BeginSequence() {
	ec.sequenceFailed = append(ec.sequenceFailed, false)
}

// EndSequence closes the innermost sequence opened by BeginSequence.
func (ec *EvalContext) EndSequence() {
	ec.sequenceFailed = ec.sequenceFailed[:len(ec.sequenceFailed)-1]
}

// SequenceShouldSkip reports whether the innermost open sequence has
// already recorded a failure that should stop further sibling steps from
// executing.
func (ec *EvalContext) SequenceShouldSkip() bool {
	if len(ec.sequenceFailed) == 0 {
		return false
	}
	return ec.sequenceFailed[len(ec.sequenceFailed)-1]
}

// MarkSequenceFailed flags the innermost open sequence so subsequent
// siblings are skipped rather than executed.
func (ec *EvalContext) MarkSequenceFailed() {
	if len(ec.sequenceFailed) > 0 {
		ec.sequenceFailed[len(ec.sequenceFailed)-1] = true
	}
}

// AssertionMode returns the effective assertion mode, honouring a
// per-goroutine override if one was set via config.WithOverride on GoCtx.
func (ec *EvalContext) AssertionMode() config.AssertionMode {
	return config.FromContext(ec.GoCtx, ec.Settings).AssertionMode
}

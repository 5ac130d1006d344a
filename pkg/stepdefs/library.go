// Package stepdefs holds the resolved StepDef library for one evaluation
// (spec.md §4.E/§4.G): exact-match lookup by name after interpolation, and
// the call-stack recursion guard that turns a StepDef calling itself with
// no new arguments into RecursiveStepDef rather than an infinite loop.
package stepdefs

import (
	"sync"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/cache"
	"github.com/gwen-io/gwen/pkg/gerr"
)

// Library is a read-only-after-load table of StepDefs, keyed by name and
// backed by pkg/cache's TTL store (TTL unused here — it is the store's
// sync.Map-backed concurrent lookup that is reused, not its expiry).
// Loaded once per shared context (REPL) or per unit (batch) per spec.md §5.
type Library struct {
	store cache.Cache
	size  int
}

// New builds a Library from a resolved StepDef set (typically
// ast.Spec.StepDefs(), already parent-before-child deduplicated by
// pkg/ast.MergeMeta).
func New(defs []ast.StepDef) *Library {
	store := cache.New(0, nil)
	for _, d := range defs {
		store.Set(d.Name, d)
	}
	return &Library{store: store, size: len(defs)}
}

// Lookup returns the StepDef whose name exactly matches text (spec.md §4.G:
// "exact match, after interpolation").
func (l *Library) Lookup(text string) (ast.StepDef, bool) {
	v, ok := l.store.Get(text)
	if !ok {
		return ast.StepDef{}, false
	}
	return v.(ast.StepDef), true
}

// Len reports how many StepDefs the library holds.
func (l *Library) Len() int { return l.size }

// CallStack tracks, per goroutine-owned EvalContext, which StepDef names
// are currently being evaluated, so a StepDef invoking itself (directly or
// through others, whatever its arguments) is rejected as RecursiveStepDef
// rather than recursing forever (spec.md §4.G, §8 S5).
type CallStack struct {
	mu     sync.Mutex
	frames []string
}

// NewCallStack returns an empty call stack.
func NewCallStack() *CallStack {
	return &CallStack{}
}

// Enter pushes name onto the stack, returning an error if name is already
// present — a StepDef re-entered while it is still being evaluated.
func (c *CallStack) Enter(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.frames {
		if f == name {
			return gerr.New(gerr.RecursiveStepDef, "StepDef %q invoked recursively with no new arguments", name)
		}
	}
	c.frames = append(c.frames, name)
	return nil
}

// Exit pops the most recently entered frame. Callers defer Exit immediately
// after a successful Enter.
func (c *CallStack) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) > 0 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

// Depth reports the current call-stack depth.
func (c *CallStack) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

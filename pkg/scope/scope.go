// Package scope implements Gwen's layered Scope/Environment: a stack of
// named key/value scopes with innermost-first visibility, built on the
// generic TTL store in pkg/cache.
package scope

import (
	"fmt"

	"github.com/gwen-io/gwen/pkg/cache"
	"github.com/gwen-io/gwen/pkg/config"
)

// Level names the stack positions a scope can live at, in outermost-first
// order. The record scope is pushed and popped around a single for-each
// or loop iteration and never appears in this fixed list.
type Level string

const (
	LevelTop      Level = "top"
	LevelFeature  Level = "feature"
	LevelRule     Level = "rule"
	LevelScenario Level = "scenario"
	LevelStepDef  Level = "stepDef"
	LevelRecord   Level = "record"
)

// frame is one named layer of the stack.
type frame struct {
	level Level
	name  string
	store cache.Cache
}

// Environment is a stack of named scopes. The zero value is not usable;
// construct with New. Not safe for concurrent use by multiple goroutines —
// callers hold one Environment per worker (see pkg/evalctx).
type Environment struct {
	frames []*frame
}

// New returns an Environment with a single top scope.
func New() *Environment {
	e := &Environment{}
	e.frames = append(e.frames, &frame{level: LevelTop, name: string(LevelTop), store: cache.New(0, nil)})
	return e
}

// Push adds a new named scope on top of the stack. name disambiguates
// sibling scopes at the same level (e.g. the scenario's display name); it is
// purely diagnostic and plays no role in lookup.
func (e *Environment) Push(level Level, name string) {
	e.frames = append(e.frames, &frame{level: level, name: name, store: cache.New(0, nil)})
}

// Pop discards the topmost scope. Popping the top scope is a programming
// error and panics, mirroring the invariant that top always exists.
func (e *Environment) Pop() {
	if len(e.frames) <= 1 {
		panic("scope: cannot pop the top scope")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// Set writes name/value into the current (topmost) scope.
func (e *Environment) Set(name string, value interface{}) {
	e.current().store.Set(name, value)
}

// Get returns the innermost binding for name, searching from the topmost
// scope down to top. ok is false if no scope in the stack holds name.
func (e *Environment) Get(name string) (interface{}, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i].store.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// GetOpt is Get with a default value substituted on miss.
func (e *Environment) GetOpt(name string, def interface{}) interface{} {
	if v, ok := e.Get(name); ok {
		return v
	}
	return def
}

// GetString is a convenience wrapper over Get for the common string case.
func (e *Environment) GetString(name string) (string, bool) {
	v, ok := e.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Clear removes name from the current (topmost) scope only; bindings in
// outer scopes are left untouched and become visible again if they exist.
func (e *Environment) Clear(name string) {
	e.current().store.Delete(name)
}

// Visible returns a flattened view of every name currently reachable,
// innermost bindings shadowing outer ones of the same name.
func (e *Environment) Visible() map[string]interface{} {
	out := make(map[string]interface{})
	for _, f := range e.frames {
		f.store.Range(func(k string, v interface{}) bool {
			out[k] = v
			return true
		})
	}
	return out
}

// Duplicates returns every name bound in more than one frame of the stack,
// the "duplicate bindings" the step engine's health check rejects before
// the first step of a scenario runs (spec.md §4.G).
func (e *Environment) Duplicates() []string {
	counts := make(map[string]int)
	for _, f := range e.frames {
		f.store.Range(func(k string, _ interface{}) bool {
			counts[k]++
			return true
		})
	}
	var dup []string
	for name, n := range counts {
		if n > 1 {
			dup = append(dup, name)
		}
	}
	return dup
}

// ContainsScope reports whether a scope with the given level is present
// anywhere in the stack (e.g. to check a rule scope exists before a
// Rule-less Feature pushes steps directly under Scenario).
func (e *Environment) ContainsScope(level Level) bool {
	for _, f := range e.frames {
		if f.level == level {
			return true
		}
	}
	return false
}

// Depth returns the number of scopes currently on the stack, top included.
func (e *Environment) Depth() int {
	return len(e.frames)
}

// CurrentLevel returns the level of the topmost scope.
func (e *Environment) CurrentLevel() Level {
	return e.current().level
}

func (e *Environment) current() *frame {
	return e.frames[len(e.frames)-1]
}

// Reset discards every scope above the one named by level, per the
// gwen.state.level setting (config.StateLevel): a StateLevelFeature reset
// keeps top+feature and drops everything pushed afterwards; a
// StateLevelStepDef reset keeps everything down to (and including) the
// innermost stepDef scope.
func (e *Environment) Reset(level config.StateLevel) {
	keep := levelFor(level)
	cut := len(e.frames)
	for cut > 1 && !atOrAbove(e.frames[cut-1].level, keep) {
		cut--
	}
	e.frames = e.frames[:cut]
}

func levelFor(sl config.StateLevel) Level {
	switch sl {
	case config.StateLevelFeature:
		return LevelFeature
	case config.StateLevelScenario:
		return LevelScenario
	case config.StateLevelStepDef:
		return LevelStepDef
	default:
		return LevelFeature
	}
}

// rank orders levels outermost (top) to innermost (record) so Reset can tell
// whether a frame sits at-or-above the configured keep level.
var rank = map[Level]int{
	LevelTop:      0,
	LevelFeature:  1,
	LevelRule:     2,
	LevelScenario: 3,
	LevelStepDef:  4,
	LevelRecord:   5,
}

func atOrAbove(l, keep Level) bool {
	return rank[l] <= rank[keep]
}

// String renders a frame for diagnostics, e.g. in a panic message or log
// field describing the current scope stack.
func (f *frame) String() string {
	return fmt.Sprintf("%s(%s)", f.level, f.name)
}

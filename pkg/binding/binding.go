// Package binding implements Gwen's six binding kinds (spec.md §4.E): Value,
// JS, JSFunction, File, Sysproc, and LoadStrategy. A binding is declared by
// persisting a small, deterministic set of keys into a scope.Environment;
// resolving it later reads those keys back and delegates to the right
// backend.
package binding

import "github.com/gwen-io/gwen/pkg/scope"

// Kind is the closed set of binding backends.
type Kind string

const (
	KindValue        Kind = "Value"
	KindJS           Kind = "JS"
	KindJSFunction   Kind = "JSFunction"
	KindFile         Kind = "File"
	KindSysproc      Kind = "Sysproc"
	KindLoadStrategy Kind = "LoadStrategy"
)

// LoadStrategy is how a LoadStrategy-wrapped binding caches its result.
type LoadStrategy string

const (
	LoadEager     LoadStrategy = "eager"
	LoadLazy      LoadStrategy = "lazy"
	LoadLazyFresh LoadStrategy = "lazyFresh"
)

// scope key suffixes, deterministic per binding name (spec.md §4.E).
const (
	keyKind         = "/kind"
	keyValue        = "/value"
	keyExpression   = "/expression"
	keyFunctionRef  = "/function/jsRef"
	keyArgs         = "/args"
	keyDelimiter    = "/delimiter"
	keyFile         = "/file"
	keySysprocCmd   = "/sysproc/command"
	keySysprocArgs  = "/sysproc/args"
	keyLoadStrategy = "/load/strategy"
	keyLoadTarget   = "/load/target"
	keyCache        = "/cache"
)

// Binding resolves a declared name to its string value.
type Binding interface {
	Kind() Kind
	Name() string
	Resolve(env *scope.Environment, ev Evaluator) (string, error)
}

// Evaluator runs a JS (expr-lang) expression against a set of named
// arguments and returns its string result. Supplied by the caller (the
// EvalContext of pkg/evalctx) so this package stays decoupled from any one
// expression engine implementation.
type Evaluator interface {
	Eval(expression string, args map[string]string) (string, error)
}

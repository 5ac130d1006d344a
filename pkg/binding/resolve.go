package binding

import (
	"os"
	"strings"

	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/scope"
)

// Resolve reads name's persisted kind key and dispatches to the matching
// backend, composing arguments (splitting args by delimiter when present)
// the way spec.md §4.E describes. A LoadStrategy binding is resolved once
// and, unless its strategy is lazyFresh, cached under name's cache key so a
// repeated Resolve is a no-op read.
func Resolve(env *scope.Environment, name string, ev Evaluator) (string, error) {
	kindStr, ok := env.GetString(name + keyKind)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "no binding declared for %q", name)
	}

	switch Kind(kindStr) {
	case KindValue:
		return resolveValue(env, name)
	case KindJS:
		return resolveJS(env, name, ev)
	case KindJSFunction:
		return resolveJSFunction(env, name, ev)
	case KindFile:
		return resolveFile(env, name)
	case KindSysproc:
		return resolveSysproc(env, name)
	case KindLoadStrategy:
		return resolveLoadStrategy(env, name, ev)
	default:
		return "", gerr.New(gerr.UnboundBinding, "binding %q has unknown kind %q", name, kindStr)
	}
}

// BindIfLazy is a no-op unless name is declared as a LoadStrategy binding
// with strategy lazy/lazyFresh, in which case it eagerly triggers (and, for
// lazy, caches) the first resolve — the spec's "lazy-load bindings cache
// results on first resolve" behaviour exposed as an explicit pre-step.
func BindIfLazy(env *scope.Environment, name string, ev Evaluator) error {
	kindStr, ok := env.GetString(name + keyKind)
	if !ok || Kind(kindStr) != KindLoadStrategy {
		return nil
	}
	strategy, _ := env.GetString(name + keyLoadStrategy)
	if LoadStrategy(strategy) == LoadEager {
		return nil
	}
	_, err := resolveLoadStrategy(env, name, ev)
	return err
}

func resolveValue(env *scope.Environment, name string) (string, error) {
	v, ok := env.GetString(name + keyValue)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "value binding %q has no /value", name)
	}
	return v, nil
}

func resolveFile(env *scope.Environment, name string) (string, error) {
	path, ok := env.GetString(name + keyFile)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "file binding %q has no /file", name)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", gerr.Wrap(gerr.IO, err, "file binding %q: failed to read %s", name, path)
	}
	return string(content), nil
}

func resolveJS(env *scope.Environment, name string, ev Evaluator) (string, error) {
	expression, ok := env.GetString(name + keyExpression)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "JS binding %q has no /expression", name)
	}
	args, err := composeArgs(env, name)
	if err != nil {
		return "", err
	}
	if ev == nil {
		return "", gerr.New(gerr.JSExecution, "JS binding %q: no evaluator configured", name)
	}
	result, err := ev.Eval(expression, args)
	if err != nil {
		return "", gerr.Wrap(gerr.JSExecution, err, "JS binding %q failed", name)
	}
	return result, nil
}

func resolveJSFunction(env *scope.Environment, name string, ev Evaluator) (string, error) {
	jsRef, ok := env.GetString(name + keyFunctionRef)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "JSFunction binding %q has no /function/jsRef", name)
	}
	args, err := composeArgs(env, name)
	if err != nil {
		return "", err
	}
	refExpression, ok := env.GetString(jsRef + keyExpression)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "JSFunction binding %q refers to undeclared JS binding %q", name, jsRef)
	}
	if ev == nil {
		return "", gerr.New(gerr.JSExecution, "JSFunction binding %q: no evaluator configured", name)
	}
	result, err := ev.Eval(refExpression, args)
	if err != nil {
		return "", gerr.Wrap(gerr.JSExecution, err, "JSFunction binding %q (ref %q) failed", name, jsRef)
	}
	return result, nil
}

func resolveLoadStrategy(env *scope.Environment, name string, ev Evaluator) (string, error) {
	strategy, _ := env.GetString(name + keyLoadStrategy)
	if LoadStrategy(strategy) != LoadLazyFresh {
		if cached, ok := env.GetString(name + keyCache); ok {
			return cached, nil
		}
	}
	target, ok := env.GetString(name + keyLoadTarget)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "LoadStrategy binding %q has no /load/target", name)
	}
	value, err := Resolve(env, target, ev)
	if err != nil {
		return "", err
	}
	if LoadStrategy(strategy) != LoadLazyFresh {
		env.Set(name+keyCache, value)
	}
	return value, nil
}

// composeArgs splits name's /args by its /delimiter (default ",") into a
// name->value map, each argument value itself a name resolved from env, so
// an expression like "a+b" can reference scope-bound arguments named a, b.
func composeArgs(env *scope.Environment, name string) (map[string]string, error) {
	raw, ok := env.GetString(name + keyArgs)
	if !ok || raw == "" {
		return nil, nil
	}
	delimiter, ok := env.GetString(name + keyDelimiter)
	if !ok || delimiter == "" {
		delimiter = ","
	}
	argNames := strings.Split(raw, delimiter)
	out := make(map[string]string, len(argNames))
	for i, argName := range argNames {
		argName = strings.TrimSpace(argName)
		v, ok := env.GetString(argName)
		if !ok {
			return nil, gerr.New(gerr.MissingJSArgument, "binding %q: missing argument %q at index %d", name, argName, i)
		}
		out[argName] = v
	}
	return out, nil
}

package binding

import "github.com/gwen-io/gwen/pkg/scope"

// DeclareValue persists a Value binding: resolve() always returns value
// unchanged.
func DeclareValue(env *scope.Environment, name, value string) {
	env.Set(name+keyKind, string(KindValue))
	env.Set(name+keyValue, value)
}

// DeclareJS persists an inline JS (expr-lang expression) binding. args is
// the comma-delimited (or delimiter-delimited) list of argument names the
// expression may reference; delimiter defaults to "," when empty.
func DeclareJS(env *scope.Environment, name, expression, args, delimiter string) {
	env.Set(name+keyKind, string(KindJS))
	env.Set(name+keyExpression, expression)
	env.Set(name+keyArgs, args)
	env.Set(name+keyDelimiter, delimiter)
}

// DeclareJSFunction persists a JSFunction binding: resolve() delegates to
// the named JS binding ref rather than holding its own expression inline.
func DeclareJSFunction(env *scope.Environment, name, jsRef, args, delimiter string) {
	env.Set(name+keyKind, string(KindJSFunction))
	env.Set(name+keyFunctionRef, jsRef)
	env.Set(name+keyArgs, args)
	env.Set(name+keyDelimiter, delimiter)
}

// DeclareFile persists a File binding: resolve() reads path's contents.
func DeclareFile(env *scope.Environment, name, path string) {
	env.Set(name+keyKind, string(KindFile))
	env.Set(name+keyFile, path)
}

// DeclareSysproc persists a Sysproc binding: resolve() shells out to
// command with args (delimiter-split) and returns trimmed stdout.
func DeclareSysproc(env *scope.Environment, name, command, args, delimiter string) {
	env.Set(name+keyKind, string(KindSysproc))
	env.Set(name+keySysprocCmd, command)
	env.Set(name+keySysprocArgs, args)
	env.Set(name+keyDelimiter, delimiter)
}

// DeclareLoadStrategy wraps an already-declared binding named target with a
// caching strategy.
func DeclareLoadStrategy(env *scope.Environment, name, target string, strategy LoadStrategy) {
	env.Set(name+keyKind, string(KindLoadStrategy))
	env.Set(name+keyLoadTarget, target)
	env.Set(name+keyLoadStrategy, string(strategy))
}

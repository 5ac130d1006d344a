package binding

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/gwen-io/gwen/pkg/gerr"
)

// ExprEvaluator is the Evaluator backing JS/JSFunction bindings, built on
// github.com/expr-lang/expr — the expression engine standing in for the
// spec's out-of-scope "JavaScript engine" collaborator (SPEC_FULL.md §4.E).
// Programs are compiled once per distinct expression and cached, since a
// StepDef's binding steps are typically evaluated many times across
// scenarios.
type ExprEvaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewExprEvaluator returns a ready-to-use ExprEvaluator.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{cache: make(map[string]*vm.Program)}
}

// Eval compiles (or reuses a cached compile of) expression and runs it with
// args available as top-level environment variables, returning its result
// stringified via fmt.Sprint. An argument that parses as an integer or a
// float is passed as that number; any other argument stays a string.
func (e *ExprEvaluator) Eval(expression string, args map[string]string) (string, error) {
	env := make(map[string]interface{}, len(args))
	for k, v := range args {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			env[k] = int(i)
		} else if f, err := strconv.ParseFloat(v, 64); err == nil {
			env[k] = f
		} else {
			env[k] = v
		}
	}

	program, err := e.compiled(expression, env)
	if err != nil {
		return "", gerr.Wrap(gerr.JSExecution, err, "expression %q failed to compile", expression)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return "", gerr.Wrap(gerr.JSExecution, err, "expression %q failed", expression)
	}
	return fmt.Sprint(result), nil
}

func (e *ExprEvaluator) compiled(expression string, env map[string]interface{}) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.cache[expression]; ok {
		return p, nil
	}
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return nil, err
	}
	e.cache[expression] = program
	return program, nil
}

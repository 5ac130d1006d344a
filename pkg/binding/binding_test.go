package binding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwen-io/gwen/pkg/scope"
)

func TestResolveValueBinding(t *testing.T) {
	env := scope.New()
	DeclareValue(env, "greeting", "hello")

	v, err := Resolve(env, "greeting", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestResolveUnboundBindingFails(t *testing.T) {
	env := scope.New()
	_, err := Resolve(env, "nope", nil)
	assert.Error(t, err)
}

func TestResolveFileBinding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0644))

	env := scope.New()
	DeclareFile(env, "payload", path)

	v, err := Resolve(env, "payload", nil)
	require.NoError(t, err)
	assert.Equal(t, "file contents", v)
}

func TestResolveJSBindingWithArgs(t *testing.T) {
	env := scope.New()
	env.Set("a", "3")
	env.Set("b", "4")
	DeclareJS(env, "sum", "a + b", "a,b", ",")

	v, err := Resolve(env, "sum", NewExprEvaluator())
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}

func TestResolveJSBindingMissingArgument(t *testing.T) {
	env := scope.New()
	DeclareJS(env, "sum", "a + b", "a,b", ",")

	_, err := Resolve(env, "sum", NewExprEvaluator())
	assert.Error(t, err)
}

func TestResolveJSFunctionDelegatesToJSRef(t *testing.T) {
	env := scope.New()
	env.Set("x", "10")
	DeclareJS(env, "double", "x * 2", "x", ",")
	DeclareJSFunction(env, "doubleFn", "double", "x", ",")

	v, err := Resolve(env, "doubleFn", NewExprEvaluator())
	require.NoError(t, err)
	assert.Equal(t, "20", v)
}

func TestLoadStrategyLazyCachesResult(t *testing.T) {
	env := scope.New()
	DeclareValue(env, "target", "first")
	DeclareLoadStrategy(env, "wrapped", "target", LoadLazy)

	first, err := Resolve(env, "wrapped", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	// Mutate the underlying Value binding; a cached lazy load must not see it.
	DeclareValue(env, "target", "second")
	second, err := Resolve(env, "wrapped", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", second)
}

func TestLoadStrategyLazyFreshNeverCaches(t *testing.T) {
	env := scope.New()
	DeclareValue(env, "target", "first")
	DeclareLoadStrategy(env, "wrapped", "target", LoadLazyFresh)

	_, err := Resolve(env, "wrapped", nil)
	require.NoError(t, err)

	DeclareValue(env, "target", "second")
	second, err := Resolve(env, "wrapped", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", second)
}

func TestBindIfLazyIsNoOpForEagerBindings(t *testing.T) {
	env := scope.New()
	DeclareValue(env, "target", "v")
	DeclareLoadStrategy(env, "wrapped", "target", LoadEager)

	err := BindIfLazy(env, "wrapped", nil)
	require.NoError(t, err)
	_, cached := env.GetString("wrapped" + keyCache)
	assert.False(t, cached)
}

package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(scope map[string]string) PropertyLookup {
	return func(name string) (string, bool) {
		v, ok := scope[name]
		return v, ok
	}
}

func TestResolvesPropertyPlaceholder(t *testing.T) {
	out, err := Interpolate("hello ${name}", lookupFrom(map[string]string{"name": "world"}), nil, false)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestResolvesParamPlaceholder(t *testing.T) {
	out, err := Interpolate("value is $<amount>", lookupFrom(nil), map[string]string{"amount": "42"}, false)
	require.NoError(t, err)
	assert.Equal(t, "value is 42", out)
}

func TestResolvesNestedInnermostFirst(t *testing.T) {
	scope := map[string]string{"b": "X", "a-X": "resolved"}
	out, err := Interpolate("${a-${b}}", lookupFrom(scope), nil, false)
	require.NoError(t, err)
	assert.Equal(t, "resolved", out)
}

func TestResolvesInterleavedParamAndProperty(t *testing.T) {
	scope := map[string]string{"q": "Y"}
	params := map[string]string{"p-Y": "done"}
	out, err := Interpolate("$<p-${q}>", lookupFrom(scope), params, false)
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestUnboundParamRaisesErrorOutsideDryRun(t *testing.T) {
	_, err := Interpolate("$<missing>", lookupFrom(nil), nil, false)
	assert.Error(t, err)
}

func TestUnboundParamDecoratedInDryRun(t *testing.T) {
	out, err := Interpolate("$<missing>", lookupFrom(nil), nil, true)
	require.NoError(t, err)
	assert.Equal(t, "$[param:missing]", out)
}

func TestUnresolvedPropertyLeftAsWrittenInDryRun(t *testing.T) {
	out, err := Interpolate("${unset}", lookupFrom(nil), nil, true)
	require.NoError(t, err)
	assert.Equal(t, "${unset}", out)
}

func TestUnresolvedPropertyErrorsOutsideDryRun(t *testing.T) {
	_, err := Interpolate("${unset}", lookupFrom(nil), nil, false)
	assert.Error(t, err)
}

func TestPlusDigitInsideLiteralPreservedVerbatim(t *testing.T) {
	scope := map[string]string{"total": "100+5"}
	out, err := Interpolate(`the value "${total}" is unchanged`, lookupFrom(scope), nil, false)
	require.NoError(t, err)
	assert.Equal(t, `the value "100+5" is unchanged`, out)
}

func TestInterpolateParamsSkipsCompositeForm(t *testing.T) {
	out, err := InterpolateParams("$<p-${q}>", map[string]string{"p-${q}": "wrong"})
	require.NoError(t, err)
	assert.Equal(t, "$<p-${q}>", out)
}

func TestInterpolateParamsRaisesOnMissingSimpleParam(t *testing.T) {
	_, err := InterpolateParams("$<missing>", nil)
	assert.Error(t, err)
}

func TestInterpolateParamsLeavesPropertyPlaceholdersUntouched(t *testing.T) {
	out, err := InterpolateParams("${still} and $<bound>", map[string]string{"bound": "val"})
	require.NoError(t, err)
	assert.Equal(t, "${still} and val", out)
}

package normaliser

import (
	"testing"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref() ast.SourceRef { return ast.SourceRef{URI: "f.feature", Line: 1} }

func TestOutlineExpansionProducesOneScenarioPerRow(t *testing.T) {
	step := ast.NewStep(ref(), "Given", "a user named <name>")
	table := ast.NewHorizontalTable([]ast.TableRow{
		{Cells: []string{"name"}},
		{Cells: []string{"alice"}},
		{Cells: []string{"bob"}},
	})
	examples := ast.NewExamples(ref(), "Examples", "users", table)
	scenario := ast.NewScenario(ref(), "Scenario Outline", "create user", []ast.Step{step}).
		WithExamples([]ast.Examples{examples})
	feature := ast.NewFeature(ref(), "Feature", "users").WithScenarios([]ast.Scenario{scenario})
	spec := ast.NewSpec(feature, "f.feature")

	out, err := Normalise(spec)
	require.NoError(t, err)

	got := out.Feature.Scenarios[0].Examples[0].Expanded
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Steps[0].Text, "alice")
	assert.Contains(t, got[1].Steps[0].Text, "bob")
	assert.True(t, got[0].HasTag(string(ast.TagSynthetic)))
	assert.Equal(t, "alice", got[0].Params["name"])
}

func TestBackgroundIsCopiedNotReferenced(t *testing.T) {
	bgStep := ast.NewStep(ref(), "Given", "setup")
	background := ast.NewBackground(ref(), "Background", "", []ast.Step{bgStep})
	scenario := ast.NewScenario(ref(), "Scenario", "s1", []ast.Step{ast.NewStep(ref(), "When", "do thing")})
	feature := ast.NewFeature(ref(), "Feature", "f").
		WithBackground(background).
		WithScenarios([]ast.Scenario{scenario})
	spec := ast.NewSpec(feature, "f.feature")

	out, err := Normalise(spec)
	require.NoError(t, err)

	s := out.Feature.Scenarios[0]
	require.NotNil(t, s.Background)
	assert.NotEqual(t, background.Steps[0].UUID, s.Background.Steps[0].UUID)
}

func TestNodePathAssignsSiblingOccurrenceSuffixes(t *testing.T) {
	s1 := ast.NewScenario(ref(), "Scenario", "dup", []ast.Step{ast.NewStep(ref(), "Given", "x")})
	s2 := ast.NewScenario(ref(), "Scenario", "dup", []ast.Step{ast.NewStep(ref(), "Given", "y")})
	feature := ast.NewFeature(ref(), "Feature", "f").WithScenarios([]ast.Scenario{s1, s2})
	spec := ast.NewSpec(feature, "f.feature")

	out, err := Normalise(spec)
	require.NoError(t, err)

	assert.Contains(t, out.Feature.Scenarios[0].SourceRef.NodePath, "dup[1]")
	assert.Contains(t, out.Feature.Scenarios[1].SourceRef.NodePath, "dup[2]")
}

func TestDocStringificationMovesTrailingLiteralParam(t *testing.T) {
	step := ast.NewStep(ref(), "Given", `the config is "$<payload>"`)
	scenario := ast.NewScenario(ref(), "Scenario", "s1", []ast.Step{step})
	feature := ast.NewFeature(ref(), "Feature", "f").WithScenarios([]ast.Scenario{scenario})
	spec := ast.NewSpec(feature, "f.feature")

	out, err := Normalise(spec)
	require.NoError(t, err)

	got := out.Feature.Scenarios[0].Steps[0]
	assert.Equal(t, "the config is", got.Text)
	require.NotNil(t, got.DocString)
	assert.Equal(t, "payload", got.DocString.Content)
	assert.Equal(t, "", got.DocString.MediaType)
}

func TestNormaliseIsIdempotent(t *testing.T) {
	step := ast.NewStep(ref(), "Given", "a user named <name>")
	table := ast.NewHorizontalTable([]ast.TableRow{
		{Cells: []string{"name"}},
		{Cells: []string{"alice"}},
	})
	examples := ast.NewExamples(ref(), "Examples", "users", table)
	scenario := ast.NewScenario(ref(), "Scenario Outline", "create user", []ast.Step{step}).
		WithExamples([]ast.Examples{examples})
	feature := ast.NewFeature(ref(), "Feature", "users").WithScenarios([]ast.Scenario{scenario})
	spec := ast.NewSpec(feature, "f.feature")

	once, err := Normalise(spec)
	require.NoError(t, err)
	twice, err := Normalise(once)
	require.NoError(t, err)

	assert.Equal(t, len(once.Feature.Scenarios[0].Examples[0].Expanded), len(twice.Feature.Scenarios[0].Examples[0].Expanded))
}

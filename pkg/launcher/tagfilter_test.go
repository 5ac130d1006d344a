package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwen-io/gwen/pkg/ast"
)

func TestMatchesTagFilterInclusion(t *testing.T) {
	tags := []ast.Tag{ast.NewTag(ast.SourceRef{}, "smoke")}
	assert.True(t, matchesTagFilter(tags, []string{"@smoke"}))
	assert.False(t, matchesTagFilter(tags, []string{"@wip"}))
}

func TestMatchesTagFilterExclusion(t *testing.T) {
	tags := []ast.Tag{ast.NewTag(ast.SourceRef{}, "wip")}
	assert.False(t, matchesTagFilter(tags, []string{"~@wip"}))
	assert.True(t, matchesTagFilter(tags, []string{"~@smoke"}))
}

func TestMatchesTagFilterEmptyAlwaysMatches(t *testing.T) {
	assert.True(t, matchesTagFilter(nil, nil))
}

func TestFilterScenariosKeepsOnlyMatchingAndInheritsFeatureTags(t *testing.T) {
	feature := ast.NewFeature(ast.SourceRef{}, "Feature", "f").
		WithTags([]ast.Tag{ast.NewTag(ast.SourceRef{}, "smoke")}).
		WithScenarios([]ast.Scenario{
			ast.NewScenario(ast.SourceRef{}, "Scenario", "kept", nil),
			ast.NewScenario(ast.SourceRef{}, "Scenario", "dropped", nil).WithTags([]ast.Tag{ast.NewTag(ast.SourceRef{}, "wip")}),
		})

	filtered := filterScenarios(feature, []string{"@smoke", "~@wip"})

	assert.Len(t, filtered.Scenarios, 1)
	assert.Equal(t, "kept", filtered.Scenarios[0].Name)
}

func TestFilterScenariosNoFiltersReturnsUnchanged(t *testing.T) {
	feature := ast.NewFeature(ast.SourceRef{}, "Feature", "f").
		WithScenarios([]ast.Scenario{ast.NewScenario(ast.SourceRef{}, "Scenario", "s", nil)})

	filtered := filterScenarios(feature, nil)

	assert.Len(t, filtered.Scenarios, 1)
}

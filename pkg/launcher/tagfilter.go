package launcher

import "github.com/gwen-io/gwen/pkg/ast"

// matchesTagFilter reports whether tags satisfies every filter expression
// in filters. A filter is either an inclusion (`@x`) or, prefixed with `~`,
// an exclusion (`~@x`) — spec.md §6's "`-t TAGS, --tags` Include/exclude tag
// filter: `@x,~@y,…`". An inclusion is satisfied if any tag name matches; an
// exclusion is satisfied if no tag name matches. An empty filter list always
// matches.
func matchesTagFilter(tags []ast.Tag, filters []string) bool {
	for _, f := range filters {
		if f == "" {
			continue
		}
		if f[0] == '~' {
			if hasTagNamed(tags, f[1:]) {
				return false
			}
			continue
		}
		if !hasTagNamed(tags, f) {
			return false
		}
	}
	return true
}

func hasTagNamed(tags []ast.Tag, name string) bool {
	for _, t := range tags {
		if "@"+t.Name == name || t.Name == name {
			return true
		}
	}
	return false
}

// filterScenarios keeps only the Scenarios (and, inside each Rule, its
// Scenarios) whose own tags plus their owning Feature's tags satisfy
// filters. A Scenario is tagged with the union of its own tags and its
// Feature's; a Rule carries no tags of its own.
func filterScenarios(feature ast.Feature, filters []string) ast.Feature {
	if len(filters) == 0 {
		return feature
	}

	kept := make([]ast.Scenario, 0, len(feature.Scenarios))
	for _, sc := range feature.Scenarios {
		if matchesTagFilter(append(append([]ast.Tag{}, feature.Tags...), sc.Tags...), filters) {
			kept = append(kept, sc)
		}
	}
	feature = feature.WithScenarios(kept)

	rules := make([]ast.Rule, len(feature.Rules))
	for i, r := range feature.Rules {
		keptScenarios := make([]ast.Scenario, 0, len(r.Scenarios))
		for _, sc := range r.Scenarios {
			combined := append(append([]ast.Tag{}, feature.Tags...), sc.Tags...)
			if matchesTagFilter(combined, filters) {
				keptScenarios = append(keptScenarios, sc)
			}
		}
		rules[i] = r.WithScenarios(keptScenarios)
	}
	return feature.WithRules(rules)
}

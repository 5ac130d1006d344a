// Package normaliser transforms a parsed Spec into an evaluable one: outline
// expansion, background replication, nodePath assignment, and
// doc-stringification (spec.md §4.B). Normalise is pure and idempotent —
// running it twice on its own output is a no-op.
package normaliser

import "github.com/gwen-io/gwen/pkg/ast"

// Normalise runs the four transformations, in the order spec.md §4.B lists
// them, and returns the evaluable Spec.
func Normalise(spec ast.Spec) (ast.Spec, error) {
	feature, err := expandFeature(spec.Feature)
	if err != nil {
		return ast.Spec{}, err
	}
	feature = docStringifyFeature(feature)
	feature = assignNodePaths(spec.File, feature)
	spec = spec.WithFeature(feature)
	return spec, nil
}

func expandFeature(f ast.Feature) (ast.Feature, error) {
	scenarios, err := expandScenarios(f.Scenarios, f.Background)
	if err != nil {
		return ast.Feature{}, err
	}
	f = f.WithScenarios(scenarios)

	rules := make([]ast.Rule, len(f.Rules))
	for i, r := range f.Rules {
		background := f.Background
		if r.Background != nil {
			background = r.Background
		}
		rs, err := expandScenarios(r.Scenarios, background)
		if err != nil {
			return ast.Feature{}, err
		}
		rules[i] = r.WithScenarios(rs)
	}
	f = f.WithRules(rules)
	return f, nil
}

// expandScenarios prepends background (by copy) to every scenario and, for
// outline scenarios, populates each Examples block's Expanded field with one
// concrete Scenario per body row. An outline scenario stays in the returned
// slice — it still does not execute its own Steps (spec.md §3 invariant);
// callers walk Examples[*].Expanded instead.
func expandScenarios(scenarios []ast.Scenario, background *ast.Background) ([]ast.Scenario, error) {
	out := make([]ast.Scenario, len(scenarios))
	for i, s := range scenarios {
		if !s.IsOutline() {
			out[i] = withReplicatedBackground(s, background)
			continue
		}
		expanded, err := expandOutline(s, background)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

func withReplicatedBackground(s ast.Scenario, background *ast.Background) ast.Scenario {
	if background == nil {
		return s
	}
	return s.WithBackground(background.Copy())
}

package normaliser

import "github.com/gwen-io/gwen/pkg/ast"

// assignNodePaths walks f top-down and stamps every node's SourceRef with a
// fully-qualified nodePath. Scenarios and Steps get a 1-based [k] suffix
// counting same-named siblings; the Feature and each Rule always get [1], and
// Examples blocks and expanded Scenarios are numbered by their position.
func assignNodePaths(file string, f ast.Feature) ast.Feature {
	featureNames := []string{f.Name}
	featureSeg := ast.NodePathSegment(f.Name, ast.OccurrenceIn(f.Name, featureNames))
	f.SourceRef = f.SourceRef.WithNodePath(featureSeg)

	if f.Background != nil {
		*f.Background = stampBackground(featureSeg, *f.Background)
	}

	f.Scenarios = stampScenarios(featureSeg, f.Scenarios)

	rules := make([]ast.Rule, len(f.Rules))
	for i, r := range f.Rules {
		rules[i] = stampRule(featureSeg, r)
	}
	f.Rules = rules
	return f
}

func stampRule(parent string, r ast.Rule) ast.Rule {
	seg := ast.NodePathSegment(r.Name, 1)
	path := ast.JoinNodePath(parent, seg)
	r.SourceRef = r.SourceRef.WithNodePath(path)
	if r.Background != nil {
		*r.Background = stampBackground(path, *r.Background)
	}
	r.Scenarios = stampScenarios(path, r.Scenarios)
	return r
}

func stampBackground(parent string, b ast.Background) ast.Background {
	seg := ast.NodePathSegment(b.Name, 1)
	path := ast.JoinNodePath(parent, seg)
	b.SourceRef = b.SourceRef.WithNodePath(path)
	b.Steps = stampSteps(path, b.Steps)
	return b
}

func stampScenarios(parent string, scenarios []ast.Scenario) []ast.Scenario {
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	occ := ast.OccurrenceIndex(names)

	out := make([]ast.Scenario, len(scenarios))
	for i, s := range scenarios {
		out[i] = stampScenario(parent, s, occ[i])
	}
	return out
}

func stampScenario(parent string, s ast.Scenario, occurrence int) ast.Scenario {
	seg := ast.NodePathSegment(s.Name, occurrence)
	path := ast.JoinNodePath(parent, seg)
	s.SourceRef = s.SourceRef.WithNodePath(path)

	if s.Background != nil {
		*s.Background = stampBackground(path, *s.Background)
	}
	s.Steps = stampSteps(path, s.Steps)

	examples := make([]ast.Examples, len(s.Examples))
	for i, ex := range s.Examples {
		examples[i] = stampExamples(path, ex, i+1)
	}
	s.Examples = examples
	return s
}

func stampExamples(parent string, ex ast.Examples, occurrence int) ast.Examples {
	seg := ast.NodePathSegment(ex.Name, occurrence)
	path := ast.JoinNodePath(parent, seg)
	ex.SourceRef = ex.SourceRef.WithNodePath(path)

	expanded := make([]ast.Scenario, len(ex.Expanded))
	for i, s := range ex.Expanded {
		expanded[i] = stampScenario(path, s, i+1)
	}
	ex.Expanded = expanded
	return ex
}

func stampSteps(parent string, steps []ast.Step) []ast.Step {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Text
	}
	occ := ast.OccurrenceIndex(names)

	out := make([]ast.Step, len(steps))
	for i, s := range steps {
		seg := ast.NodePathSegment(s.Text, occ[i])
		s.SourceRef = s.SourceRef.WithNodePath(ast.JoinNodePath(parent, seg))
		out[i] = s
	}
	return out
}

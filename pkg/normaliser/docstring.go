package normaliser

import (
	"regexp"

	"github.com/gwen-io/gwen/pkg/ast"
)

// trailingParamLiteral matches a step text ending in a double-quoted
// "$<param>" literal, capturing the param name.
var trailingParamLiteral = regexp.MustCompile(`\s*"\$<([^>]+)>"\s*$`)

// docStringifyFeature applies docStringifyStep to every step in f.
func docStringifyFeature(f ast.Feature) ast.Feature {
	if f.Background != nil {
		bg := *f.Background
		bg.Steps = docStringifySteps(bg.Steps)
		f.Background = &bg
	}
	f.Scenarios = docStringifyScenarios(f.Scenarios)

	rules := make([]ast.Rule, len(f.Rules))
	for i, r := range f.Rules {
		if r.Background != nil {
			bg := *r.Background
			bg.Steps = docStringifySteps(bg.Steps)
			r.Background = &bg
		}
		r.Scenarios = docStringifyScenarios(r.Scenarios)
		rules[i] = r
	}
	f.Rules = rules
	return f
}

func docStringifyScenarios(scenarios []ast.Scenario) []ast.Scenario {
	out := make([]ast.Scenario, len(scenarios))
	for i, s := range scenarios {
		s.Steps = docStringifySteps(s.Steps)
		examples := make([]ast.Examples, len(s.Examples))
		for j, ex := range s.Examples {
			ex.Expanded = docStringifyScenarios(ex.Expanded)
			examples[j] = ex
		}
		s.Examples = examples
		out[i] = s
	}
	return out
}

func docStringifySteps(steps []ast.Step) []ast.Step {
	out := make([]ast.Step, len(steps))
	for i, s := range steps {
		out[i] = docStringifyStep(s)
	}
	return out
}

// docStringifyStep rewrites a step whose text ends in a double-quoted
// "$<param>" literal and which has no docString yet: the literal is
// stripped from the text and the param name becomes the step's docString
// with an empty (None) media type (spec.md §4.B.4).
func docStringifyStep(s ast.Step) ast.Step {
	if s.DocString != nil {
		return s
	}
	match := trailingParamLiteral.FindStringSubmatch(s.Text)
	if match == nil {
		return s
	}
	s.Text = trailingParamLiteral.ReplaceAllString(s.Text, "")
	return s.WithDocString(ast.DocString{Content: match[1], MediaType: ""})
}

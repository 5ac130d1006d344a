package normaliser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gwen-io/gwen/pkg/ast"
)

// expandOutline expands every Examples block of an outline scenario into
// its concrete per-row Scenarios (spec.md §4.B.1-2).
func expandOutline(s ast.Scenario, background *ast.Background) (ast.Scenario, error) {
	examples := make([]ast.Examples, len(s.Examples))
	for i, ex := range s.Examples {
		records, err := ex.Records()
		if err != nil {
			return ast.Scenario{}, err
		}
		expanded := make([]ast.Scenario, len(records))
		for r, record := range records {
			rowBackground := scenarioBackgroundFor(s, record, background)
			expanded[r] = expandOneRow(s, ex, record, r, len(records), rowBackground)
		}
		examples[i] = ex.WithExpanded(expanded)
	}
	return s.WithExamples(examples), nil
}

func expandOneRow(s ast.Scenario, ex ast.Examples, record map[string]string, index, total int, background *ast.Background) ast.Scenario {
	name := fmt.Sprintf("%s -- %s (record %d of %d)", s.Name, ex.Name, index+1, total)
	steps := make([]ast.Step, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = step.WithText(substituteOutlinePlaceholders(step.Text, record))
	}
	tags := append(append([]ast.Tag{}, s.Tags...), ast.NewTag(s.SourceRef, string(ast.TagSynthetic)))

	expanded := ast.NewScenario(s.SourceRef, s.Keyword, name, steps).
		WithTags(tags).
		WithParams(record)
	if background != nil {
		expanded = expanded.WithBackground(*background)
	}
	return expanded
}

// substituteOutlinePlaceholders replaces every "<header>" occurrence in text
// with its cell value from record, the classic Gherkin outline placeholder
// syntax (distinct from the interpolator's ${}/$<> forms, resolved earlier
// at normalisation time rather than at step-evaluation time).
func substituteOutlinePlaceholders(text string, record map[string]string) string {
	for header, value := range record {
		text = strings.ReplaceAll(text, "<"+header+">", value)
	}
	return text
}

// scenarioBackgroundFor resolves the background to prepend to one expanded
// row's scenario: if the outline (or its StepDef form) is annotated with
// @DataTable(...) semantics, a synthetic background binding each row cell
// via "@Data" steps is emitted ahead of the real background (spec.md
// §4.B.2), in sorted header order.
func scenarioBackgroundFor(s ast.Scenario, record map[string]string, background *ast.Background) *ast.Background {
	if !hasDataTableSemantics(s) {
		if background == nil {
			return nil
		}
		copied := background.Copy()
		return &copied
	}
	headers := orderedKeys(record)
	syntheticSteps := make([]ast.Step, 0, len(headers))
	for i, header := range headers {
		text := fmt.Sprintf("string %d is %q", i+1, record[header])
		syntheticSteps = append(syntheticSteps, ast.NewStep(s.SourceRef, "*", text))
	}
	if background != nil {
		syntheticSteps = append(syntheticSteps, background.Copy().Steps...)
	}
	synthetic := ast.NewBackground(s.SourceRef, "Background", "", syntheticSteps)
	return &synthetic
}

// orderedKeys returns record's keys sorted, giving the synthetic @Data steps
// a stable, deterministic column order run to run.
func orderedKeys(record map[string]string) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hasDataTableSemantics(s ast.Scenario) bool {
	return s.HasTag(string(ast.TagDataTable))
}

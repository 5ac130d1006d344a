package ast

import "github.com/google/uuid"

// Rule groups Scenarios under a shared Background and name, the Gherkin
// "Rule:" keyword introduced to express business-rule boundaries inside a
// Feature.
type Rule struct {
	UUID        uuid.UUID
	SourceRef   SourceRef
	Keyword     string
	Name        string
	Description string
	Background  *Background
	Scenarios   []Scenario
}

// NewRule constructs a Rule from its scenarios.
func NewRule(ref SourceRef, keyword, name string, scenarios []Scenario) Rule {
	return Rule{UUID: uuid.New(), SourceRef: ref, Keyword: keyword, Name: name, Scenarios: scenarios}
}

// NodeType implements Node.
func (Rule) NodeType() NodeType { return NodeRule }

func (r Rule) WithSourceRef(ref SourceRef) Rule { r.SourceRef = ref; return r }

func (r Rule) WithDescription(d string) Rule { r.Description = d; return r }

func (r Rule) WithBackground(b Background) Rule { r.Background = &b; return r }

func (r Rule) WithScenarios(scenarios []Scenario) Rule {
	r.Scenarios = append([]Scenario{}, scenarios...)
	return r
}

// EvalStatus aggregates all scenarios' statuses under the non-StepDef rule.
func (r Rule) EvalStatus() Status {
	statuses := make([]Status, len(r.Scenarios))
	for i, s := range r.Scenarios {
		statuses[i] = s.EvalStatus()
	}
	return AggregateNonStepDef(statuses)
}

package ast

import "github.com/google/uuid"

// Scenario is a single executable (or, pre-expansion, outline) example.
// Background is a *Background because not every Scenario inherits one (a
// Rule-less Scenario at top level with no Feature background has nil).
type Scenario struct {
	UUID         uuid.UUID
	SourceRef    SourceRef
	Tags         []Tag
	Keyword      string
	Name         string
	Description  string
	Background   *Background
	Steps        []Step
	Examples     []Examples
	Params       map[string]string
	CallerParams map[string]string
}

// NewScenario constructs a Scenario from its steps.
func NewScenario(ref SourceRef, keyword, name string, steps []Step) Scenario {
	return Scenario{UUID: uuid.New(), SourceRef: ref, Keyword: keyword, Name: name, Steps: steps}
}

// NodeType implements Node.
func (Scenario) NodeType() NodeType { return NodeScenario }

func (s Scenario) WithSourceRef(ref SourceRef) Scenario { s.SourceRef = ref; return s }

func (s Scenario) WithDescription(d string) Scenario { s.Description = d; return s }

func (s Scenario) WithTags(tags []Tag) Scenario {
	s.Tags = append([]Tag{}, tags...)
	return s
}

func (s Scenario) WithSteps(steps []Step) Scenario {
	s.Steps = append([]Step{}, steps...)
	return s
}

func (s Scenario) WithBackground(b Background) Scenario { s.Background = &b; return s }

func (s Scenario) WithExamples(examples []Examples) Scenario {
	s.Examples = append([]Examples{}, examples...)
	return s
}

func (s Scenario) WithParams(params map[string]string) Scenario {
	s.Params = cloneStrMap(params)
	return s
}

func (s Scenario) WithCallerParams(params map[string]string) Scenario {
	s.CallerParams = cloneStrMap(params)
	return s
}

func (s Scenario) WithName(name string) Scenario { s.Name = name; return s }

// IsOutline reports whether s has Examples and therefore does not execute
// its own Steps directly (spec.md §3 invariant).
func (s Scenario) IsOutline() bool {
	return len(s.Examples) > 0
}

// HasTag reports whether name is among s.Tags.
func (s Scenario) HasTag(name string) bool {
	for _, t := range s.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// AllSteps returns the Background's steps (if any) followed by s's own
// Steps, the order a step engine evaluates them in.
func (s Scenario) AllSteps() []Step {
	if s.Background == nil {
		return s.Steps
	}
	all := make([]Step, 0, len(s.Background.Steps)+len(s.Steps))
	all = append(all, s.Background.Steps...)
	all = append(all, s.Steps...)
	return all
}

// EvalStatus aggregates this scenario's own steps (background included)
// using the non-StepDef rule: max with Sustained absorbed into Passed.
func (s Scenario) EvalStatus() Status {
	steps := s.AllSteps()
	statuses := make([]Status, len(steps))
	for i, st := range steps {
		statuses[i] = st.EvalStatus
	}
	return AggregateNonStepDef(statuses)
}

package ast

import "github.com/google/uuid"

// Feature is a single .feature file's top-level node: a language, tags,
// optional Background, and a mix of bare Scenarios and/or Rule-grouped
// Scenarios.
type Feature struct {
	UUID        uuid.UUID
	SourceRef   SourceRef
	Language    string
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Background  *Background
	Rules       []Rule
	Scenarios   []Scenario
}

// NewFeature constructs a Feature with its language defaulted to "en".
func NewFeature(ref SourceRef, keyword, name string) Feature {
	return Feature{UUID: uuid.New(), SourceRef: ref, Language: "en", Keyword: keyword, Name: name}
}

// NodeType implements Node.
func (Feature) NodeType() NodeType { return NodeFeature }

func (f Feature) WithSourceRef(ref SourceRef) Feature { f.SourceRef = ref; return f }

func (f Feature) WithLanguage(lang string) Feature { f.Language = lang; return f }

func (f Feature) WithDescription(d string) Feature { f.Description = d; return f }

func (f Feature) WithTags(tags []Tag) Feature {
	f.Tags = append([]Tag{}, tags...)
	return f
}

func (f Feature) WithBackground(b Background) Feature { f.Background = &b; return f }

func (f Feature) WithRules(rules []Rule) Feature {
	f.Rules = append([]Rule{}, rules...)
	return f
}

func (f Feature) WithScenarios(scenarios []Scenario) Feature {
	f.Scenarios = append([]Scenario{}, scenarios...)
	return f
}

// HasTag reports whether name is among f.Tags.
func (f Feature) HasTag(name string) bool {
	for _, t := range f.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// EvalStatus aggregates every bare Scenario and Rule under the non-StepDef
// rule.
func (f Feature) EvalStatus() Status {
	var statuses []Status
	for _, s := range f.Scenarios {
		statuses = append(statuses, s.EvalStatus())
	}
	for _, r := range f.Rules {
		statuses = append(statuses, r.EvalStatus())
	}
	return AggregateNonStepDef(statuses)
}

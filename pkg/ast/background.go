package ast

import "github.com/google/uuid"

// Background holds the steps run before every scenario in a Feature or
// Rule. Normalisation copies (never references) a Background into each
// scenario it applies to, so per-scenario parameter bindings can diverge.
type Background struct {
	UUID        uuid.UUID
	SourceRef   SourceRef
	Keyword     string
	Name        string
	Description string
	Steps       []Step
}

// NewBackground constructs a Background from its steps.
func NewBackground(ref SourceRef, keyword, name string, steps []Step) Background {
	return Background{UUID: uuid.New(), SourceRef: ref, Keyword: keyword, Name: name, Steps: steps}
}

// NodeType implements Node.
func (Background) NodeType() NodeType { return NodeBackground }

func (b Background) WithSourceRef(ref SourceRef) Background { b.SourceRef = ref; return b }

func (b Background) WithDescription(d string) Background { b.Description = d; return b }

func (b Background) WithSteps(steps []Step) Background {
	b.Steps = append([]Step{}, steps...)
	return b
}

// Copy returns a deep-enough copy of b suitable for prepending into an
// expanded scenario: each Step gets a fresh UUID so its evalStatus and
// attachments evolve independently of the original Background's steps.
func (b Background) Copy() Background {
	steps := make([]Step, len(b.Steps))
	for i, s := range b.Steps {
		s.UUID = uuid.New()
		steps[i] = s
	}
	b.Steps = steps
	return b
}

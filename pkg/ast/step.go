package ast

import "github.com/google/uuid"

// DocString is a Step's optional triple-quoted body.
type DocString struct {
	Line      int
	Content   string
	MediaType string
}

// Attachment names a file a step evaluation produced (e.g. a screenshot or
// log capture) alongside its own result.
type Attachment struct {
	Name string
	File string
}

// Step is a single Given/When/Then line together with everything its
// evaluation accumulates: the resolved StepDef binding (if any), params
// bound from the caller, an evaluation status, and attachments.
type Step struct {
	UUID         uuid.UUID
	SourceRef    SourceRef
	Keyword      string
	Text         string
	Table        *Table
	DocString    *DocString
	Attachments  []Attachment
	StepDefRef   *uuid.UUID
	EvalStatus   Status
	Params       map[string]string
	CallerParams map[string]string
	Tags         []Tag
}

// NewStep constructs a Step in its initial Pending state.
func NewStep(ref SourceRef, keyword, text string) Step {
	return Step{UUID: uuid.New(), SourceRef: ref, Keyword: keyword, Text: text, EvalStatus: Pending}
}

// NodeType implements Node.
func (Step) NodeType() NodeType { return NodeStep }

func (s Step) WithSourceRef(ref SourceRef) Step { s.SourceRef = ref; return s }

func (s Step) WithText(text string) Step { s.Text = text; return s }

func (s Step) WithTable(t Table) Step { s.Table = &t; return s }

func (s Step) WithDocString(d DocString) Step { s.DocString = &d; return s }

func (s Step) WithStatus(status Status) Step { s.EvalStatus = status; return s }

func (s Step) WithStepDefRef(id uuid.UUID) Step { s.StepDefRef = &id; return s }

func (s Step) WithParams(params map[string]string) Step {
	s.Params = cloneStrMap(params)
	return s
}

func (s Step) WithCallerParams(params map[string]string) Step {
	s.CallerParams = cloneStrMap(params)
	return s
}

func (s Step) WithAttachment(a Attachment) Step {
	s.Attachments = append(append([]Attachment{}, s.Attachments...), a)
	return s
}

func (s Step) WithTags(tags []Tag) Step {
	s.Tags = append([]Tag{}, tags...)
	return s
}

// HasTag reports whether name is among s.Tags.
func (s Step) HasTag(name string) bool {
	for _, t := range s.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func cloneStrMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

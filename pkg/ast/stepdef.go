package ast

import "github.com/google/uuid"

// StepDef is a reusable named sequence of steps declared in a .meta file
// (or inline in a Feature) and matched against the text of a calling Step
// after interpolation (spec.md glossary "StepDef").
type StepDef struct {
	UUID      uuid.UUID
	SourceRef SourceRef
	Tags      []Tag
	Name      string
	Params    []string
	Steps     []Step
	DataTable *DataTableAnnotation
}

// DataTableAnnotation captures a parsed @DataTable(...) tag on a StepDef.
type DataTableAnnotation struct {
	Shape  TableShape
	Header TableHeader
	Names  []string
}

// NewStepDef constructs a StepDef from its name and body steps.
func NewStepDef(ref SourceRef, name string, steps []Step) StepDef {
	return StepDef{UUID: uuid.New(), SourceRef: ref, Name: name, Steps: steps}
}

// NodeType implements Node.
func (StepDef) NodeType() NodeType { return NodeStepDef }

func (d StepDef) WithSourceRef(ref SourceRef) StepDef { d.SourceRef = ref; return d }

func (d StepDef) WithTags(tags []Tag) StepDef {
	d.Tags = append([]Tag{}, tags...)
	return d
}

func (d StepDef) WithParams(params []string) StepDef {
	d.Params = append([]string{}, params...)
	return d
}

func (d StepDef) WithDataTable(a DataTableAnnotation) StepDef { d.DataTable = &a; return d }

// HasTag reports whether name is among d.Tags.
func (d StepDef) HasTag(name string) bool {
	for _, t := range d.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// IsForEachDataTable reports whether d is tagged both @ForEach and
// @DataTable(...), the combination the spec calls out as "invoked once per
// table record" (spec.md §4.G).
func (d StepDef) IsForEachDataTable() bool {
	return d.HasTag(string(TagForEach)) && d.DataTable != nil
}

// IsSynchronized reports whether d carries @Synchronized or its British
// spelling @Synchronised.
func (d StepDef) IsSynchronized() bool {
	return d.HasTag(string(TagSynchronized)) || d.HasTag(string(TagSynchronised))
}

// EvalStatus aggregates d's body steps under the StepDef rule: max with no
// Sustained absorption, so a soft assertion inside the body still marks this
// StepDef's own status Sustained.
func (d StepDef) EvalStatus() Status {
	statuses := make([]Status, len(d.Steps))
	for i, s := range d.Steps {
		statuses[i] = s.EvalStatus
	}
	return AggregateStepDef(statuses)
}

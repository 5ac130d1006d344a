package ast

import "github.com/google/uuid"

// Meta is a parsed .meta file: a flat list of StepDef declarations (and, by
// extension, whatever bindings those StepDefs establish via Value/JS/File/
// Sysproc binding steps — pkg/binding interprets their step text).
type Meta struct {
	UUID      uuid.UUID
	SourceRef SourceRef
	Name      string
	StepDefs  []StepDef
}

// NewMeta constructs a Meta from its parsed StepDefs.
func NewMeta(ref SourceRef, name string, stepDefs []StepDef) Meta {
	return Meta{UUID: uuid.New(), SourceRef: ref, Name: name, StepDefs: stepDefs}
}

// NodeType implements Node.
func (Meta) NodeType() NodeType { return NodeMeta }

func (m Meta) WithStepDefs(defs []StepDef) Meta {
	m.StepDefs = append([]StepDef{}, defs...)
	return m
}

// MergeMeta unions several Metas' StepDefs in parent-before-child order, the
// inheritance rule spec.md §4.F describes for .meta files along a directory
// path. A StepDef name declared by more than one Meta is kept once, the
// closest (last, i.e. most-child) declaration winning — mirroring ordinary
// scope shadowing.
func MergeMeta(metas []Meta) []StepDef {
	byName := make(map[string]StepDef)
	order := make([]string, 0)
	for _, m := range metas {
		for _, d := range m.StepDefs {
			if _, exists := byName[d.Name]; !exists {
				order = append(order, d.Name)
			}
			byName[d.Name] = d
		}
	}
	out := make([]StepDef, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

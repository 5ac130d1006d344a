package ast

import "github.com/google/uuid"

// Spec is the root node of a single evaluated .feature file: the parsed
// Feature, its resolved meta-spec StepDef library, and the source file it
// came from. Treated as immutable once the normaliser hands it to the step
// engine (spec.md §3 "Lifecycle / ownership").
type Spec struct {
	UUID     uuid.UUID
	Feature  Feature
	MetaSpec []Meta
	File     string
}

// NewSpec constructs a Spec from its parsed Feature.
func NewSpec(feature Feature, file string) Spec {
	return Spec{UUID: uuid.New(), Feature: feature, File: file}
}

// NodeType implements Node.
func (Spec) NodeType() NodeType { return NodeRoot }

func (s Spec) WithFeature(f Feature) Spec { s.Feature = f; return s }

func (s Spec) WithMetaSpec(metas []Meta) Spec {
	s.MetaSpec = append([]Meta{}, metas...)
	return s
}

// StepDefs returns the resolved StepDef library this Spec's Feature can
// call, in parent-before-child precedence order (spec.md §4.F).
func (s Spec) StepDefs() []StepDef {
	return MergeMeta(s.MetaSpec)
}

// EvalStatus aggregates this Spec's Feature status.
func (s Spec) EvalStatus() Status {
	return s.Feature.EvalStatus()
}

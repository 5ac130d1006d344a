package ast

// NodeType is the closed set of node kinds a Spec tree can contain
// (spec.md §3). Dispatch throughout this package and pkg/normaliser,
// pkg/stepengine switches on NodeType rather than relying on Go's type
// system, mirroring a tagged union.
type NodeType string

const (
	NodeRoot       NodeType = "Root"
	NodeFeature    NodeType = "Feature"
	NodeMeta       NodeType = "Meta"
	NodeBackground NodeType = "Background"
	NodeRule       NodeType = "Rule"
	NodeScenario   NodeType = "Scenario"
	NodeStepDef    NodeType = "StepDef"
	NodeExamples   NodeType = "Examples"
	NodeStep       NodeType = "Step"
	NodeTag        NodeType = "Tag"
	NodeUnit       NodeType = "Unit"
)

// ReservedTag is the closed set of tag names with built-in meaning to the
// normaliser, step engine, and scheduler. Any other tag name is an opaque
// label carried through to reporters.
type ReservedTag string

const (
	TagStepDef      ReservedTag = "StepDef"
	TagForEach      ReservedTag = "ForEach"
	TagIf           ReservedTag = "If"
	TagUntil        ReservedTag = "Until"
	TagWhile        ReservedTag = "While"
	TagDataTable    ReservedTag = "DataTable"
	TagExamples     ReservedTag = "Examples"
	TagSynthetic    ReservedTag = "Synthetic"
	TagSynchronized ReservedTag = "Synchronized"
	TagSynchronised ReservedTag = "Synchronised"
	TagIgnore       ReservedTag = "Ignore"
)

// reservedTags backs IsReserved with O(1) membership.
var reservedTags = map[ReservedTag]struct{}{
	TagStepDef: {}, TagForEach: {}, TagIf: {}, TagUntil: {}, TagWhile: {},
	TagDataTable: {}, TagExamples: {}, TagSynthetic: {},
	TagSynchronized: {}, TagSynchronised: {}, TagIgnore: {},
}

// IsReserved reports whether name (without the leading @) is one of the
// reserved tags with built-in interpreter meaning.
func IsReserved(name string) bool {
	_, ok := reservedTags[ReservedTag(name)]
	return ok
}

package ast

import "github.com/google/uuid"

// Examples is an outline scenario's data table: a header row plus zero or
// more body rows, each of which the normaliser expands into one concrete
// Scenario.
type Examples struct {
	UUID        uuid.UUID
	SourceRef   SourceRef
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Table       Table
	Expanded    []Scenario
}

// NewExamples constructs an Examples block from its header+body table.
func NewExamples(ref SourceRef, keyword, name string, table Table) Examples {
	return Examples{UUID: uuid.New(), SourceRef: ref, Keyword: keyword, Name: name, Table: table}
}

// NodeType implements Node.
func (Examples) NodeType() NodeType { return NodeExamples }

func (e Examples) WithSourceRef(ref SourceRef) Examples { e.SourceRef = ref; return e }

func (e Examples) WithDescription(d string) Examples { e.Description = d; return e }

func (e Examples) WithTags(tags []Tag) Examples {
	e.Tags = append([]Tag{}, tags...)
	return e
}

func (e Examples) WithExpanded(scenarios []Scenario) Examples {
	e.Expanded = append([]Scenario{}, scenarios...)
	return e
}

// Records returns one header->value map per body row.
func (e Examples) Records() ([]map[string]string, error) {
	return e.Table.Records()
}

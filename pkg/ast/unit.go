package ast

import "github.com/google/uuid"

// Unit is a FeatureUnit: one feature file, its inherited meta files, and an
// optional data record bound from an external CSV/JSON data file
// (spec.md §4.F). The stream assembler produces these; the launcher
// schedules them.
type Unit struct {
	UUID          uuid.UUID
	FeatureFile   string
	MetaFiles     []string
	DataRecord    map[string]string
	HasDataRecord bool
}

// NewUnit constructs a Unit for a feature file with no data record.
func NewUnit(featureFile string, metaFiles []string) Unit {
	return Unit{UUID: uuid.New(), FeatureFile: featureFile, MetaFiles: append([]string{}, metaFiles...)}
}

// NodeType implements Node.
func (Unit) NodeType() NodeType { return NodeUnit }

// WithDataRecord returns a copy of u bound to one record of an external
// data file.
func (u Unit) WithDataRecord(record map[string]string) Unit {
	u.DataRecord = cloneStrMap(record)
	u.HasDataRecord = true
	return u
}

// Name renders a stable diagnostic name for this unit, the feature file
// optionally suffixed by its data record's identity.
func (u Unit) Name() string {
	if !u.HasDataRecord {
		return u.FeatureFile
	}
	return u.FeatureFile + " " + recordSignature(u.DataRecord)
}

func recordSignature(record map[string]string) string {
	if v, ok := record["name"]; ok {
		return "[" + v + "]"
	}
	return ""
}

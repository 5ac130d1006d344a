package ast

import (
	"strings"

	"github.com/google/uuid"
)

// Tag is a parsed `@name` or `@name("value")` annotation. Whitespace in
// either name or value is rejected by the parser before a Tag is ever
// constructed (spec.md §3).
type Tag struct {
	UUID      uuid.UUID
	SourceRef SourceRef
	Name      string
	Value     string
	HasValue  bool
}

// NewTag constructs a bare `@name` tag.
func NewTag(ref SourceRef, name string) Tag {
	return Tag{UUID: uuid.New(), SourceRef: ref, Name: name}
}

// NewTagWithValue constructs a `@name("value")` tag.
func NewTagWithValue(ref SourceRef, name, value string) Tag {
	return Tag{UUID: uuid.New(), SourceRef: ref, Name: name, Value: value, HasValue: true}
}

// NodeType implements Node.
func (Tag) NodeType() NodeType { return NodeTag }

// Reserved reports whether this tag's name is one of the built-in reserved
// tags (spec.md §3).
func (t Tag) Reserved() bool {
	return IsReserved(t.Name)
}

// WithSourceRef returns a copy of t with SourceRef replaced.
func (t Tag) WithSourceRef(ref SourceRef) Tag {
	t.SourceRef = ref
	return t
}

// ParseDataTableArgs splits a @DataTable(horizontal="a,b,c") style tag value
// into its comma-separated names, trimming surrounding whitespace around
// each name. Used by the normaliser to resolve DataTable column identities.
func ParseDataTableArgs(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

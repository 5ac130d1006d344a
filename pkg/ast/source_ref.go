package ast

import "fmt"

// SourceRef locates a node in its originating .feature file and, once the
// normaliser has run, its position in the evaluated tree.
type SourceRef struct {
	URI      string
	Line     int
	Column   int
	NodePath string
}

// WithNodePath returns a copy of the ref with NodePath replaced, leaving the
// receiver untouched — the copy-constructor convention used throughout this
// package.
func (r SourceRef) WithNodePath(path string) SourceRef {
	r.NodePath = path
	return r
}

func (r SourceRef) String() string {
	if r.NodePath != "" {
		return fmt.Sprintf("%s:%d:%d [%s]", r.URI, r.Line, r.Column, r.NodePath)
	}
	return fmt.Sprintf("%s:%d:%d", r.URI, r.Line, r.Column)
}

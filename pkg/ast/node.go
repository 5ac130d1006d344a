package ast

import (
	"fmt"
	"strings"
)

// Node is satisfied by every AST node type; it exists so free functions like
// NodePath and ErrorTrails can be written once against a uniform shape
// instead of once per concrete type.
type Node interface {
	NodeType() NodeType
}

// OccurrenceIn returns the 1-based count of how many times name has appeared
// among names up to and including its last occurrence - the position used
// to build a nodePath segment's "[occurrence]" suffix when more than one
// sibling shares a name (spec.md §3).
func OccurrenceIn(name string, names []string) int {
	occurrence := 0
	for _, n := range names {
		if n == name {
			occurrence++
		}
	}
	return occurrence
}

// OccurrenceIndex returns, for each element of names, the 1-based count of
// how many times that exact string has appeared up to and including that
// position - i.e. the [occurrence] suffix nodePath assignment needs for
// every sibling in one pass.
func OccurrenceIndex(names []string) []int {
	seen := make(map[string]int, len(names))
	out := make([]int, len(names))
	for i, n := range names {
		seen[n]++
		out[i] = seen[n]
	}
	return out
}

// NodePathSegment renders one "name[occurrence]" nodePath segment.
func NodePathSegment(name string, occurrence int) string {
	return fmt.Sprintf("%s[%d]", name, occurrence)
}

// JoinNodePath joins parent and child nodePath segments with "/".
func JoinNodePath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}

// ErrorTrail is one root-to-leaf chain of Steps whose leaf is Failed.
type ErrorTrail struct {
	Steps []Step
}

// String renders the trail as "keyword text -> keyword text -> ...".
func (t ErrorTrail) String() string {
	parts := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		parts[i] = strings.TrimSpace(s.Keyword + " " + s.Text)
	}
	return strings.Join(parts, " -> ")
}

// ErrorTrails walks scenario's steps (background included) and returns one
// trail per Failed leaf step; a StepDef-dispatched step's own trail is
// extended into its body, so a failure three StepDefs deep shows the full
// call chain rather than just the outermost caller.
func ErrorTrails(scenario Scenario, bodies map[string][]Step) []ErrorTrail {
	var trails []ErrorTrail
	for _, step := range scenario.AllSteps() {
		if step.EvalStatus != Failed {
			continue
		}
		trails = append(trails, ErrorTrail{Steps: trailFor(step, bodies)})
	}
	return trails
}

// trailFor follows a Failed step into its StepDef body (if bodies has an
// entry keyed by the step's matched text) to find the innermost failing
// leaf, prepending each caller along the way.
func trailFor(step Step, bodies map[string][]Step) []Step {
	body, ok := bodies[step.Text]
	if !ok {
		return []Step{step}
	}
	for _, child := range body {
		if child.EvalStatus == Failed {
			return append([]Step{step}, trailFor(child, bodies)...)
		}
	}
	return []Step{step}
}

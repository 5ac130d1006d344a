package ast

// Status is a step's (or a composite node's aggregated) evaluation outcome.
// The declaration order below is not the algebra's order: Max and the
// aggregates rank statuses through the rank table further down. The zero
// value is Pending so an unevaluated Step already reports the right thing.
type Status int

const (
	Pending Status = iota
	Passed
	Loaded
	Sustained
	Skipped
	Disabled
	Failed
)

var statusNames = map[Status]string{
	Pending:   "Pending",
	Passed:    "Passed",
	Loaded:    "Loaded",
	Sustained: "Sustained",
	Skipped:   "Skipped",
	Disabled:  "Disabled",
	Failed:    "Failed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "Unknown"
}

// rank gives the status algebra's total order: Passed < Loaded < Sustained <
// Skipped < Pending < Disabled < Failed (spec.md §3 "Status algebra").
// Pending sorts as the initial, not-yet-decided state and is deliberately
// placed between Skipped and Disabled so an aggregate containing both a
// still-Pending step and a Skipped one reports Pending, not Skipped.
var rank = map[Status]int{
	Passed:    0,
	Loaded:    1,
	Sustained: 2,
	Skipped:   3,
	Pending:   4,
	Disabled:  5,
	Failed:    6,
}

// Max returns the higher-ranked of two statuses under the spec's ordering.
func Max(a, b Status) Status {
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// MaxOf folds Max across a slice, returning Passed for an empty slice (a
// composite with no evaluated children has trivially passed).
func MaxOf(statuses []Status) Status {
	result := Passed
	for _, s := range statuses {
		result = Max(result, s)
	}
	return result
}

// Sustain applies the "Sustained absorbs into Passed" rule used when
// aggregating the status of any non-StepDef composite (Scenario, Rule,
// Feature, Background): a soft assertion failure recorded as Sustained on a
// Step must not itself fail or even flag the composite, so the composite's
// own aggregate is normalised back to Passed once Sustained status has been
// accounted for.
func Sustain(s Status) Status {
	if s == Sustained {
		return Passed
	}
	return s
}

// AggregateNonStepDef computes the status of a composite that is NOT a
// StepDef body (Scenario/Rule/Feature/Background): max of children, with
// Sustained absorbed into Passed.
func AggregateNonStepDef(children []Status) Status {
	return Sustain(MaxOf(children))
}

// AggregateStepDef computes the status of a StepDef body: max of children,
// with no absorption — a soft assertion inside a called StepDef still marks
// that StepDef's own aggregate Sustained so callers can tell a StepDef
// "passed cleanly" from "passed via soft assertion".
func AggregateStepDef(children []Status) Status {
	return MaxOf(children)
}

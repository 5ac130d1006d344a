// Package report holds Gwen's result model (spec.md §6 "Reporter
// contract") — SpecResult, ResultsSummary, and the ReportGenerator
// interface the launcher drives through init -> reportDetail* ->
// reportSummary -> close. No concrete formatter (HTML/JUnit/JSON/rp/
// sysout) lives here; those are out-of-scope collaborators behind this
// contract.
package report

import (
	"sort"
	"time"

	"github.com/gwen-io/gwen/pkg/ast"
)

// SpecResult is one FeatureUnit's finalised, immutable outcome.
type SpecResult struct {
	Unit     ast.Unit
	Feature  ast.Feature
	Status   ast.Status
	Started  time.Time
	Finished time.Time
	Err      error

	// Index is the unit's position in the original submission order, the
	// tiebreaker spec.md §5 specifies when two units finish at the same
	// instant.
	Index int
}

// ResultsSummary folds every unit's SpecResult into one run-level outcome,
// ordered finish-time ascending (ties broken by submission order, spec.md
// §5 "Ordering guarantees").
type ResultsSummary struct {
	Results []SpecResult
	Status  ast.Status
	Started time.Time
	Finished time.Time

	// FeatureCounts tallies each result's Status (spec.md §8 S6:
	// "featureCounts = {OK:1, Failed:1}" for two parallel features, one
	// passing and one failing).
	FeatureCounts map[ast.Status]int
}

// NewResultsSummary sorts results by Finished (ties by Index) and
// aggregates their statuses under the non-StepDef rule — a run's overall
// status absorbs Sustained the same way a Feature absorbs its Scenarios'.
func NewResultsSummary(results []SpecResult) ResultsSummary {
	sorted := append([]SpecResult{}, results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Finished.Equal(sorted[j].Finished) {
			return sorted[i].Index < sorted[j].Index
		}
		return sorted[i].Finished.Before(sorted[j].Finished)
	})

	statuses := make([]ast.Status, len(sorted))
	counts := make(map[ast.Status]int, len(sorted))
	var started, finished time.Time
	for i, r := range sorted {
		statuses[i] = r.Status
		counts[r.Status]++
		if started.IsZero() || (!r.Started.IsZero() && r.Started.Before(started)) {
			started = r.Started
		}
		if r.Finished.After(finished) {
			finished = r.Finished
		}
	}

	return ResultsSummary{
		Results:       sorted,
		Status:        ast.AggregateNonStepDef(statuses),
		Started:       started,
		Finished:      finished,
		FeatureCounts: counts,
	}
}

// ReportGenerator is the reporter collaborator contract: already-finalised,
// immutable SpecResult values only — a reporter never mutates or re-derives
// status.
type ReportGenerator interface {
	// Init prepares the reporter for a run, naming the engine/tool version.
	Init(engine string) error
	// ReportDetail emits one unit's result, optionally returning the path of
	// a detail file it wrote.
	ReportDetail(unit ast.Unit, result SpecResult) (string, error)
	// ReportSummary emits the run-level summary once every unit is in.
	ReportSummary(summary ResultsSummary) error
	// Close finalises the reporter, e.g. flushing buffered output.
	Close(engine string, finalStatus ast.Status) error
}

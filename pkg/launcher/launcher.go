// Package launcher implements Gwen's scheduler (spec.md §4.I): sequential
// fold and parallel-by-feature worker pool over FeatureUnits, with the
// ramp-up stagger, failfast-exit, and finish-time-ascending summary
// ordering the concurrency model describes.
package launcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/binding"
	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/logger"
	"github.com/gwen-io/gwen/pkg/normaliser"
	"github.com/gwen-io/gwen/pkg/report"
	"github.com/gwen-io/gwen/pkg/stepengine"
)

// FeatureParser is the out-of-scope Gherkin-parser collaborator (spec.md
// §1): it turns one .feature file into its parsed ast.Feature. Gwen
// consumes an AST from a Cucumber-compatible parser rather than owning a
// tokeniser itself.
type FeatureParser interface {
	Parse(featureFile string) (ast.Feature, error)
}

// MetaParser is the same collaborator for .meta files.
type MetaParser interface {
	Parse(metaFile string) (ast.Meta, error)
}

// Launcher owns one run's engine, parsers, settings, and reporters.
type Launcher struct {
	Engine    *stepengine.Engine
	Feature   FeatureParser
	Meta      MetaParser
	Settings  config.Settings
	Reporters []report.ReportGenerator

	// Tags is the `-t/--tags` include/exclude filter expression list
	// (spec.md §6); empty means every scenario runs.
	Tags []string
}

// New constructs a Launcher.
func New(engine *stepengine.Engine, featureParser FeatureParser, metaParser MetaParser, settings config.Settings, reporters []report.ReportGenerator) *Launcher {
	return &Launcher{
		Engine:    engine,
		Feature:   featureParser,
		Meta:      metaParser,
		Settings:  settings,
		Reporters: reporters,
	}
}

// WithTags sets the tag filter and returns l for chaining.
func (l *Launcher) WithTags(tags []string) *Launcher {
	l.Tags = tags
	return l
}

// Run schedules units sequentially or in parallel-by-feature (per
// parallel), reports every result through the reporter lifecycle, and
// returns the run's ResultsSummary.
func (l *Launcher) Run(ctx context.Context, units []ast.Unit, parallel bool) report.ResultsSummary {
	const engineName = "gwen"

	for _, r := range l.Reporters {
		if err := r.Init(engineName); err != nil {
			logger.Error("launcher: reporter init failed: %v", err)
		}
	}

	var results []report.SpecResult
	if parallel {
		results = l.runParallel(ctx, units)
	} else {
		results = l.runSequential(ctx, units)
	}

	summary := report.NewResultsSummary(results)

	for _, r := range l.Reporters {
		for _, res := range summary.Results {
			if _, err := r.ReportDetail(res.Unit, res); err != nil {
				logger.Error("launcher: reportDetail failed for %s: %v", res.Unit.Name(), err)
			}
		}
		if err := r.ReportSummary(summary); err != nil {
			logger.Error("launcher: reportSummary failed: %v", err)
		}
		if err := r.Close(engineName, summary.Status); err != nil {
			logger.Error("launcher: reporter close failed: %v", err)
		}
	}

	return summary
}

// runSequential folds units into results in order, stopping early once the
// accumulated status is Failed when failfast.exit is set — never in
// dry-run (spec.md §4.I).
func (l *Launcher) runSequential(ctx context.Context, units []ast.Unit) []report.SpecResult {
	results := make([]report.SpecResult, 0, len(units))
	aggregate := ast.Passed
	for i, unit := range units {
		if ctx.Err() != nil {
			break
		}
		result := l.evalUnit(ctx, i, unit)
		results = append(results, result)
		aggregate = ast.Max(aggregate, result.Status)
		if l.Settings.FailfastExit && !l.Settings.DryRun && aggregate == ast.Failed {
			break
		}
	}
	return results
}

// runParallel submits one task per unit to a bounded worker pool, staggering
// the first submissions by the configured ramp-up interval. A Failed result
// under failfast.exit (never in dry-run) cancels the group context so
// unsubmitted units are skipped; units already running are awaited, per
// spec.md §5's SIGINT drain behaviour.
func (l *Launcher) runParallel(ctx context.Context, units []ast.Unit) []report.SpecResult {
	maxWorkers := l.Settings.ParallelMaxThreads
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	rampup := time.Duration(l.Settings.RampupIntervalSeconds) * time.Second

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, groupCtx := errgroup.WithContext(groupCtx)
	sem := make(chan struct{}, maxWorkers)

	results := make([]report.SpecResult, len(units))
	var mu sync.Mutex

	for i, unit := range units {
		i, unit := i, unit
		if groupCtx.Err() != nil {
			break
		}
		if i > 0 && i < maxWorkers && rampup > 0 {
			time.Sleep(rampup)
		}
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			result := l.evalUnit(groupCtx, i, unit)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			if l.Settings.FailfastExit && !l.Settings.DryRun && result.Status == ast.Failed {
				cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]report.SpecResult, 0, len(units))
	for _, r := range results {
		if !r.Finished.IsZero() {
			out = append(out, r)
		}
	}
	return out
}

// evalUnit parses, normalises, and evaluates one FeatureUnit end to end.
func (l *Launcher) evalUnit(ctx context.Context, index int, unit ast.Unit) report.SpecResult {
	started := time.Now()
	unitLog := logger.Get().With("unit_file", unit.FeatureFile)

	spec, err := l.loadSpec(unit)
	if err != nil {
		unitLog.Errorf("load failed: %v", err)
		return report.SpecResult{Unit: unit, Status: ast.Failed, Started: started, Finished: time.Now(), Err: err, Index: index}
	}

	normalised, err := normaliser.Normalise(spec)
	if err != nil {
		unitLog.Errorf("normalise failed: %v", err)
		return report.SpecResult{Unit: unit, Status: ast.Failed, Started: started, Finished: time.Now(), Err: err, Index: index}
	}
	normalised = normalised.WithFeature(filterScenarios(normalised.Feature, l.Tags))
	unitLog = unitLog.With("feature_name", normalised.Feature.Name)

	evalCtx := evalctx.New(ctx, normalised.StepDefs(), l.Settings)
	if unit.HasDataRecord {
		for name, value := range unit.DataRecord {
			binding.DeclareValue(evalCtx.Scope, name, value)
		}
	}

	evaluated, err := l.Engine.RunSpec(evalCtx, normalised)
	finished := time.Now()
	if err != nil {
		unitLog.Errorf("evaluation failed: %v", err)
		return report.SpecResult{Unit: unit, Feature: evaluated.Feature, Status: ast.Failed, Started: started, Finished: finished, Err: err, Index: index}
	}

	status := evaluated.EvalStatus()
	unitLog.Debugf("evaluated to %s", status)
	return report.SpecResult{
		Unit:     unit,
		Feature:  evaluated.Feature,
		Status:   status,
		Started:  started,
		Finished: finished,
		Index:    index,
	}
}

// loadSpec parses unit's feature file and every inherited meta file into an
// ast.Spec, via the FeatureParser/MetaParser collaborators.
func (l *Launcher) loadSpec(unit ast.Unit) (ast.Spec, error) {
	feature, err := l.Feature.Parse(unit.FeatureFile)
	if err != nil {
		return ast.Spec{}, gerr.Wrap(gerr.Syntax, err, "failed to parse feature file %s", unit.FeatureFile)
	}

	metas := make([]ast.Meta, 0, len(unit.MetaFiles))
	for _, metaFile := range unit.MetaFiles {
		m, err := l.Meta.Parse(metaFile)
		if err != nil {
			return ast.Spec{}, gerr.Wrap(gerr.Syntax, err, "failed to parse meta file %s", metaFile)
		}
		metas = append(metas, m)
	}

	return ast.NewSpec(feature, unit.FeatureFile).WithMetaSpec(metas), nil
}

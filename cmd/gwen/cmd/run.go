package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/launcher"
	"github.com/gwen-io/gwen/pkg/logger"
	"github.com/gwen-io/gwen/pkg/report"
	"github.com/gwen-io/gwen/pkg/stepengine"
	"github.com/gwen-io/gwen/pkg/stream"
)

// runOptions backs the CLI flag table (spec.md §6).
var runOptions = config.GwenOptions{}

var settingsFile string

// finalStatus is the last completed run's aggregate status, consulted by
// main.main() for the exit-code rule (spec.md §6: "0 Passed/Skipped/
// Sustained/Loaded, 1 Failed/Pending/otherwise"). Nil until a run finishes.
var finalStatus *ast.Status

func registerRunFlags(root *cobra.Command) {
	flags := root.Flags()
	flags.BoolVarP(&runOptions.Batch, "batch", "b", false, "non-interactive; non-zero exit on failure; no REPL")
	flags.BoolVarP(&runOptions.Parallel, "parallel", "p", false, "parallel execution of feature units")
	flags.BoolVarP(&runOptions.DryRun, "dry-run", "n", false, "translate + interpolate, do not execute side effects")
	flags.StringVarP(&runOptions.ReportDir, "report", "r", "", "report output directory")
	var formats string
	flags.StringVarP(&formats, "formats", "f", "", "comma list from {html, junit, json, rp, sysout}")
	var tags string
	flags.StringVarP(&tags, "tags", "t", "", "include/exclude tag filter: @x,~@y,…")
	var metaFiles string
	flags.StringVarP(&metaFiles, "meta", "m", "", "additional meta files, comma separated")
	flags.StringVarP(&runOptions.InputData, "input-data", "i", "", "CSV/JSON data file")
	flags.StringVar(&settingsFile, "settings", "", "path to a gwen.* settings YAML file")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		runOptions.Formats = splitNonEmpty(formats)
		runOptions.Tags = splitNonEmpty(tags)
		runOptions.MetaFiles = splitNonEmpty(metaFiles)
		runOptions.Paths = args
		return runGwen(cmd.Context(), runOptions)
	}
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// runGwen assembles the feature stream, resolves Settings, and drives
// launcher.Run — the load → validate → execute shape the cluster create
// command follows, adapted from one pipeline run to one FeatureUnit stream.
func runGwen(ctx context.Context, opts config.GwenOptions) error {
	log := logger.Get()
	defer logger.SyncGlobal()

	if len(opts.Paths) == 0 {
		return gerr.New(gerr.Syntax, "at least one feature path is required")
	}
	if FeatureParser == nil {
		return gerr.New(gerr.Internal, "gwen: no FeatureParser registered; an embedding program must set cmd.FeatureParser to a Cucumber-compatible Gherkin parser before calling Execute")
	}

	settings, err := config.Load(settingsFile)
	if err != nil {
		log.Errorf("failed to load settings: %v", err)
		return err
	}
	settings.DryRun = settings.DryRun || opts.DryRun
	opts.Settings = settings

	log.Infof("assembling feature stream from %v", opts.Paths)
	suites, err := stream.Assemble(opts.Paths, opts.InputData)
	if err != nil {
		log.Errorf("failed to assemble feature stream: %v", err)
		return err
	}

	var units []ast.Unit
	for _, suite := range suites {
		for _, unit := range suite.Units {
			// -m meta files follow the unit's inherited ones.
			unit.MetaFiles = append(append([]string{}, unit.MetaFiles...), opts.MetaFiles...)
			units = append(units, unit)
		}
	}
	if len(units) == 0 {
		log.Warnf("no feature units discovered under %v", opts.Paths)
		return nil
	}

	var reporters []report.ReportGenerator
	if ReporterFactory != nil {
		reporters = ReporterFactory(opts)
	}
	l := launcher.New(stepengine.New(nil), FeatureParser, MetaParser, settings, reporters).WithTags(opts.Tags)

	log.Infof("evaluating %d feature unit(s), parallel=%v", len(units), opts.Parallel)
	summary := l.Run(ctx, units, opts.Parallel)
	finalStatus = &summary.Status

	log.Infof("run complete: status=%s", summary.Status)
	return nil
}

// Passing reports whether status earns exit code 0 under spec.md §6's rule.
func Passing(status ast.Status) bool {
	switch status {
	case ast.Passed, ast.Skipped, ast.Sustained, ast.Loaded:
		return true
	default:
		return false
	}
}

// FinalStatus returns the last completed run's aggregate status and whether
// one has completed yet.
func FinalStatus() (ast.Status, bool) {
	if finalStatus == nil {
		return ast.Pending, false
	}
	return *finalStatus, true
}

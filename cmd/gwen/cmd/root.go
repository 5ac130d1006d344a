// Package cmd wires Gwen's CLI flag table (spec.md §6) into a
// config.GwenOptions value and hands it to pkg/launcher. Flag *parsing* is
// the out-of-scope CLI collaborator the spec names; this package is the
// thin cobra-based instance of that collaborator, not a core component.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gwen-io/gwen/pkg/config"
	"github.com/gwen-io/gwen/pkg/launcher"
	"github.com/gwen-io/gwen/pkg/logger"
	"github.com/gwen-io/gwen/pkg/report"
)

// FeatureParser and MetaParser are the Gherkin-parser collaborators this
// binary needs but does not implement (spec.md §1: "we consume an AST from
// a Cucumber-compatible Gherkin parser"). An embedding program must set
// these before calling Execute; gwen ships the wiring around a parser, not
// the parser itself.
//
// ReporterFactory builds the reporters for one run from the parsed
// GwenOptions (so a concrete reporter — itself an out-of-scope formatter
// collaborator, spec.md §1 — can see --report/--formats). A nil factory
// means no reporter runs.
var (
	FeatureParser   launcher.FeatureParser
	MetaParser      launcher.MetaParser
	ReporterFactory func(opts config.GwenOptions) []report.ReportGenerator
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "gwen [paths...]",
	Short: "gwen interprets Gherkin feature specifications",
	Long: `gwen is a Gherkin feature-specification interpreter: it discovers
feature files under the given paths, evaluates their scenarios against a
bound StepDef library, and reports the results.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logOpts := logger.DefaultOptions()
		logOpts.ColorConsole = true
		if verboseFlag {
			logOpts.ConsoleLevel = logger.DebugLevel
		}
		logger.Init(logOpts)
		return nil
	},
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.AddCommand(initCmd)
	registerRunFlags(rootCmd)
}

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/logger"
)

const sampleFeature = `Feature: Sample feature

  Scenario: A first scenario
    Given a bound value
`

const sampleSettings = `gwen.state.level: feature
gwen.feature.failfast.exit: false
gwen.parallel.maxThreads: 4
gwen.rampup.interval.seconds: 0
gwen.assertion.mode: hard
gwen.dryRun: false
`

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "initialise a working directory (spec.md §6 --init)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return initWorkingDir(dir)
	},
}

// initWorkingDir scaffolds the directory layout a fresh gwen project
// expects: a features/ directory with one sample .feature file, a
// meta/ directory, and a sample settings YAML (its values are a starting
// point, not a copy of config.DefaultSettings).
func initWorkingDir(dir string) error {
	log := logger.Get()

	dirs := []string{
		dir,
		filepath.Join(dir, "features"),
		filepath.Join(dir, "meta"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return gerr.Wrap(gerr.IO, err, "failed to create directory %s", d)
		}
	}

	sample := filepath.Join(dir, "features", "sample.feature")
	if err := writeIfAbsent(sample, sampleFeature); err != nil {
		return err
	}

	settingsPath := filepath.Join(dir, "gwen.yaml")
	if err := writeIfAbsent(settingsPath, sampleSettings); err != nil {
		return err
	}

	log.Infof("initialised gwen working directory at %s", dir)
	return nil
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return gerr.Wrap(gerr.IO, err, "failed to write %s", path)
	}
	return nil
}

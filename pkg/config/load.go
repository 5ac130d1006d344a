package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gwen-io/gwen/pkg/gerr"
)

// recognised environment variables (spec.md §6).
const (
	EnvDryRun   = "GWEN_DRY_RUN"
	EnvParallel = "GWEN_PARALLEL"
)

// Load reads Settings from an optional YAML properties file, layers them
// over the built-in defaults, applies the recognised environment variable
// fallbacks exactly once, and validates the result.
//
// path may be empty, in which case only defaults + env vars apply.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, gerr.Wrap(gerr.IO, err, "failed to read settings file %s", path)
		}
		var loaded Settings
		if err := yaml.Unmarshal(content, &loaded); err != nil {
			return Settings{}, gerr.Wrap(gerr.Syntax, err, "failed to parse settings file %s", path)
		}
		settings = ApplyDefaults(mergeNonZero(settings, loaded))
	}

	applyEnvDefaults(&settings)

	if err := Validate(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// mergeNonZero overlays override's explicitly-set fields onto base.
func mergeNonZero(base, override Settings) Settings {
	if override.StateLevel != "" {
		base.StateLevel = override.StateLevel
	}
	if override.AssertionMode != "" {
		base.AssertionMode = override.AssertionMode
	}
	if override.ParallelMaxThreads != 0 {
		base.ParallelMaxThreads = override.ParallelMaxThreads
	}
	if override.RampupIntervalSeconds != 0 {
		base.RampupIntervalSeconds = override.RampupIntervalSeconds
	}
	if override.MaxIterations != 0 {
		base.MaxIterations = override.MaxIterations
	}
	if override.IterationDelay != 0 {
		base.IterationDelay = override.IterationDelay
	}
	base.FailfastExit = base.FailfastExit || override.FailfastExit
	base.DryRun = base.DryRun || override.DryRun
	return base
}

// applyEnvDefaults applies GWEN_DRY_RUN / GWEN_PARALLEL only when the
// setting has not already been given an explicit value, per the Design Note
// "Environment-variable defaults are applied once at startup".
func applyEnvDefaults(s *Settings) {
	if v, ok := os.LookupEnv(EnvDryRun); ok && !s.DryRun {
		if b, err := strconv.ParseBool(v); err == nil {
			s.DryRun = b
		}
	}
	if v, ok := os.LookupEnv(EnvParallel); ok {
		if b, err := strconv.ParseBool(v); err == nil && b {
			// parallel mode itself is GwenOptions.Parallel, which this function
			// does not set; GWEN_PARALLEL only raises a thread count of 1 or
			// less to the default.
			if s.ParallelMaxThreads <= 1 {
				s.ParallelMaxThreads = DefaultSettings().ParallelMaxThreads
			}
		}
	}
}

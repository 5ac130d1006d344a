package config

import (
	"runtime"
	"time"
)

// DefaultSettings returns the built-in defaults, applied before any YAML
// file or environment variable is consulted.
func DefaultSettings() Settings {
	return Settings{
		StateLevel:            StateLevelFeature,
		FailfastExit:          false,
		ParallelMaxThreads:    runtime.NumCPU(),
		RampupIntervalSeconds: 0,
		AssertionMode:         AssertionHard,
		DryRun:                false,
		MaxIterations:         10000,
		IterationDelay:        0,
	}
}

// ApplyDefaults fills zero-valued fields of s with DefaultSettings, so a
// partially populated YAML file (or a Settings built by hand in tests) only
// needs to specify what it overrides.
func ApplyDefaults(s Settings) Settings {
	d := DefaultSettings()
	if s.StateLevel == "" {
		s.StateLevel = d.StateLevel
	}
	if s.ParallelMaxThreads == 0 {
		s.ParallelMaxThreads = d.ParallelMaxThreads
	}
	if s.AssertionMode == "" {
		s.AssertionMode = d.AssertionMode
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = d.MaxIterations
	}
	return s
}

// DefaultIterationDelay is used when a composite loop does not configure one.
const DefaultIterationDelay = 0 * time.Millisecond

package config

import "github.com/gwen-io/gwen/pkg/gerr"

// Validate checks that Settings holds one of each enum's recognised values
// and that numeric fields are sane.
func Validate(s Settings) error {
	switch s.StateLevel {
	case StateLevelFeature, StateLevelScenario, StateLevelStepDef:
	default:
		return gerr.New(gerr.Syntax, "invalid gwen.state.level %q", s.StateLevel)
	}
	switch s.AssertionMode {
	case AssertionHard, AssertionSoft:
	default:
		return gerr.New(gerr.Syntax, "invalid gwen.assertion.mode %q", s.AssertionMode)
	}
	if s.ParallelMaxThreads < 1 {
		return gerr.New(gerr.Syntax, "gwen.parallel.maxThreads must be >= 1, got %d", s.ParallelMaxThreads)
	}
	if s.RampupIntervalSeconds < 0 {
		return gerr.New(gerr.Syntax, "gwen.rampup.interval.seconds must be >= 0, got %d", s.RampupIntervalSeconds)
	}
	return nil
}

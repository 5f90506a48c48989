// config.go — Correlator tunables.
package correlate

import "time"

// Config holds the correlator's tunable thresholds.
type Config struct {
	// MaxCorrelationWindow bounds how far back an action may precede a
	// request and still be considered a candidate cause.
	MaxCorrelationWindow time.Duration

	// MinConfidence is the floor below which a Layer 2/3 candidate is
	// discarded rather than reported.
	MinConfidence float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxCorrelationWindow: 2000 * time.Millisecond,
		MinConfidence:        0.20,
	}
}

// negativeToleranceMs is the small negative slack absorbing clock skew
// between a request's start time and the action that triggered it: a
// request may appear to start up to 10ms before its triggering action.
const negativeToleranceMs = 10.0

// temporalChainGapMs is Layer 4's maximum gap between a correlated
// parent's end time and this request's start time.
const temporalChainGapMs = 100.0

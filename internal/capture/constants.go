// constants.go — Tunable defaults for the Event Ingester.
package capture

import "time"

const (
	// DefaultMaxRequests bounds the finalized store; oldest record evicted on overflow.
	DefaultMaxRequests = 1000

	// DefaultMaxBodySize is the truncation limit for captured text response bodies, in characters.
	DefaultMaxBodySize = 524288

	// DefaultNetworkQuietPeriod is how long the in-flight count must stay at zero
	// before WaitForQuiet reports quiescence.
	DefaultNetworkQuietPeriod = 500 * time.Millisecond

	truncationMarker = "...[truncated]"
)

// binaryMediaPatterns excludes binary media from the body-fetch path.
// A media type is text-like if it does not match any of these substring
// patterns (checked case-insensitively).
var binaryMediaPatterns = []string{"image/", "video/", "audio/", "font", "wasm"}

func isBinaryMediaType(mediaType string) bool {
	mt := normalizeMediaType(mediaType)
	for _, p := range binaryMediaPatterns {
		if containsFold(mt, p) {
			return true
		}
	}
	return false
}

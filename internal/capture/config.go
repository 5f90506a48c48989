// config.go — Event Ingester configuration.
package capture

import "time"

// Config holds the Ingester's tunables. All fields have sane defaults;
// DefaultConfig returns a ready-to-use value.
type Config struct {
	MaxRequests        int
	MaxBodySize        int
	ExcludePatterns    []string
	NetworkQuietPeriod time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxRequests:        DefaultMaxRequests,
		MaxBodySize:        DefaultMaxBodySize,
		ExcludePatterns:    nil,
		NetworkQuietPeriod: DefaultNetworkQuietPeriod,
	}
}

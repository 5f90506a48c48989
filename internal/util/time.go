// time.go — Timestamp parsing for the `since` query parameter accepted by
// the daemon's HTTP surface (cmd/causalityd).
package util

import (
	"strconv"
	"time"
)

// ParseTimestamp parses a `since` value in any of the formats a client is
// likely to already have on hand: RFC3339Nano, RFC3339, or a bare integer
// giving Unix milliseconds — the same unit RequestRecord.StartMs uses
// internally, so a caller re-issuing a timestamp it read back from a
// /requests response doesn't need to reformat it first.
// Returns zero time on failure.
func ParseTimestamp(s string) time.Time {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

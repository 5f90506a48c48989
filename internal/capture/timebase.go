// timebase.go — Reconciling the debug protocol's two clocks.
//
// The source reports wall-clock time (seconds since epoch) only on
// RequestSent events, and a monotonic time (seconds since an arbitrary
// origin) on every event. The offset between them is learned once, from
// the very first RequestSent the Ingester ever sees, and used to project
// every later monotonic-only timestamp (ResponseReceived, LoadingFinished,
// LoadingFailed) into the same wall-clock millisecond scale. Before the
// offset is known, a raw monotonic timestamp must never be projected.
package capture

// recordOffsetIfUnknown learns the offset from a RequestSent event's own
// pair of timestamps. Must be called with mu held.
func (i *Ingester) recordOffsetIfUnknown(wallTime, monotonicTime float64) {
	if i.offsetKnown {
		return
	}
	i.timestampOffset = wallTime - monotonicTime
	i.offsetKnown = true
}

// wallMillis converts a RequestSent event's own wall-clock seconds into
// the millisecond scale every timing field is stored in.
func wallMillis(wallTimeSeconds float64) int64 {
	return int64(wallTimeSeconds * 1000)
}

// projectMonotonic converts a monotonic-only timestamp to wall-clock
// milliseconds using the learned offset. ok is false if the offset is not
// yet known, in which case the caller must drop the event rather than use
// a raw, unprojected value.
func (i *Ingester) projectMonotonic(monotonicTime float64) (ms int64, ok bool) {
	if !i.offsetKnown {
		return 0, false
	}
	return int64((monotonicTime + i.timestampOffset) * 1000), true
}

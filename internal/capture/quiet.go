// quiet.go — Network-quiescence waiting, used by callers that need to know
// when a burst of requests triggered by an action has settled.
package capture

import (
	"context"
	"time"
)

// WaitForQuiet blocks until the in-flight request count has stayed at zero
// for the Ingester's configured NetworkQuietPeriod, or timeout elapses, or
// ctx is cancelled. Returns true if quiescence was observed.
func (i *Ingester) WaitForQuiet(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var quietSince time.Time
	for {
		if i.PendingCount() == 0 {
			if quietSince.IsZero() {
				quietSince = time.Now()
			}
			if time.Since(quietSince) >= i.cfg.NetworkQuietPeriod {
				return true
			}
		} else {
			quietSince = time.Time{}
		}

		if time.Now().After(deadline) {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

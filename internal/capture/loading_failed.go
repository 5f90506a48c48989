// loading_failed.go — Handling Network.loadingFailed: commit a failed
// request into the store without attempting a body fetch.
package capture

import "github.com/netcausal/browsercausality/internal/types"

// IngestLoadingFailed consumes a LoadingFailedEvent. A failed request
// always commits, even if the timestamp offset is not yet known — the
// end time then falls back to the request's own start time.
func (i *Ingester) IngestLoadingFailed(evt types.LoadingFailedEvent) {
	if evt.ID == "" {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	rec, ok := i.pending[evt.ID]
	if !ok {
		return
	}
	delete(i.pending, evt.ID)

	endMs, ok := i.projectMonotonic(evt.MonotonicTime)
	if !ok {
		endMs = rec.StartMs
	}
	rec.Failed = true
	rec.ErrorText = evt.ErrorText
	if rec.Status == 0 {
		rec.Status = 0
		rec.StatusText = evt.ErrorText
	}
	rec.EndMs = endMs
	rec.DurationMs = endMs - rec.StartMs

	i.insertIntoStoreLocked(rec)
}

// response_received.go — Handling Network.responseReceived events. This
// only annotates the pending record; finalization waits for
// loadingFinished or loadingFailed.
package capture

import "github.com/netcausal/browsercausality/internal/types"

// IngestResponseReceived consumes a ResponseReceivedEvent. If no pending
// request matches the ID (unknown ID, already finalized, or arrived before
// the timestamp offset was learned), the event is dropped silently.
func (i *Ingester) IngestResponseReceived(evt types.ResponseReceivedEvent) {
	if evt.ID == "" {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	rec, ok := i.pending[evt.ID]
	if !ok {
		return
	}
	responseMs, ok := i.projectMonotonic(evt.MonotonicTime)
	if !ok {
		return
	}

	rec.Status = evt.Status
	rec.StatusText = evt.StatusText
	rec.ResponseHeaders = evt.Headers.Clone()
	rec.MediaType = normalizeMediaType(evt.MimeType)
	rec.ResponseMs = responseMs
	rec.HasResponse = true
	if rec.ResourceKind == types.ResourceOther && evt.Type != "" {
		rec.ResourceKind = resourceKindFromHint(evt.Type)
	}
}

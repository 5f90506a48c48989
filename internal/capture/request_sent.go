// request_sent.go — Handling Network.requestWillBeSent events: new request
// creation, redirect coalescing, and preflight pairing.
package capture

import "github.com/netcausal/browsercausality/internal/types"

// IngestRequestSent consumes a RequestSentEvent. A malformed event (missing
// ID or URL) is dropped silently — the source is authoritative and errors
// here are never surfaced.
func (i *Ingester) IngestRequestSent(evt types.RequestSentEvent) {
	if evt.ID == "" || evt.URL == "" {
		return
	}
	if i.urlExcluded(evt.URL) {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.recordOffsetIfUnknown(evt.WallTime, evt.MonotonicTime)
	start := wallMillis(evt.WallTime)

	if existing, inFlight := i.pending[evt.ID]; inFlight && evt.Redirect != nil {
		i.coalesceRedirectLocked(existing, evt, start)
		return
	}

	rec := &types.RequestRecord{
		ID:              evt.ID,
		Index:           i.nextIndex,
		URL:             evt.URL,
		Method:          evt.Method,
		RequestHeaders:  evt.Headers.Clone(),
		RequestBody:     evt.PostData,
		HasRequestBody:  evt.HasPostData,
		ResourceKind:    resourceKindFromHint(evt.Type),
		Initiator:       evt.Initiator,
		StartMs:         start,
	}
	i.nextIndex++

	if evt.Initiator.Kind == types.InitiatorPreflight && evt.Initiator.PreflightTargetID != "" {
		rec.PreflightFor = evt.Initiator.PreflightTargetID
		if target, ok := i.findByIDLocked(evt.Initiator.PreflightTargetID); ok {
			target.PreflightRequestID = rec.ID
		}
	} else {
		// A non-preflight request may be the target of a preflight that
		// already arrived (out-of-order delivery). Back-fill either way.
		if pf, ok := i.findPreflightForLocked(rec.ID); ok {
			rec.PreflightRequestID = pf.ID
		}
	}

	i.pending[rec.ID] = rec
}

// coalesceRedirectLocked folds a redirect-bearing RequestSent into the
// existing pending record for the same ID: append the prior hop, then
// overwrite URL/method/headers/body/start from the new event. No new store
// slot is allocated. Must be called with mu held.
func (i *Ingester) coalesceRedirectLocked(rec *types.RequestRecord, evt types.RequestSentEvent, start int64) {
	rec.RedirectChain = append(rec.RedirectChain, types.RedirectHop{
		URL:     rec.URL,
		Status:  evt.Redirect.Status,
		Headers: evt.Redirect.Headers.Clone(),
	})
	rec.URL = evt.URL
	rec.Method = evt.Method
	rec.RequestHeaders = evt.Headers.Clone()
	rec.RequestBody = evt.PostData
	rec.HasRequestBody = evt.HasPostData
	rec.StartMs = start
}

// findByIDLocked looks up a request by ID in both the in-flight set and the
// finalized store. Must be called with mu held.
func (i *Ingester) findByIDLocked(id string) (*types.RequestRecord, bool) {
	if rec, ok := i.pending[id]; ok {
		return rec, true
	}
	if pos, ok := i.idPosition[id]; ok {
		if rec, ok := i.store.At(pos); ok {
			return rec, true
		}
	}
	return nil, false
}

// findPreflightForLocked scans in-flight and finalized records for one
// whose PreflightFor equals targetID. Must be called with mu held.
func (i *Ingester) findPreflightForLocked(targetID string) (*types.RequestRecord, bool) {
	for _, rec := range i.pending {
		if rec.PreflightFor == targetID {
			return rec, true
		}
	}
	for _, rec := range i.store.ReadAll() {
		if rec.PreflightFor == targetID {
			return rec, true
		}
	}
	return nil, false
}

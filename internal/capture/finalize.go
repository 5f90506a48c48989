// finalize.go — Handling Network.loadingFinished: commit a completed
// request into the store, optionally fetching its response body first.
//
// The body fetch happens outside the Ingester's lock since it may block on
// I/O (e.g. a CDP round-trip). The generation counter recorded before the
// fetch started is checked again on return; if Clear() ran in the
// meantime, the fetch result is discarded rather than committed into a
// store that has moved on.
package capture

import (
	"fmt"

	"github.com/netcausal/browsercausality/internal/types"
)

// IngestLoadingFinished consumes a LoadingFinishedEvent, completing the
// matching pending record and committing it into the store.
func (i *Ingester) IngestLoadingFinished(evt types.LoadingFinishedEvent) {
	if evt.ID == "" {
		return
	}

	i.mu.Lock()
	rec, ok := i.pending[evt.ID]
	if !ok {
		i.mu.Unlock()
		return
	}
	endMs, ok := i.projectMonotonic(evt.MonotonicTime)
	if !ok {
		i.mu.Unlock()
		return
	}
	delete(i.pending, evt.ID)
	rec.EndMs = endMs
	rec.DurationMs = endMs - rec.StartMs
	rec.ResponseSize = evt.EncodedDataLength

	fetch := i.fetchBody
	gen := i.generation
	maxBody := i.cfg.MaxBodySize
	needsBody := fetch != nil && !isBinaryMediaType(rec.MediaType)
	i.mu.Unlock()

	if needsBody {
		i.fetchAndCommit(rec, gen, maxBody, fetch)
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.generation != gen {
		return
	}
	i.insertIntoStoreLocked(rec)
}

// fetchAndCommit retrieves a finalized record's response body and commits
// it, unless a Clear() advanced the generation counter while the fetch was
// in flight.
func (i *Ingester) fetchAndCommit(rec *types.RequestRecord, gen int64, maxBody int, fetch BodyFetcher) {
	if result, err := fetch(rec.ID); err == nil && result != nil {
		if result.Base64Encoded {
			rec.ResponseBody = fmt.Sprintf("[base64 encoded, %d chars]", len(result.Body))
			rec.ResponseBodyEnc = types.BodyEncodingBase64
		} else {
			rec.ResponseBody, _ = truncateText(result.Body, maxBody)
			rec.ResponseBodyEnc = types.BodyEncodingText
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.generation != gen {
		return
	}
	i.insertIntoStoreLocked(rec)
}

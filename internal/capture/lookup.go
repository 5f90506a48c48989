// lookup.go — Read access into the finalized store, used by the query
// layer and by tests. Not used internally during ingestion (see
// findByIDLocked in request_sent.go for the ingestion-path equivalent).
package capture

import "github.com/netcausal/browsercausality/internal/types"

// GetByID returns the finalized record with the given ID, if still
// resident in the store. Pending (not-yet-finalized) records are not
// visible here.
func (i *Ingester) GetByID(id string) (*types.RequestRecord, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	pos, ok := i.idPosition[id]
	if !ok {
		return nil, false
	}
	return i.store.At(pos)
}

// Snapshot returns every finalized record currently in the store, oldest
// first. The returned slice is safe to read without further locking.
func (i *Ingester) Snapshot() []*types.RequestRecord {
	return i.store.ReadAll()
}

// store.go — Bookkeeping for moving a finalized record into the bounded
// store and keeping idPosition in sync with the ring buffer's own eviction.
package capture

import "github.com/netcausal/browsercausality/internal/types"

// insertIntoStoreLocked writes a finalized record into the store, evicting
// the oldest entry's ID mapping first if the store is at capacity. Must be
// called with mu held.
func (i *Ingester) insertIntoStoreLocked(rec *types.RequestRecord) {
	if i.store.Len() == i.store.Cap() {
		oldestPos := i.store.GetCurrentPosition() - int64(i.store.Cap())
		if evicted, ok := i.store.At(oldestPos); ok {
			delete(i.idPosition, evicted.ID)
		}
	}
	pos := i.store.GetCurrentPosition()
	i.store.WriteOne(rec)
	i.idPosition[rec.ID] = pos
}

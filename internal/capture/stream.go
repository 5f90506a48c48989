// stream.go — Cursor-based incremental reads over the finalized store, for
// consumers (e.g. a long-poll HTTP endpoint) that want only what's new
// since their last read instead of re-filtering a full snapshot every
// time.
package capture

import (
	"time"

	"github.com/netcausal/browsercausality/internal/buffers"
	"github.com/netcausal/browsercausality/internal/types"
)

// SnapshotFiltered returns finalized records passing filter, oldest
// first, stopping early once limit matches are found (limit <= 0 means
// unbounded).
func (i *Ingester) SnapshotFiltered(filter func(*types.RequestRecord) bool, limit int) []*types.RequestRecord {
	return i.store.ReadAllWithFilter(filter, limit)
}

// ReadSince returns records added after cursor that pass filter (nil
// matches everything), along with a cursor positioned for the next call.
// If cursor.Position has already been evicted, reading resumes from the
// oldest record still resident rather than erroring.
func (i *Ingester) ReadSince(cursor buffers.BufferCursor, filter func(*types.RequestRecord) bool, limit int) ([]*types.RequestRecord, buffers.BufferCursor) {
	if filter == nil {
		return i.store.ReadFrom(cursor)
	}
	return i.store.ReadFromWithFilter(cursor, filter, limit)
}

// CursorAtTime returns a cursor positioned at the first finalized record
// added at or after t, for callers that want to start streaming from a
// point in time rather than a known position. If every resident record
// predates t, the cursor is positioned at the current write head so the
// next ReadSince call returns nothing until new records arrive.
func (i *Ingester) CursorAtTime(t time.Time) buffers.BufferCursor {
	if pos := i.store.FindPositionAtTime(t); pos >= 0 {
		return buffers.BufferCursor{Position: pos, Timestamp: t}
	}
	return buffers.BufferCursor{Position: i.store.GetCurrentPosition(), Timestamp: t}
}

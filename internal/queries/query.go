// query.go — The Query Layer: filter/sort/limit over a capture store's
// finalized requests. Takes a narrow Store interface rather than
// depending on internal/capture directly, so it can be exercised against
// a fake store in tests.
package queries

import (
	"sort"

	"github.com/netcausal/browsercausality/internal/buffers"
	"github.com/netcausal/browsercausality/internal/types"
)

// Store is the read surface the Query Layer needs from a capture store.
type Store interface {
	Snapshot() []*types.RequestRecord
	GetByID(id string) (*types.RequestRecord, bool)

	// SnapshotFiltered returns finalized records passing filter, oldest
	// first, stopping early once limit matches are found (limit <= 0
	// means unbounded).
	SnapshotFiltered(filter func(*types.RequestRecord) bool, limit int) []*types.RequestRecord

	// ReadSince returns records added after cursor that pass filter,
	// along with a cursor positioned for the next call.
	ReadSince(cursor buffers.BufferCursor, filter func(*types.RequestRecord) bool, limit int) ([]*types.RequestRecord, buffers.BufferCursor)
}

// Layer is the Query Layer over a single Store.
type Layer struct {
	store Store
}

// NewLayer constructs a Query Layer reading from store.
func NewLayer(store Store) *Layer {
	return &Layer{store: store}
}

// GetRequests returns finalized records matching filter, sorted by
// monotonic index (insertion order), with filter.Limit applied last.
// The store returns records in commit order, which differs from index
// order when requests finish out of order, so every match is collected
// and sorted before the limit is applied.
func (l *Layer) GetRequests(filter Filter) []*types.RequestRecord {
	matched := l.store.SnapshotFiltered(filter.Predicate(), 0)
	sort.Slice(matched, func(i, j int) bool { return matched[i].Index < matched[j].Index })
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched
}

// StreamSince returns records added after cursor that match filter
// (filter.Limit still applies), along with a cursor positioned for the
// next call. Intended for long-poll/SSE-style consumers that only want
// what's new since their last read.
func (l *Layer) StreamSince(cursor buffers.BufferCursor, filter Filter) ([]*types.RequestRecord, buffers.BufferCursor) {
	return l.store.ReadSince(cursor, filter.Predicate(), filter.Limit)
}

// GetRequest returns a single finalized record by ID.
func (l *Layer) GetRequest(id string) (*types.RequestRecord, bool) {
	return l.store.GetByID(id)
}

// GetRequestsSince returns finalized records whose start time is at or
// after sinceMs, sorted by insertion order.
func (l *Layer) GetRequestsSince(sinceMs int64) []*types.RequestRecord {
	return l.GetRequests(Filter{MinStartMs: sinceMs})
}

package queries

import (
	"testing"

	"github.com/netcausal/browsercausality/internal/buffers"
	"github.com/netcausal/browsercausality/internal/types"
)

type fakeStore struct {
	records []*types.RequestRecord
}

func (f *fakeStore) Snapshot() []*types.RequestRecord { return f.records }
func (f *fakeStore) GetByID(id string) (*types.RequestRecord, bool) {
	for _, r := range f.records {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (f *fakeStore) SnapshotFiltered(filter func(*types.RequestRecord) bool, limit int) []*types.RequestRecord {
	var out []*types.RequestRecord
	for _, r := range f.records {
		if filter == nil || filter(r) {
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// ReadSince treats cursor.Position as an index into insertion order, the
// same semantics RingBuffer.ReadFrom provides over a real store.
func (f *fakeStore) ReadSince(cursor buffers.BufferCursor, filter func(*types.RequestRecord) bool, limit int) ([]*types.RequestRecord, buffers.BufferCursor) {
	var out []*types.RequestRecord
	for i := cursor.Position; i < int64(len(f.records)); i++ {
		r := f.records[i]
		if filter == nil || filter(r) {
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, buffers.BufferCursor{Position: int64(len(f.records))}
}

func newFixtureStore() *fakeStore {
	return &fakeStore{records: []*types.RequestRecord{
		{ID: "r1", Index: 0, URL: "https://api.example.com/users", Method: "GET", Status: 200, ResourceKind: types.ResourceXHR, StartMs: 100},
		{ID: "r2", Index: 1, URL: "https://api.example.com/orders", Method: "POST", Status: 201, ResourceKind: types.ResourceFetch, StartMs: 200},
		{ID: "r3", Index: 2, URL: "https://cdn.example.com/app.js", Method: "GET", Status: 200, ResourceKind: types.ResourceScript, StartMs: 300},
		{ID: "r4", Index: 3, URL: "https://api.example.com/users/5", Method: "DELETE", Status: 404, ResourceKind: types.ResourceXHR, StartMs: 400},
	}}
}

func TestGetRequestsFilterComposition(t *testing.T) {
	layer := NewLayer(newFixtureStore())

	byURL := layer.GetRequests(Filter{URLPattern: "api.example.com"})
	byMethod := layer.GetRequests(Filter{Method: "GET"})
	both := layer.GetRequests(Filter{URLPattern: "api.example.com", Method: "GET"})

	urlSet := toIDSet(byURL)
	methodSet := toIDSet(byMethod)
	bothSet := toIDSet(both)

	for id := range bothSet {
		if !urlSet[id] || !methodSet[id] {
			t.Fatalf("expected composed filter result %q to be in both single-filter sets", id)
		}
	}
	for id := range urlSet {
		if methodSet[id] && !bothSet[id] {
			t.Fatalf("expected %q in both-filter result since it satisfies both single filters", id)
		}
	}
}

func TestGetRequestsInvalidRegexDegradesToSubstring(t *testing.T) {
	store := newFixtureStore()
	store.records = append(store.records, &types.RequestRecord{ID: "r5", Index: 4, URL: "https://API.example.com[v2]/users", Method: "GET", Status: 200, StartMs: 500})
	layer := NewLayer(store)
	results := layer.GetRequests(Filter{URLPattern: "api.example.com["}) // invalid regex
	if len(results) != 1 || results[0].ID != "r5" {
		t.Fatalf("expected case-insensitive substring fallback to match only r5, got %+v", results)
	}
}

func TestGetRequestsStatusRangeInclusive(t *testing.T) {
	layer := NewLayer(newFixtureStore())
	results := layer.GetRequests(Filter{MinStatus: 200, MaxStatus: 201})
	if len(results) != 3 {
		t.Fatalf("expected 3 records in [200,201], got %d", len(results))
	}
}

func TestGetRequestsSortedByIndexWithLimit(t *testing.T) {
	layer := NewLayer(newFixtureStore())
	results := layer.GetRequests(Filter{Limit: 2})
	if len(results) != 2 || results[0].ID != "r1" || results[1].ID != "r2" {
		t.Fatalf("expected first 2 by index, got %+v", results)
	}
}

func TestGetRequestByID(t *testing.T) {
	layer := NewLayer(newFixtureStore())
	if _, ok := layer.GetRequest("missing"); ok {
		t.Fatal("expected no record for unknown ID")
	}
	if r, ok := layer.GetRequest("r3"); !ok || r.URL != "https://cdn.example.com/app.js" {
		t.Fatalf("expected r3 lookup to succeed, got %+v, %v", r, ok)
	}
}

func TestGetRequestsSince(t *testing.T) {
	layer := NewLayer(newFixtureStore())
	results := layer.GetRequestsSince(250)
	if len(results) != 2 {
		t.Fatalf("expected 2 records with StartMs >= 250, got %d", len(results))
	}
}

func TestStreamSinceReturnsOnlyRecordsAfterCursor(t *testing.T) {
	layer := NewLayer(newFixtureStore())

	first, cursor := layer.StreamSince(buffers.BufferCursor{}, Filter{})
	if len(first) != 4 {
		t.Fatalf("expected all 4 records from a zero cursor, got %d", len(first))
	}

	second, _ := layer.StreamSince(cursor, Filter{})
	if len(second) != 0 {
		t.Fatalf("expected no records past the returned cursor, got %d", len(second))
	}
}

func TestStreamSinceAppliesFilter(t *testing.T) {
	layer := NewLayer(newFixtureStore())

	matched, _ := layer.StreamSince(buffers.BufferCursor{}, Filter{Method: "GET"})
	if len(matched) != 2 {
		t.Fatalf("expected 2 GET records, got %d", len(matched))
	}
}

func toIDSet(records []*types.RequestRecord) map[string]bool {
	out := make(map[string]bool, len(records))
	for _, r := range records {
		out[r.ID] = true
	}
	return out
}

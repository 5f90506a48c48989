// ingester.go — The Ingester struct, its factory, and the store it owns.
//
// All fields are protected by mu (sync.RWMutex) unless noted otherwise.
// Events must be delivered in source order per request ID; the Ingester
// does not reorder across calls. Queries take a snapshot under RLock so a
// record is never partially visible mid-mutation.
package capture

import (
	"sync"

	"github.com/google/uuid"

	"github.com/netcausal/browsercausality/internal/buffers"
	"github.com/netcausal/browsercausality/internal/types"
)

// BodyFetchResult is the success shape returned by a BodyFetcher.
type BodyFetchResult struct {
	Body          string
	Base64Encoded bool
}

// BodyFetcher is invoked by the Ingester to retrieve a finalized request's
// response body. Returning an error or (nil, nil) is non-fatal: the record
// commits without a body.
type BodyFetcher func(requestID string) (*BodyFetchResult, error)

// Ingester reconstructs request lifecycles from debug-protocol events and
// owns the bounded, queryable store of finalized records.
type Ingester struct {
	mu sync.RWMutex

	cfg             Config
	excludeMatchers []excludeMatcher
	fetchBody       BodyFetcher

	// SessionID is a random UUID generated per Ingester instance. The
	// daemon prints it in its startup log line; it is not attached to
	// metrics or trace spans.
	SessionID string

	// ============================================
	// In-flight requests
	// ============================================

	pending map[string]*types.RequestRecord

	// ============================================
	// Finalized store (bounded, FIFO eviction)
	// ============================================

	store      *buffers.RingBuffer[*types.RequestRecord]
	idPosition map[string]int64 // requestID -> store position, invalidated on eviction/clear

	// ============================================
	// Bookkeeping
	// ============================================

	nextIndex       int64   // monotonic index, assigned when a pending record is first created
	timestampOffset float64 // wallSeconds - monotonicSeconds, from the first-ever RequestSent
	offsetKnown     bool
	generation      int64 // bumped by Clear(); guards against a body fetch resolving after a clear
}

// NewIngester constructs an Ingester with the given configuration. A nil
// fetchBody is valid: records simply finalize without a response body.
func NewIngester(cfg Config, fetchBody BodyFetcher) *Ingester {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultMaxRequests
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.NetworkQuietPeriod <= 0 {
		cfg.NetworkQuietPeriod = DefaultNetworkQuietPeriod
	}
	return &Ingester{
		cfg:             cfg,
		excludeMatchers: compileExcludeMatchers(cfg.ExcludePatterns),
		fetchBody:       fetchBody,
		SessionID:       uuid.New().String(),
		pending:         make(map[string]*types.RequestRecord),
		store:           buffers.NewRingBuffer[*types.RequestRecord](cfg.MaxRequests),
		idPosition:      make(map[string]int64),
	}
}

// Clear discards both the in-flight set and the finalized store. It is
// idempotent. Any body fetch already in flight will observe a stale
// generation and refuse to commit (see finalize.go).
func (i *Ingester) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clearLocked()
}

func (i *Ingester) clearLocked() {
	i.pending = make(map[string]*types.RequestRecord)
	i.store.Clear()
	i.idPosition = make(map[string]int64)
	i.generation++
}

// Stats is the shape returned by GetStats.
type Stats struct {
	TotalRequests   int
	PendingRequests int
	TotalActions    int // filled in by callers that also own an action log; 0 here
}

// GetStats returns point-in-time counts. TotalActions is always 0 from the
// Ingester alone — callers that need it combine this with actionlog.Log.Count().
func (i *Ingester) GetStats() Stats {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return Stats{
		TotalRequests:   i.store.Len(),
		PendingRequests: len(i.pending),
	}
}

// PendingCount returns the number of in-flight requests. Used by WaitForQuiet.
func (i *Ingester) PendingCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.pending)
}

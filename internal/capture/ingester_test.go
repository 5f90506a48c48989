package capture

import (
	"context"
	"testing"
	"time"

	"github.com/netcausal/browsercausality/internal/buffers"
	"github.com/netcausal/browsercausality/internal/types"
)

func TestSimpleGetLifecycle(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://api.example.com/widgets", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0, Type: "xhr",
	})
	if ing.PendingCount() != 1 {
		t.Fatalf("expected 1 pending, got %d", ing.PendingCount())
	}

	ing.IngestResponseReceived(types.ResponseReceivedEvent{
		ID: "r1", Status: 200, StatusText: "OK", MimeType: "application/json",
		MonotonicTime: 5.2,
	})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{
		ID: "r1", MonotonicTime: 5.3, EncodedDataLength: 128,
	})

	if ing.PendingCount() != 0 {
		t.Fatalf("expected 0 pending after finish, got %d", ing.PendingCount())
	}
	rec, ok := ing.GetByID("r1")
	if !ok {
		t.Fatal("expected r1 to be finalized")
	}
	if rec.Status != 200 || !rec.HasResponse {
		t.Fatalf("response fields not applied: %+v", rec)
	}
	if rec.DurationMs != 300 {
		t.Fatalf("expected duration 300ms, got %d", rec.DurationMs)
	}
}

func TestRedirectCoalescing(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/old", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})
	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/new", Method: "GET",
		WallTime: 1000.05, MonotonicTime: 5.05,
		Redirect: &types.RedirectResponse{Status: 302, Headers: types.Header{"Location": "/new"}},
	})

	if ing.PendingCount() != 1 {
		t.Fatalf("redirect must not allocate a new pending slot, got %d pending", ing.PendingCount())
	}

	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r1", MonotonicTime: 5.2})

	rec, ok := ing.GetByID("r1")
	if !ok {
		t.Fatal("expected r1 finalized")
	}
	if rec.URL != "https://example.com/new" {
		t.Fatalf("expected final URL to win, got %q", rec.URL)
	}
	if len(rec.RedirectChain) != 1 || rec.RedirectChain[0].URL != "https://example.com/old" {
		t.Fatalf("expected one coalesced hop for the old URL, got %+v", rec.RedirectChain)
	}
}

func TestPreflightPairingOutOfOrder(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)

	// The preflight (OPTIONS) event arrives before the target request it
	// protects, which is a common and legal ordering.
	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "pf1", URL: "https://api.example.com/data", Method: "OPTIONS",
		WallTime: 1000.0, MonotonicTime: 5.0,
		Initiator: types.Initiator{Kind: types.InitiatorPreflight, PreflightTargetID: "r1"},
	})
	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://api.example.com/data", Method: "POST",
		WallTime: 1000.02, MonotonicTime: 5.02,
	})

	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "pf1", MonotonicTime: 5.05})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r1", MonotonicTime: 5.1})

	target, ok := ing.GetByID("r1")
	if !ok {
		t.Fatal("expected r1 finalized")
	}
	if target.PreflightRequestID != "pf1" {
		t.Fatalf("expected r1 to be back-filled with its preflight ID, got %q", target.PreflightRequestID)
	}
	pf, ok := ing.GetByID("pf1")
	if !ok || pf.PreflightFor != "r1" {
		t.Fatalf("expected pf1.PreflightFor == r1, got %+v", pf)
	}
}

func TestLoadingFailedCommitsWithoutBody(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/x", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})
	ing.IngestLoadingFailed(types.LoadingFailedEvent{ID: "r1", ErrorText: "net::ERR_CONNECTION_RESET", MonotonicTime: 5.05})

	rec, ok := ing.GetByID("r1")
	if !ok {
		t.Fatal("expected a failed request to still commit")
	}
	if !rec.Failed || rec.ErrorText == "" {
		t.Fatalf("expected Failed=true with an error text, got %+v", rec)
	}
}

func TestBodyFetchGenerationGuardAgainstClear(t *testing.T) {
	release := make(chan struct{})
	fetched := make(chan struct{})
	ing := NewIngester(DefaultConfig(), func(id string) (*BodyFetchResult, error) {
		close(fetched)
		<-release
		return &BodyFetchResult{Body: "late"}, nil
	})

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/x", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})

	done := make(chan struct{})
	go func() {
		ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r1", MonotonicTime: 5.1})
		close(done)
	}()

	<-fetched
	ing.Clear()
	close(release)
	<-done

	if _, ok := ing.GetByID("r1"); ok {
		t.Fatal("expected the stale fetch result to be dropped after Clear")
	}
}

func TestBase64BodyCommitsPlaceholder(t *testing.T) {
	ing := NewIngester(DefaultConfig(), func(id string) (*BodyFetchResult, error) {
		return &BodyFetchResult{Body: "iVBORw0KGgoAAAANSU", Base64Encoded: true}, nil
	})

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/logo.png", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})
	ing.IngestResponseReceived(types.ResponseReceivedEvent{
		ID: "r1", Status: 200, MimeType: "application/octet-stream", MonotonicTime: 5.1,
	})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r1", MonotonicTime: 5.2})

	rec, ok := ing.GetByID("r1")
	if !ok {
		t.Fatal("expected r1 finalized")
	}
	if rec.ResponseBodyEnc != types.BodyEncodingBase64 {
		t.Fatalf("expected base64 encoding marker, got %q", rec.ResponseBodyEnc)
	}
	want := "[base64 encoded, 18 chars]"
	if rec.ResponseBody != want {
		t.Fatalf("ResponseBody = %q, want %q", rec.ResponseBody, want)
	}
}

func TestReadSinceReturnsOnlyRecordsAfterCursor(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)
	for _, id := range []string{"r1", "r2", "r3"} {
		ing.IngestRequestSent(types.RequestSentEvent{ID: id, URL: "https://example.com/" + id, Method: "GET", WallTime: 1000, MonotonicTime: 5})
		ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: id, MonotonicTime: 5.1})
	}

	first, cursor := ing.ReadSince(buffers.BufferCursor{}, nil, 0)
	if len(first) != 3 {
		t.Fatalf("expected 3 records from a zero cursor, got %d", len(first))
	}

	ing.IngestRequestSent(types.RequestSentEvent{ID: "r4", URL: "https://example.com/r4", Method: "GET", WallTime: 1000, MonotonicTime: 5})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r4", MonotonicTime: 5.1})

	second, _ := ing.ReadSince(cursor, nil, 0)
	if len(second) != 1 || second[0].ID != "r4" {
		t.Fatalf("expected only r4 after the cursor, got %+v", second)
	}
}

func TestReadSinceAppliesFilter(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)
	ing.IngestRequestSent(types.RequestSentEvent{ID: "r1", URL: "https://example.com/a", Method: "GET", WallTime: 1000, MonotonicTime: 5})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r1", MonotonicTime: 5.1})
	ing.IngestRequestSent(types.RequestSentEvent{ID: "r2", URL: "https://example.com/b", Method: "POST", WallTime: 1000, MonotonicTime: 5})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r2", MonotonicTime: 5.1})

	matched, _ := ing.ReadSince(buffers.BufferCursor{}, func(r *types.RequestRecord) bool {
		return r.Method == "POST"
	}, 0)
	if len(matched) != 1 || matched[0].ID != "r2" {
		t.Fatalf("expected only the POST record, got %+v", matched)
	}
}

func TestCursorAtTimeFindsFirstRecordAtOrAfter(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)
	ing.IngestRequestSent(types.RequestSentEvent{ID: "r1", URL: "https://example.com/a", Method: "GET", WallTime: 1000, MonotonicTime: 5})
	ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: "r1", MonotonicTime: 5.1})

	future := time.Now().Add(time.Hour)
	cursor := ing.CursorAtTime(future)
	records, _ := ing.ReadSince(cursor, nil, 0)
	if len(records) != 0 {
		t.Fatalf("expected no records at a future cursor, got %d", len(records))
	}

	past := time.Now().Add(-time.Hour)
	cursor = ing.CursorAtTime(past)
	records, _ = ing.ReadSince(cursor, nil, 0)
	if len(records) != 1 {
		t.Fatalf("expected the existing record from a past cursor, got %d", len(records))
	}
}

func TestSnapshotFilteredStopsAtLimit(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)
	for _, id := range []string{"r1", "r2", "r3"} {
		ing.IngestRequestSent(types.RequestSentEvent{ID: id, URL: "https://example.com/" + id, Method: "GET", WallTime: 1000, MonotonicTime: 5})
		ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: id, MonotonicTime: 5.1})
	}

	matched := ing.SnapshotFiltered(func(r *types.RequestRecord) bool { return true }, 2)
	if len(matched) != 2 {
		t.Fatalf("expected limit to cap result at 2, got %d", len(matched))
	}
}

func TestStoreEvictsAtCapacityPlusOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRequests = 2
	ing := NewIngester(cfg, nil)

	for idx, id := range []string{"r1", "r2", "r3"} {
		ing.IngestRequestSent(types.RequestSentEvent{
			ID: id, URL: "https://example.com/" + id, Method: "GET",
			WallTime: 1000.0 + float64(idx), MonotonicTime: 5.0 + float64(idx),
		})
		ing.IngestLoadingFinished(types.LoadingFinishedEvent{ID: id, MonotonicTime: 5.1 + float64(idx)})
	}

	if _, ok := ing.GetByID("r1"); ok {
		t.Fatal("expected r1 evicted once a third record committed into a 2-slot store")
	}
	if _, ok := ing.GetByID("r3"); !ok {
		t.Fatal("expected r3 resident")
	}
	if ing.GetStats().TotalRequests != 2 {
		t.Fatalf("expected store at capacity 2, got %d", ing.GetStats().TotalRequests)
	}
}

func TestClearIsIdempotentAndDropsPending(t *testing.T) {
	ing := NewIngester(DefaultConfig(), nil)
	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/x", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})
	ing.Clear()
	ing.Clear()

	if ing.PendingCount() != 0 {
		t.Fatalf("expected no pending requests after Clear, got %d", ing.PendingCount())
	}
	if ing.GetStats().TotalRequests != 0 {
		t.Fatal("expected an empty store after Clear")
	}
}

func TestURLExclusionDropsEvent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludePatterns = []string{`analytics\.example\.com`}
	ing := NewIngester(cfg, nil)

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://analytics.example.com/beacon", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})

	if ing.PendingCount() != 0 {
		t.Fatalf("expected excluded URL to be dropped, got %d pending", ing.PendingCount())
	}
}

func TestWaitForQuietReportsQuiescence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NetworkQuietPeriod = 20 * time.Millisecond
	ing := NewIngester(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if !ing.WaitForQuiet(ctx, 200*time.Millisecond) {
		t.Fatal("expected quiescence on an ingester with no in-flight requests")
	}
}

func TestWaitForQuietTimesOutUnderSustainedTraffic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NetworkQuietPeriod = 500 * time.Millisecond
	ing := NewIngester(cfg, nil)

	ing.IngestRequestSent(types.RequestSentEvent{
		ID: "r1", URL: "https://example.com/x", Method: "GET",
		WallTime: 1000.0, MonotonicTime: 5.0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if ing.WaitForQuiet(ctx, 50*time.Millisecond) {
		t.Fatal("expected timeout while a request remains in flight")
	}
}

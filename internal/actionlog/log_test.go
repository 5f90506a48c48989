package actionlog

import (
	"testing"
	"time"

	"github.com/netcausal/browsercausality/internal/types"
)

func TestRecordAssignsStableMonotonicID(t *testing.T) {
	log := NewLog()
	a1 := log.Record(types.ActionClick, "#submit", `button "Sign In"`, "https://example.com", time.Now())
	a2 := log.Record(types.ActionNavigate, "", "", "https://example.com/next", time.Now())

	if a1.ID != "a1" || a2.ID != "a2" {
		t.Fatalf("expected stable sequential IDs, got %q, %q", a1.ID, a2.ID)
	}
	if got, ok := log.GetByID("a1"); !ok || got != a1 {
		t.Fatal("expected GetByID to find a1")
	}
}

func TestGetInWindowFiltersByTimestamp(t *testing.T) {
	log := NewLog()
	base := time.Now()
	log.Record(types.ActionClick, "", "", "", base)
	log.Record(types.ActionClick, "", "", "", base.Add(5*time.Second))
	log.Record(types.ActionClick, "", "", "", base.Add(10*time.Second))

	inWindow := log.GetInWindow(base, base.Add(6*time.Second))
	if len(inWindow) != 2 {
		t.Fatalf("expected 2 actions in window, got %d", len(inWindow))
	}
}

func TestSetResultingRequestIDs(t *testing.T) {
	log := NewLog()
	a := log.Record(types.ActionClick, "", "", "", time.Now())
	log.SetResultingRequestIDs(a.ID, []string{"r1", "r2"})

	got, _ := log.GetByID(a.ID)
	if len(got.ResultingRequestIDs) != 2 {
		t.Fatalf("expected 2 resulting request IDs, got %v", got.ResultingRequestIDs)
	}
}

func TestClearIsIdempotentAndResetsSequence(t *testing.T) {
	log := NewLog()
	log.Record(types.ActionClick, "", "", "", time.Now())
	log.Clear()
	log.Clear()

	if log.Count() != 0 {
		t.Fatal("expected empty log after Clear")
	}
	a := log.Record(types.ActionClick, "", "", "", time.Now())
	if a.ID != "a1" {
		t.Fatalf("expected sequence to restart at a1, got %q", a.ID)
	}
}

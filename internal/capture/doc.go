// doc.go — Package documentation for the Event Ingester.

// Package capture reconstructs network request lifecycles from a stream of
// low-level debug-protocol events (see internal/types.RequestSentEvent and
// friends) and maintains the bounded, queryable store of finalized records.
//
// Design Principle: Single-Threaded Ingestion
// All four Ingest* methods assume the caller delivers events for a given
// request ID in source order; the Ingester itself does not reorder. The
// only asynchronous work is the optional response-body fetch started on
// finalization (see finalize.go).
package capture

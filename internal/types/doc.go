// doc.go — Package documentation for foundational cross-cutting types.

// Package types provides the foundational, zero-dependency data model shared
// by the capture, actionlog, correlate, chains, and queries packages:
//   - Network request/response lifecycle records (RequestRecord)
//   - Initiator and call-stack metadata used by stack-trace attribution
//   - User action records (ActionRecord)
//   - Attribution and correlation result types (Attribution, CorrelationResult, Chain)
//
// Design Principle: Zero Dependencies
// This package imports only the Go standard library so it can be imported
// from any other package without creating circular dependencies.
package types

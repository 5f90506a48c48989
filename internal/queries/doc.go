// Package queries is the read-only filter/sort layer over a capture
// store's finalized requests.
package queries

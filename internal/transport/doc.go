// Package transport is a websocket-based debug-event source, decoding a
// Chrome DevTools Protocol-style Network domain stream into the four
// event shapes internal/capture consumes. It is the only package in this
// module that knows about wire format; everything downstream works in
// terms of internal/types.
package transport

// Package obsmetrics exposes the capture store and correlator's
// point-in-time counters as Prometheus metrics.
package obsmetrics

// Package correlate attributes finalized network requests to the user
// action that most plausibly caused them, using a four-layer strategy
// that prefers hard evidence (an explicit preflight link, a captured call
// stack) before falling back to timing and semantic heuristics.
package correlate

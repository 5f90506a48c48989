// correlation.go — Output types produced by the correlator and chain detector.
package types

// ChainKind discriminates the kind of causal chain a group of requests
// participates in.
type ChainKind string

const (
	ChainRedirect   ChainKind = "redirect"
	ChainPreflight  ChainKind = "preflight"
	ChainAuthFlow   ChainKind = "auth_flow"
	ChainSequential ChainKind = "sequential"
)

// Chain is one detected causal relationship among requests within a
// correlated group.
type Chain struct {
	Kind        ChainKind
	RequestIDs  []string
	Description string
}

// CorrelationResult groups every request attributed to one action, in
// start-time order, along with the causal chains detected among them.
type CorrelationResult struct {
	Action     ActionRecord
	Requests   []*RequestRecord
	Chains     []Chain
	Confidence float64 // mean of member Attribution.Confidence
}

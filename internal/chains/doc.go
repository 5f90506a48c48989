// Package chains identifies causal relationships — redirects, CORS
// preflights, authentication flows, and tight sequential gaps — among a
// group of requests already attributed to the same action.
package chains

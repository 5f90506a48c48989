// chains.go — Chain detection over an already-correlated group of
// requests, sorted by start time by the caller.
package chains

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/netcausal/browsercausality/internal/types"
)

var authURLPattern = regexp.MustCompile(`(?i)auth|login|sign-in|token|session|oauth`)

const sequentialGapMaxMs = 50

// Detect runs every chain detector over the group and returns all chains
// found. Order: redirect, preflight, auth-flow, sequential.
func Detect(group []*types.RequestRecord) []types.Chain {
	var out []types.Chain
	out = append(out, detectRedirectChains(group)...)
	out = append(out, detectPreflightChains(group)...)
	if c, ok := detectAuthFlowChain(group); ok {
		out = append(out, c)
	}
	out = append(out, detectSequentialChains(group)...)
	return out
}

func detectRedirectChains(group []*types.RequestRecord) []types.Chain {
	var out []types.Chain
	for _, req := range group {
		if len(req.RedirectChain) == 0 {
			continue
		}
		hops := make([]string, len(req.RedirectChain))
		for i, hop := range req.RedirectChain {
			hops[i] = fmt.Sprintf("%s -> %d", urlPath(hop.URL), hop.Status)
		}
		out = append(out, types.Chain{
			Kind:        types.ChainRedirect,
			RequestIDs:  []string{req.ID},
			Description: fmt.Sprintf("%d redirect hop(s): %s", len(req.RedirectChain), strings.Join(hops, ", ")),
		})
	}
	return out
}

func detectPreflightChains(group []*types.RequestRecord) []types.Chain {
	var out []types.Chain
	inGroup := indexByID(group)
	for _, req := range group {
		if req.PreflightRequestID == "" {
			continue
		}
		if _, ok := inGroup[req.PreflightRequestID]; !ok {
			continue
		}
		out = append(out, types.Chain{
			Kind:        types.ChainPreflight,
			RequestIDs:  []string{req.PreflightRequestID, req.ID},
			Description: fmt.Sprintf("preflight for %s", urlPath(req.URL)),
		})
	}
	return out
}

// detectAuthFlowChain scans POSTs that look like a login/token exchange,
// extracts a bearer-token prefix from a JSON response body, and chains in
// every subsequent request whose Authorization header carries it. At most
// one auth-flow chain is ever returned per group, per the first
// successful candidate found in start-time order.
func detectAuthFlowChain(group []*types.RequestRecord) (types.Chain, bool) {
	ordered := sortedByStart(group)

	for _, req := range ordered {
		if !strings.EqualFold(req.Method, "POST") {
			continue
		}
		if req.Status < 200 || req.Status >= 300 {
			continue
		}
		if !authURLPattern.MatchString(req.URL) {
			continue
		}
		token, ok := extractAuthToken(req.ResponseBody)
		if !ok {
			continue
		}

		var dependents []string
		for _, other := range ordered {
			if other.ID == req.ID {
				continue
			}
			if other.StartMs < req.StartMs {
				continue
			}
			if strings.Contains(other.RequestHeaders.Get("Authorization"), token) {
				dependents = append(dependents, other.ID)
			}
		}
		if len(dependents) == 0 {
			continue
		}

		return types.Chain{
			Kind:        types.ChainAuthFlow,
			RequestIDs:  append([]string{req.ID}, dependents...),
			Description: fmt.Sprintf("auth flow from %s to %d dependent request(s)", urlPath(req.URL), len(dependents)),
		}, true
	}
	return types.Chain{}, false
}

// extractAuthToken parses body as a JSON object and looks for a string
// value under token, access_token, jwt (top level) or data.token /
// data.access_token (one level nested), in that order. Returns the first
// 20 characters as the token prefix. Never errors: an unparseable or
// non-matching body simply yields ok=false.
func extractAuthToken(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return "", false
	}
	for _, key := range []string{"token", "access_token", "jwt"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return tokenPrefix(s), true
		}
	}
	if nested, ok := obj["data"].(map[string]interface{}); ok {
		for _, key := range []string{"token", "access_token"} {
			if s, ok := nested[key].(string); ok && s != "" {
				return tokenPrefix(s), true
			}
		}
	}
	return "", false
}

func tokenPrefix(s string) string {
	if len(s) <= 20 {
		return s
	}
	return s[:20]
}

// detectSequentialChains emits one chain per adjacent pair (by start
// time) whose gap between the prior request's end and the next request's
// start falls in [0, 50ms].
func detectSequentialChains(group []*types.RequestRecord) []types.Chain {
	ordered := sortedByStart(group)

	var out []types.Chain
	for i := 1; i < len(ordered); i++ {
		prev, next := ordered[i-1], ordered[i]
		gap := next.StartMs - prev.EndMs
		if gap < 0 || gap > sequentialGapMaxMs {
			continue
		}
		out = append(out, types.Chain{
			Kind:        types.ChainSequential,
			RequestIDs:  []string{prev.ID, next.ID},
			Description: fmt.Sprintf("%s -> %s (%dms gap)", urlPath(prev.URL), urlPath(next.URL), gap),
		})
	}
	return out
}

func sortedByStart(group []*types.RequestRecord) []*types.RequestRecord {
	ordered := make([]*types.RequestRecord, len(group))
	copy(ordered, group)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartMs < ordered[j].StartMs })
	return ordered
}

func indexByID(group []*types.RequestRecord) map[string]*types.RequestRecord {
	byID := make(map[string]*types.RequestRecord, len(group))
	for _, r := range group {
		byID[r.ID] = r
	}
	return byID
}

// urlPath best-effort extracts a URL's path for a chain description.
// Malformed URLs, empty strings, and data:/blob: schemes must never
// panic here, and a request with no path (e.g. "https://example.com")
// reads better as "/" than as an empty string in the description.
func urlPath(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}

// semantic.go — The Layer 2/3 scoring function: proximity decay plus an
// additive semantic bonus, minus a background-traffic penalty.
package correlate

import (
	"math"
	"strings"

	"github.com/netcausal/browsercausality/internal/types"
)

// patternRow is one row of the semantic pattern table: if the action's
// text matches actionPattern, the request's URL matches urlPattern (when
// non-empty), and the method matches (when non-empty), bonus is added.
// Rows are evaluated in order; only the first match contributes.
type patternRow struct {
	actionPattern []string
	urlPattern    []string
	method        string // empty means any method
	bonus         float64
}

var semanticPatternTable = []patternRow{
	{actionPattern: []string{"login", "sign-in"}, urlPattern: []string{"auth", "login", "sign-in", "session"}, method: "POST", bonus: 0.30},
	{actionPattern: []string{"register", "sign-up"}, urlPattern: []string{"register", "sign-up", "user"}, method: "POST", bonus: 0.30},
	{actionPattern: []string{"save", "update", "submit"}, method: "POST", bonus: 0.15},
	{actionPattern: []string{"delete", "remove"}, method: "DELETE", bonus: 0.25},
	{actionPattern: []string{"search"}, urlPattern: []string{"search", "query", "find"}, method: "GET", bonus: 0.25},
	{actionPattern: []string{"load-more", "next"}, urlPattern: []string{"page", "offset", "cursor", "limit"}, method: "GET", bonus: 0.20},
	{actionPattern: []string{"logout", "sign-out"}, urlPattern: []string{"logout", "sign-out", "session"}, bonus: 0.30},
}

// backgroundHostPatterns identifies analytics/telemetry traffic that is
// rarely the direct result of a user action.
var backgroundHostPatterns = []string{
	"google-analytics", "gtag", "fbevents", "segment.io", "hotjar",
	"sentry", "datadog", "newrelic",
	"analytics", "tracking", "telemetry", "heartbeat", "health", "ping", "beacon",
}

func containsAnyFold(s string, patterns []string) bool {
	lower := strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// actionText is the text the semantic pattern table matches against: the
// action's human-readable target description, falling back to its
// selector.
func actionText(a *types.ActionRecord) string {
	if a.TargetDescription != "" {
		return a.TargetDescription
	}
	return a.TargetSelector
}

// actionTypeBonus applies the fixed action-type bonuses.
func actionTypeBonus(a *types.ActionRecord, req *types.RequestRecord) float64 {
	switch {
	case a.Type == types.ActionNavigate && req.ResourceKind == types.ResourceDocument:
		return 0.35
	case a.Type == types.ActionSubmit && strings.EqualFold(req.Method, "POST"):
		return 0.25
	case a.Type == types.ActionClick && (req.ResourceKind == types.ResourceXHR || req.ResourceKind == types.ResourceFetch):
		return 0.15
	default:
		return 0
	}
}

// patternBonus returns the bonus from the first matching pattern-table row.
func patternBonus(a *types.ActionRecord, req *types.RequestRecord) float64 {
	text := actionText(a)
	for _, row := range semanticPatternTable {
		if !containsAnyFold(text, row.actionPattern) {
			continue
		}
		if len(row.urlPattern) > 0 && !containsAnyFold(req.URL, row.urlPattern) {
			continue
		}
		if row.method != "" && !strings.EqualFold(req.Method, row.method) {
			continue
		}
		return row.bonus
	}
	return 0
}

// backgroundPenalty subtracts 0.20 when the request's URL looks like
// analytics/telemetry background traffic. Matches against the full URL,
// not just the host: a same-origin endpoint like /api/health or /beacon
// is exactly the kind of background traffic this penalty targets, and
// checking only the origin would let it slip through on any site that
// doesn't outsource telemetry to a third-party host.
func backgroundPenalty(req *types.RequestRecord) float64 {
	if containsAnyFold(req.URL, backgroundHostPatterns) {
		return 0.20
	}
	return 0
}

// proximityTerm decays with how far the request trails the action. A
// negative delta (within tolerance) is clamped to zero, yielding the
// maximum bonus.
func proximityTerm(deltaMs float64) float64 {
	if deltaMs < 0 {
		deltaMs = 0
	}
	return 0.35 * math.Exp(-deltaMs/150)
}

// semanticScore combines all four terms and clamps to [0, 1].
func semanticScore(a *types.ActionRecord, req *types.RequestRecord, deltaMs float64) float64 {
	score := proximityTerm(deltaMs) + actionTypeBonus(a, req) + patternBonus(a, req) - backgroundPenalty(req)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

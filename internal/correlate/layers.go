// layers.go — The four attribution layers, evaluated in order for a
// single request. Each layer operates against a snapshot: the recorded
// actions, a byID index over the requests being correlated together (for
// Layer 0's preflight-target lookup), and the request slice itself (for
// Layer 4's temporal parent search).
package correlate

import (
	"math"
	"sort"
	"time"

	"github.com/netcausal/browsercausality/internal/types"
)

// match is one layer's verdict.
type match struct {
	actionID   string
	confidence float64
	method     types.AttributionMethod
}

// candidatesInWindow returns every action whose signed delta
// (requestStart - actionTimestamp, in whole milliseconds) lies in
// [-10ms, MaxCorrelationWindow], alongside that delta for each. The
// action-log lookup is widened by 1ms at the upper end so an action
// timestamp with a sub-millisecond part is not dropped before its
// millisecond delta is checked.
func (c *Correlator) candidatesInWindow(req *types.RequestRecord) []struct {
	action *types.ActionRecord
	delta  float64
} {
	reqStart := time.UnixMilli(req.StartMs)
	windowStart := reqStart.Add(-c.cfg.MaxCorrelationWindow)
	windowEnd := reqStart.Add(time.Duration(negativeToleranceMs)*time.Millisecond + time.Millisecond)

	actions := c.actions.GetInWindow(windowStart, windowEnd)
	out := make([]struct {
		action *types.ActionRecord
		delta  float64
	}, 0, len(actions))
	for _, a := range actions {
		delta := float64(req.StartMs) - float64(a.Timestamp.UnixMilli())
		if delta < -negativeToleranceMs || delta > float64(c.cfg.MaxCorrelationWindow/time.Millisecond) {
			continue
		}
		out = append(out, struct {
			action *types.ActionRecord
			delta  float64
		}{a, delta})
	}
	return out
}

// layer0ChainInheritance implements preflight-driven chain inheritance: a
// preflight whose target is already attributed inherits that attribution.
func layer0ChainInheritance(req *types.RequestRecord, byID map[string]*types.RequestRecord) (match, bool) {
	if req.Initiator.Kind != types.InitiatorPreflight || req.Initiator.PreflightTargetID == "" {
		return match{}, false
	}
	target, ok := byID[req.Initiator.PreflightTargetID]
	if !ok || !target.Attribution.Attributed() {
		return match{}, false
	}
	return match{actionID: target.Attribution.ActionID, confidence: 0.85, method: types.MethodChain}, true
}

// layer1StackTrace implements stack-trace attribution: the first
// user-gesture frame in the async-parent chain, matched against
// time-window-filtered, event-compatible actions, picking the smallest
// absolute time delta.
func (c *Correlator) layer1StackTrace(req *types.RequestRecord) (match, bool) {
	if req.Initiator.Stack == nil {
		return match{}, false
	}
	event, depth, ok := req.Initiator.Stack.FindUserEvent()
	if !ok {
		return match{}, false
	}

	candidates := c.candidatesInWindow(req)
	var best *types.ActionRecord
	var bestDelta float64
	for _, cand := range candidates {
		if !isEventActionCompatible(event, cand.action.Type) {
			continue
		}
		if best == nil || math.Abs(cand.delta) < math.Abs(bestDelta) {
			a := cand.action
			best = a
			bestDelta = cand.delta
		}
	}
	if best == nil {
		return match{}, false
	}
	confidence := math.Max(0.85, 0.95-0.02*float64(depth))
	return match{actionID: best.ID, confidence: confidence, method: types.MethodStackTrace}, true
}

// layer23TimingSemantic implements the combined timing+semantic scoring
// pass, tagging the winner timing_semantic if its score clears 0.5 and
// timing_only otherwise.
func (c *Correlator) layer23TimingSemantic(req *types.RequestRecord) (match, bool) {
	candidates := c.candidatesInWindow(req)

	var bestAction *types.ActionRecord
	var bestScore float64 = -1
	for _, cand := range candidates {
		score := semanticScore(cand.action, req, cand.delta)
		if score < c.cfg.MinConfidence {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestAction = cand.action
		}
	}
	if bestAction == nil {
		return match{}, false
	}
	method := types.MethodTimingOnly
	if bestScore >= 0.5 {
		method = types.MethodTimingSemantic
	}
	return match{actionID: bestAction.ID, confidence: bestScore, method: method}, true
}

// layer4TemporalChain implements the fallback: attribute to the most
// recently ended, already-correlated request whose end time precedes
// this request's start by no more than 100ms.
func layer4TemporalChain(req *types.RequestRecord, allRequests []*types.RequestRecord) (match, bool) {
	candidates := make([]*types.RequestRecord, 0, len(allRequests))
	for _, other := range allRequests {
		if other == req || other.EndMs == 0 || !other.Attribution.Attributed() {
			continue
		}
		candidates = append(candidates, other)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].EndMs > candidates[j].EndMs })

	for _, parent := range candidates {
		gap := float64(req.StartMs - parent.EndMs)
		if gap >= 0 && gap <= temporalChainGapMs {
			return match{actionID: parent.Attribution.ActionID, confidence: 0.5, method: types.MethodChain}, true
		}
	}
	return match{}, false
}

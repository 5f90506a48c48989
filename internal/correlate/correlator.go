// correlator.go — Orchestrates the four attribution layers and produces
// grouped CorrelationResults, mutating attribution fields on request
// records in place.
package correlate

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/netcausal/browsercausality/internal/actionlog"
	"github.com/netcausal/browsercausality/internal/chains"
	"github.com/netcausal/browsercausality/internal/types"
)

const tracerName = "browsercausality/correlate"

// Correlator attributes requests to actions. It holds no request state of
// its own: callers pass the request set to correlate on every call.
type Correlator struct {
	cfg     Config
	actions *actionlog.Log
	tracer  trace.Tracer
}

// NewCorrelator constructs a Correlator reading from the given action log.
func NewCorrelator(actions *actionlog.Log, cfg Config) *Correlator {
	return &Correlator{
		cfg:     cfg,
		actions: actions,
		tracer:  otel.Tracer(tracerName),
	}
}

// bestMatch runs the four layers in order for one request and returns the
// first layer's verdict that produces a candidate.
func (c *Correlator) bestMatch(req *types.RequestRecord, byID map[string]*types.RequestRecord, allRequests []*types.RequestRecord) (match, bool) {
	if m, ok := layer0ChainInheritance(req, byID); ok {
		return m, true
	}
	if m, ok := c.layer1StackTrace(req); ok {
		return m, true
	}
	if m, ok := c.layer23TimingSemantic(req); ok {
		return m, true
	}
	if m, ok := layer4TemporalChain(req, allRequests); ok {
		return m, true
	}
	return match{}, false
}

// indexRequests builds the byID lookup used by Layer 0.
func indexRequests(requests []*types.RequestRecord) map[string]*types.RequestRecord {
	byID := make(map[string]*types.RequestRecord, len(requests))
	for _, r := range requests {
		byID[r.ID] = r
	}
	return byID
}

// attributeUnattributed runs bestMatch over every request in requests that
// does not yet carry an attribution, processing in Index (creation) order
// so that a request created after its temporal-chain parent observes that
// parent already resolved, and mutates Attribution in place when a match
// is found.
func (c *Correlator) attributeUnattributed(requests []*types.RequestRecord) {
	ordered := make([]*types.RequestRecord, len(requests))
	copy(ordered, requests)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	byID := indexRequests(requests)
	for _, req := range ordered {
		if req.Attribution.Attributed() {
			continue
		}
		if m, ok := c.bestMatch(req, byID, requests); ok {
			req.Attribution = types.Attribution{ActionID: m.actionID, Confidence: m.confidence, Method: m.method}
		}
	}
}

// buildResult assembles a CorrelationResult for one action from the
// requests attributed to it.
func buildResult(action types.ActionRecord, members []*types.RequestRecord) *types.CorrelationResult {
	if len(members) == 0 {
		return nil
	}
	sort.Slice(members, func(i, j int) bool { return members[i].StartMs < members[j].StartMs })

	var sum float64
	ids := make([]string, len(members))
	for i, m := range members {
		sum += m.Attribution.Confidence
		ids[i] = m.ID
	}

	return &types.CorrelationResult{
		Action:     action,
		Requests:   members,
		Chains:     chains.Detect(members),
		Confidence: sum / float64(len(members)),
	}
}

// CorrelateAction evaluates every request in allRequests and returns the
// CorrelationResult for the given action ID, or nil if no request matched
// it. Requests without an existing attribution are attributed as a side
// effect; the action's ResultingRequestIDs is written back to the action
// log on success.
func (c *Correlator) CorrelateAction(ctx context.Context, actionID string, allRequests []*types.RequestRecord) *types.CorrelationResult {
	ctx, span := c.tracer.Start(ctx, "causality.correlate", trace.WithAttributes(attribute.String("causality.action_id", actionID)))
	defer span.End()

	action, ok := c.actions.GetByID(actionID)
	if !ok {
		span.SetStatus(codes.Error, "unknown action id")
		return nil
	}

	c.attributeUnattributed(allRequests)

	var members []*types.RequestRecord
	for _, req := range allRequests {
		if req.Attribution.ActionID == actionID {
			members = append(members, req)
		}
	}

	result := buildResult(*action, members)
	if result == nil {
		span.SetAttributes(attribute.Int("causality.matched_requests", 0))
		return nil
	}

	ids := make([]string, len(result.Requests))
	for i, r := range result.Requests {
		ids[i] = r.ID
	}
	c.actions.SetResultingRequestIDs(actionID, ids)

	span.SetAttributes(
		attribute.Int("causality.matched_requests", len(result.Requests)),
		attribute.Float64("causality.confidence", result.Confidence),
	)
	return result
}

// CorrelateAll attributes every unattributed request in requests, groups
// the results by winning action, and returns one CorrelationResult per
// action with at least one match, sorted by action timestamp ascending.
func (c *Correlator) CorrelateAll(ctx context.Context, requests []*types.RequestRecord) []*types.CorrelationResult {
	ctx, span := c.tracer.Start(ctx, "causality.correlate_all")
	defer span.End()

	var pending []*types.RequestRecord
	for _, r := range requests {
		if !r.Attribution.Attributed() {
			pending = append(pending, r)
		}
	}
	c.attributeUnattributed(pending)

	byAction := make(map[string][]*types.RequestRecord)
	for _, r := range requests {
		if r.Attribution.Attributed() {
			byAction[r.Attribution.ActionID] = append(byAction[r.Attribution.ActionID], r)
		}
	}

	var results []*types.CorrelationResult
	for actionID, members := range byAction {
		action, ok := c.actions.GetByID(actionID)
		if !ok {
			continue
		}
		if result := buildResult(*action, members); result != nil {
			ids := make([]string, len(result.Requests))
			for i, r := range result.Requests {
				ids[i] = r.ID
			}
			c.actions.SetResultingRequestIDs(actionID, ids)
			results = append(results, result)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Action.Timestamp.Before(results[j].Action.Timestamp) })
	span.SetAttributes(attribute.Int("causality.result_count", len(results)))
	return results
}

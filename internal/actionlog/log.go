// log.go — The Action Log: a mutex-guarded, append-only slice with
// monotonic IDs and lookup by ID or time window.
package actionlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/netcausal/browsercausality/internal/types"
)

// Log is an append-only, thread-safe record of user actions.
type Log struct {
	mu sync.RWMutex

	actions []*types.ActionRecord
	byID    map[string]*types.ActionRecord
	nextSeq int64
}

// NewLog constructs an empty Log.
func NewLog() *Log {
	return &Log{
		byID: make(map[string]*types.ActionRecord),
	}
}

// Record appends a new action, assigning it a stable, monotonic ID, and
// returns the stored record. Timestamp and PageURL are taken as given;
// ResultingRequestIDs starts empty and is populated later by the
// correlator via SetResultingRequestIDs.
func (l *Log) Record(actionType types.ActionType, targetSelector, targetDescription, pageURL string, timestamp time.Time) *types.ActionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextSeq++
	rec := &types.ActionRecord{
		ID:                fmt.Sprintf("a%d", l.nextSeq),
		Seq:               l.nextSeq,
		Type:              actionType,
		TargetSelector:    targetSelector,
		TargetDescription: targetDescription,
		Timestamp:         timestamp,
		PageURL:           pageURL,
	}
	l.actions = append(l.actions, rec)
	l.byID[rec.ID] = rec
	return rec
}

// GetAll returns every recorded action, oldest first.
func (l *Log) GetAll() []*types.ActionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*types.ActionRecord, len(l.actions))
	copy(out, l.actions)
	return out
}

// GetByID returns the action with the given ID, if any.
func (l *Log) GetByID(id string) (*types.ActionRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.byID[id]
	return rec, ok
}

// GetInWindow returns actions whose Timestamp falls in [start, end], oldest
// first. The correlator uses this to narrow candidates to those within
// MaxCorrelationWindow of a request's start time.
func (l *Log) GetInWindow(start, end time.Time) []*types.ActionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*types.ActionRecord
	for _, rec := range l.actions {
		if rec.Timestamp.Before(start) || rec.Timestamp.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// SetResultingRequestIDs is called by the correlator once it has finished
// attributing requests to this action.
func (l *Log) SetResultingRequestIDs(actionID string, requestIDs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.byID[actionID]; ok {
		rec.ResultingRequestIDs = requestIDs
	}
}

// Count returns the number of recorded actions.
func (l *Log) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.actions)
}

// Clear discards all recorded actions. Called together with the request
// store's clear.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = nil
	l.byID = make(map[string]*types.ActionRecord)
	l.nextSeq = 0
}

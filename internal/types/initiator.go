// initiator.go — Request initiator metadata: who/what caused a request.
package types

import "strings"

// InitiatorKind discriminates the source of a network request as reported
// by the debug protocol.
type InitiatorKind string

const (
	InitiatorParser    InitiatorKind = "parser"
	InitiatorScript    InitiatorKind = "script"
	InitiatorPreload   InitiatorKind = "preload"
	InitiatorPreflight InitiatorKind = "preflight"
	InitiatorOther     InitiatorKind = "other"
)

// StackTrace is a JavaScript call stack as reported by the debug protocol.
// CallFrames holds the synchronous frames at this level; Parent links to
// the async continuation that scheduled this stack, if any. Description
// carries the event name (e.g. "click") when this level of the stack was
// captured as the continuation of a user-gesture handler.
type StackTrace struct {
	Description string
	CallFrames  []CallFrame
	Parent      *StackTrace
}

// CallFrame is a single synchronous JavaScript stack frame.
type CallFrame struct {
	FunctionName string
	URL          string
	Line         int
	Column       int
}

// userEventDescriptions is the fixed set of async-parent descriptions that
// identify a stack as originating from a user gesture.
var userEventDescriptions = map[string]bool{
	"click": true, "dblclick": true, "mousedown": true, "mouseup": true,
	"submit": true, "input": true, "change": true, "keydown": true,
	"keyup": true, "keypress": true, "touchstart": true, "touchend": true,
	"pointerdown": true, "pointerup": true, "focus": true, "blur": true,
}

// maxAsyncStackDepth bounds traversal of the async-parent chain against
// pathological or cyclic inputs.
const maxAsyncStackDepth = 50

// FindUserEvent walks st and up to maxAsyncStackDepth async parents looking
// for the first level whose Description names a user-gesture event. It
// returns the lowercase event name and the number of parent hops traversed
// to reach it (0 means st itself matched). ok is false if no level in the
// traversed chain matches.
func (st *StackTrace) FindUserEvent() (event string, depth int, ok bool) {
	cur := st
	for d := 0; cur != nil && d <= maxAsyncStackDepth; d++ {
		desc := strings.ToLower(strings.TrimSpace(cur.Description))
		if userEventDescriptions[desc] {
			return desc, d, true
		}
		cur = cur.Parent
	}
	return "", 0, false
}

// Initiator describes the origin of a network request.
type Initiator struct {
	Kind  InitiatorKind
	Stack *StackTrace

	// SourceURL/Line/Column locate the script statement that issued the
	// request, when known (e.g. for Kind == InitiatorScript).
	SourceURL    string
	SourceLine   int
	SourceColumn int

	// PreflightTargetID is set when Kind == InitiatorPreflight: the ID of
	// the "actual" cross-origin request this preflight is clearing the way
	// for.
	PreflightTargetID string
}

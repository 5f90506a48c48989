// action.go — User action records, as fed into the correlator.
package types

import "time"

// ActionType enumerates the kinds of user-level actions the agent (or a
// real user) can perform.
type ActionType string

const (
	ActionClick       ActionType = "click"
	ActionNavigate    ActionType = "navigate"
	ActionKeystroke   ActionType = "type"
	ActionSubmit      ActionType = "submit"
	ActionScroll      ActionType = "scroll"
	ActionAgentAction ActionType = "agent_action"
)

// ActionRecord is an append-only entry in the Action Log.
type ActionRecord struct {
	ID                 string // stable string form of Seq, e.g. "a1"
	Seq                int64  // monotonic counter, used for tie-breaking and display order
	Type               ActionType
	TargetSelector     string
	TargetDescription  string
	Timestamp          time.Time
	PageURL            string
	ResultingRequestIDs []string
}

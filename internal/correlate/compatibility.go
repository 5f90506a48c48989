// compatibility.go — Event-to-action-type compatibility for Layer 1.
package correlate

import "github.com/netcausal/browsercausality/internal/types"

// eventActionCompatibility maps a user-gesture event name (as found at the
// end of a stack's async-parent chain) to the action types it may be
// attributed to. An event absent from this map is never Layer-1 eligible.
var eventActionCompatibility = map[string][]types.ActionType{
	"click":   {types.ActionClick},
	"submit":  {types.ActionSubmit, types.ActionNavigate},
	"input":   {types.ActionKeystroke},
	"change":  {types.ActionKeystroke},
	"keydown": {types.ActionKeystroke},
}

func isEventActionCompatible(event string, actionType types.ActionType) bool {
	for _, t := range eventActionCompatibility[event] {
		if t == actionType {
			return true
		}
	}
	return false
}

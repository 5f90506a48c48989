// helpers.go — Small stateless helpers shared across ingestion files.
package capture

import (
	"strings"

	"github.com/netcausal/browsercausality/internal/types"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func normalizeMediaType(mediaType string) string {
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(mediaType))
}

// resourceKindFromHint maps the source's raw resource-type hint (e.g. CDP's
// Network.ResourceType) onto our closed ResourceKind set. Unknown hints fall
// back to "other"; "xhr"/"fetch" are kept distinct since the semantic
// correlation layer treats them differently in its click bonus rule.
func resourceKindFromHint(hint string) types.ResourceKind {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "document":
		return types.ResourceDocument
	case "stylesheet":
		return types.ResourceStylesheet
	case "script":
		return types.ResourceScript
	case "image":
		return types.ResourceImage
	case "font":
		return types.ResourceFont
	case "xhr":
		return types.ResourceXHR
	case "fetch":
		return types.ResourceFetch
	case "websocket":
		return types.ResourceWebSocket
	default:
		return types.ResourceOther
	}
}

func truncateText(s string, maxLen int) (string, bool) {
	if len(s) <= maxLen {
		return s, false
	}
	return s[:maxLen] + truncationMarker, true
}

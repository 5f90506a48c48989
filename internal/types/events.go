// events.go — The four debug-protocol event shapes the Event Ingester consumes.
// These mirror a Chrome DevTools Protocol Network-domain event stream closely
// enough to be produced by a real browser driver, but are decoupled from any
// particular transport (see internal/transport for a websocket-based source).
package types

// RequestSentEvent corresponds to Network.requestWillBeSent.
type RequestSentEvent struct {
	ID            string
	URL           string
	Method        string
	Headers       Header
	PostData      string
	HasPostData   bool
	Initiator     Initiator
	WallTime      float64 // seconds since epoch, always present on this event kind
	MonotonicTime float64 // seconds since an arbitrary origin, present on every event kind
	Redirect      *RedirectResponse
	Type          string // raw resource type hint from the source, mapped to ResourceKind
}

// RedirectResponse carries the prior hop's response when a RequestSentEvent
// represents a redirect continuation rather than a new request.
type RedirectResponse struct {
	Status  int
	Headers Header
}

// ResponseReceivedEvent corresponds to Network.responseReceived.
type ResponseReceivedEvent struct {
	ID            string
	URL           string
	Status        int
	StatusText    string
	Headers       Header
	MimeType      string
	MonotonicTime float64
	Type          string
}

// LoadingFinishedEvent corresponds to Network.loadingFinished.
type LoadingFinishedEvent struct {
	ID                string
	MonotonicTime     float64
	EncodedDataLength int64
}

// LoadingFailedEvent corresponds to Network.loadingFailed.
type LoadingFailedEvent struct {
	ID            string
	ErrorText     string
	MonotonicTime float64
}

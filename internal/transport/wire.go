// wire.go — CDP Network-domain wire shapes and their translation into
// internal/types event structs. preflightTargetId is a module-local wire
// extension (the real protocol does not standardize initiator→target
// linkage); a driver populates it however it derives the pairing.
package transport

import (
	"encoding/json"

	"github.com/netcausal/browsercausality/internal/types"
)

type wireEnvelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type wireStackTrace struct {
	Description string           `json:"description"`
	CallFrames  []wireCallFrame  `json:"callFrames"`
	Parent      *wireStackTrace  `json:"parent"`
}

type wireCallFrame struct {
	FunctionName string `json:"functionName"`
	URL          string `json:"url"`
	LineNumber   int    `json:"lineNumber"`
	ColumnNumber int    `json:"columnNumber"`
}

type wireInitiator struct {
	Type              string          `json:"type"`
	Stack             *wireStackTrace `json:"stack"`
	URL               string          `json:"url"`
	LineNumber        int             `json:"lineNumber"`
	ColumnNumber      int             `json:"columnNumber"`
	PreflightTargetID string          `json:"preflightTargetId"`
}

type wireRedirectResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
}

type wireRequestWillBeSent struct {
	RequestID string `json:"requestId"`
	Request   struct {
		URL      string            `json:"url"`
		Method   string            `json:"method"`
		Headers  map[string]string `json:"headers"`
		PostData string            `json:"postData"`
		HasPostData bool           `json:"hasPostData"`
	} `json:"request"`
	Initiator        wireInitiator         `json:"initiator"`
	Timestamp        float64               `json:"timestamp"`
	WallTime         float64               `json:"wallTime"`
	Type             string                `json:"type"`
	RedirectResponse *wireRedirectResponse `json:"redirectResponse"`
}

type wireResponseReceived struct {
	RequestID string `json:"requestId"`
	Response  struct {
		URL        string            `json:"url"`
		Status     int               `json:"status"`
		StatusText string            `json:"statusText"`
		Headers    map[string]string `json:"headers"`
		MimeType   string            `json:"mimeType"`
	} `json:"response"`
	Timestamp float64 `json:"timestamp"`
	Type      string  `json:"type"`
}

type wireLoadingFinished struct {
	RequestID         string  `json:"requestId"`
	Timestamp         float64 `json:"timestamp"`
	EncodedDataLength float64 `json:"encodedDataLength"`
}

type wireLoadingFailed struct {
	RequestID string  `json:"requestId"`
	Timestamp float64 `json:"timestamp"`
	ErrorText string  `json:"errorText"`
}

func toInitiatorKind(wireType string) types.InitiatorKind {
	switch wireType {
	case "parser":
		return types.InitiatorParser
	case "script":
		return types.InitiatorScript
	case "preload":
		return types.InitiatorPreload
	case "preflight":
		return types.InitiatorPreflight
	default:
		return types.InitiatorOther
	}
}

func toStackTrace(w *wireStackTrace) *types.StackTrace {
	if w == nil {
		return nil
	}
	frames := make([]types.CallFrame, len(w.CallFrames))
	for i, f := range w.CallFrames {
		frames[i] = types.CallFrame{
			FunctionName: f.FunctionName,
			URL:          f.URL,
			Line:         f.LineNumber,
			Column:       f.ColumnNumber,
		}
	}
	return &types.StackTrace{
		Description: w.Description,
		CallFrames:  frames,
		Parent:      toStackTrace(w.Parent),
	}
}

func toInitiator(w wireInitiator) types.Initiator {
	return types.Initiator{
		Kind:              toInitiatorKind(w.Type),
		Stack:             toStackTrace(w.Stack),
		SourceURL:         w.URL,
		SourceLine:        w.LineNumber,
		SourceColumn:      w.ColumnNumber,
		PreflightTargetID: w.PreflightTargetID,
	}
}

func toRequestSentEvent(w wireRequestWillBeSent) types.RequestSentEvent {
	evt := types.RequestSentEvent{
		ID:            w.RequestID,
		URL:           w.Request.URL,
		Method:        w.Request.Method,
		Headers:       types.Header(w.Request.Headers),
		PostData:      w.Request.PostData,
		HasPostData:   w.Request.HasPostData,
		Initiator:     toInitiator(w.Initiator),
		WallTime:      w.WallTime,
		MonotonicTime: w.Timestamp,
		Type:          w.Type,
	}
	if w.RedirectResponse != nil {
		evt.Redirect = &types.RedirectResponse{
			Status:  w.RedirectResponse.Status,
			Headers: types.Header(w.RedirectResponse.Headers),
		}
	}
	return evt
}

func toResponseReceivedEvent(w wireResponseReceived) types.ResponseReceivedEvent {
	return types.ResponseReceivedEvent{
		ID:            w.RequestID,
		URL:           w.Response.URL,
		Status:        w.Response.Status,
		StatusText:    w.Response.StatusText,
		Headers:       types.Header(w.Response.Headers),
		MimeType:      w.Response.MimeType,
		MonotonicTime: w.Timestamp,
		Type:          w.Type,
	}
}

func toLoadingFinishedEvent(w wireLoadingFinished) types.LoadingFinishedEvent {
	return types.LoadingFinishedEvent{
		ID:                w.RequestID,
		MonotonicTime:     w.Timestamp,
		EncodedDataLength: int64(w.EncodedDataLength),
	}
}

func toLoadingFailedEvent(w wireLoadingFailed) types.LoadingFailedEvent {
	return types.LoadingFailedEvent{
		ID:            w.RequestID,
		ErrorText:     w.ErrorText,
		MonotonicTime: w.Timestamp,
	}
}

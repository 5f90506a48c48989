// client.go — Dials a browser's remote-debugging websocket endpoint and
// decodes its Network-domain event stream, in the spirit of vango's
// Session.ReadLoop: a blocking read loop that decodes one frame at a
// time and dispatches by message kind.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/netcausal/browsercausality/internal/types"
)

// Handlers receives decoded events as the Client's read loop consumes
// the wire stream. A nil handler for a given kind is a no-op.
type Handlers struct {
	OnRequestSent      func(types.RequestSentEvent)
	OnResponseReceived func(types.ResponseReceivedEvent)
	OnLoadingFinished  func(types.LoadingFinishedEvent)
	OnLoadingFailed    func(types.LoadingFailedEvent)
}

// Client is a single websocket connection to a debug-protocol endpoint.
type Client struct {
	conn        *websocket.Conn
	handlers    Handlers
	readTimeout time.Duration
}

// Dial connects to the given remote-debugging websocket URL.
func Dial(ctx context.Context, url string, handlers Handlers) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}
	return &Client{conn: conn, handlers: handlers, readTimeout: 60 * time.Second}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ReadLoop blocks, decoding and dispatching frames until the connection
// closes or ctx is cancelled. Malformed frames are logged and skipped —
// the source is otherwise authoritative and a decode failure must not
// take down the whole session.
func (c *Client) ReadLoop(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				fmt.Fprintf(os.Stderr, "[causalityd] transport read error: %v\n", err)
			}
			return
		}

		var env wireEnvelope
		if err := json.Unmarshal(msg, &env); err != nil {
			fmt.Fprintf(os.Stderr, "[causalityd] transport: malformed frame: %v\n", err)
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env wireEnvelope) {
	switch env.Method {
	case "Network.requestWillBeSent":
		var w wireRequestWillBeSent
		if err := json.Unmarshal(env.Params, &w); err != nil {
			return
		}
		if c.handlers.OnRequestSent != nil {
			c.handlers.OnRequestSent(toRequestSentEvent(w))
		}
	case "Network.responseReceived":
		var w wireResponseReceived
		if err := json.Unmarshal(env.Params, &w); err != nil {
			return
		}
		if c.handlers.OnResponseReceived != nil {
			c.handlers.OnResponseReceived(toResponseReceivedEvent(w))
		}
	case "Network.loadingFinished":
		var w wireLoadingFinished
		if err := json.Unmarshal(env.Params, &w); err != nil {
			return
		}
		if c.handlers.OnLoadingFinished != nil {
			c.handlers.OnLoadingFinished(toLoadingFinishedEvent(w))
		}
	case "Network.loadingFailed":
		var w wireLoadingFailed
		if err := json.Unmarshal(env.Params, &w); err != nil {
			return
		}
		if c.handlers.OnLoadingFailed != nil {
			c.handlers.OnLoadingFailed(toLoadingFailedEvent(w))
		}
	}
}

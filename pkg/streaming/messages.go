// Package streaming defines the JSON message envelope spoken between the
// websocket flight recorder backend and a live viewer server.
package streaming

import (
	"encoding/json"

	"github.com/DwoaC/lander/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartSession = "start_session"
	TypeTick         = "tick"
	TypeEndSession   = "end_session"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartSessionPayload carries the session description.
type StartSessionPayload struct {
	Session *core.Session `json:"session"`
}

// TickPayload carries a batch of tick records.
type TickPayload struct {
	Records []core.TickRecord `json:"records"`
}

// EndSessionPayload carries the closing summary.
type EndSessionPayload struct {
	Summary core.SessionSummary `json:"summary"`
}

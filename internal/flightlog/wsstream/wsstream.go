// Package wsstream streams flight sessions over WebSocket to a live viewer
// server. Ticks are fire-and-forget; session boundaries wait for a server
// acknowledgement so a dead link is caught before the flight starts.
package wsstream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DwoaC/lander/internal/flightlog"
	"github.com/DwoaC/lander/internal/logging"
	"github.com/DwoaC/lander/pkg/core"
	"github.com/DwoaC/lander/pkg/streaming"
)

var _ flightlog.Backend = (*Backend)(nil)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend implements flightlog.Backend over a WebSocket link. The connection
// itself lives inside a single transmit goroutine (see link.go); the backend
// only ever touches the outbox and ack channels, so session calls never race
// with redials.
type Backend struct {
	cfg Config
	log *slog.Logger

	outbox chan []byte
	acks   chan string
	done   chan struct{}

	mu       sync.Mutex
	startMsg []byte // replayed after a redial so the server can reattach the flight
	closed   bool
}

func New(cfg Config, logManager *logging.SlogManager) *Backend {
	return &Backend{
		cfg:    cfg,
		log:    logManager.Logger().With("backend", "websocket"),
		outbox: make(chan []byte, outboxSize),
		acks:   make(chan string, ackBacklog),
		done:   make(chan struct{}),
	}
}

// Init dials the viewer server and hands the connection to the transmit
// goroutine.
func (b *Backend) Init() error {
	conn, err := b.dial()
	if err != nil {
		return err
	}
	go b.transmit(conn)
	return nil
}

// Close stops the transmit goroutine, which sends the close frame on its way
// out. Safe to call more than once and before Init.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	return nil
}

// StartSession sends the session description and waits for a server ack. The
// envelope is kept for replay in case the link drops mid-flight.
func (b *Backend) StartSession(s *core.Session) error {
	data, err := marshalEnvelope(streaming.TypeStartSession, streaming.StartSessionPayload{Session: s})
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.startMsg = data
	b.mu.Unlock()

	return b.sendAwait(data, streaming.TypeStartSession)
}

// RecordTicks streams a batch of tick records, fire-and-forget.
func (b *Backend) RecordTicks(recs []core.TickRecord) error {
	if len(recs) == 0 {
		return nil
	}
	data, err := marshalEnvelope(streaming.TypeTick, streaming.TickPayload{Records: recs})
	if err != nil {
		return err
	}
	b.send(data)
	return nil
}

// EndSession sends the closing summary and waits for a server ack.
func (b *Backend) EndSession(summary core.SessionSummary) error {
	data, err := marshalEnvelope(streaming.TypeEndSession, streaming.EndSessionPayload{Summary: summary})
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.startMsg = nil
	b.mu.Unlock()

	return b.sendAwait(data, streaming.TypeEndSession)
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// send queues data for the transmit goroutine. Non-blocking; drops when the
// outbox is full.
func (b *Backend) send(data []byte) {
	select {
	case <-b.done:
	case b.outbox <- data:
	default:
		b.log.Warn("WebSocket outbox full, dropping message")
	}
}

// sendAwait queues data and blocks until the server acknowledges the message
// type, the timeout expires, or the backend closes.
func (b *Backend) sendAwait(data []byte, ackFor string) error {
	b.send(data)

	timer := time.NewTimer(ackTimeout)
	defer timer.Stop()

	for {
		select {
		case got := <-b.acks:
			if got == ackFor {
				return nil
			}
			// A stale ack from an earlier message, keep waiting.
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-b.done:
			return fmt.Errorf("backend closed while waiting for ack of %q", ackFor)
		}
	}
}

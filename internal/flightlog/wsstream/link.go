package wsstream

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/DwoaC/lander/pkg/streaming"
)

const (
	outboxSize     = 4096
	ackBacklog     = 16
	redialAttempts = 10
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	writeWait      = 10 * time.Second
	ackTimeout     = 10 * time.Second
)

// dial performs a single WebSocket dial with the secret query param.
func (b *Backend) dial() (*ws.Conn, error) {
	u, err := url.Parse(b.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", b.cfg.Secret)
	u.RawQuery = q.Encode()

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// transmit is the sole owner of the connection. It drains the outbox, keeps a
// reader running for the current conn, and redials when the link drops. It
// returns when the backend closes or a redial gives up.
func (b *Backend) transmit(conn *ws.Conn) {
	readerStopped := b.startReader(conn)
	for {
		select {
		case <-b.done:
			_ = conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
			_ = conn.Close()
			return
		case <-readerStopped:
			b.log.Warn("WebSocket connection lost")
			_ = conn.Close()
			if conn = b.redial(); conn == nil {
				return
			}
			readerStopped = b.startReader(conn)
		case data := <-b.outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(ws.TextMessage, data); err != nil {
				b.log.Warn("WebSocket write error", "error", err)
				_ = conn.Close()
				if conn = b.redial(); conn == nil {
					return
				}
				readerStopped = b.startReader(conn)
			}
		}
	}
}

// startReader drains server messages on its own goroutine, routing ack types
// to the ack channel. The returned channel closes when the connection errors,
// which is how transmit learns the link is gone.
func (b *Backend) startReader(conn *ws.Conn) <-chan struct{} {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ack streaming.AckMessage
			if err := json.Unmarshal(message, &ack); err != nil || ack.Type != "ack" {
				b.log.Debug("Non-ack message received", "raw", string(message))
				continue
			}
			select {
			case b.acks <- ack.For:
			default:
				b.log.Debug("Ack channel full, dropping", "for", ack.For)
			}
		}
	}()
	return stopped
}

// redial re-establishes the link with exponential backoff, replaying the
// start_session envelope so the server can reattach the flight. Returns nil
// when the backend is closing or the attempts run out.
func (b *Backend) redial() *ws.Conn {
	backoff := initialBackoff
	for attempt := 1; attempt <= redialAttempts; attempt++ {
		b.log.Info("Reconnecting to WebSocket", "attempt", attempt, "backoff", backoff)
		select {
		case <-b.done:
			return nil
		case <-time.After(backoff):
		}

		conn, err := b.dial()
		if err != nil {
			b.log.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		b.mu.Lock()
		start := b.startMsg
		b.mu.Unlock()

		if start != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(ws.TextMessage, start); err != nil {
				b.log.Warn("Failed to replay start_session after reconnect", "error", err)
				_ = conn.Close()
				continue
			}
		}

		b.log.Info("WebSocket reconnected", "attempt", attempt)
		return conn
	}

	b.log.Error("WebSocket reconnect failed after max attempts", "maxAttempts", redialAttempts)
	return nil
}

package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"peleadepeluches/client/internal/net/proto"
	"peleadepeluches/client/internal/telemetry"
)

const (
	writeWait       = 10 * time.Second
	messageBacklog  = 256
	handshakeWindow = 5 * time.Second
)

// Session is the bidirectional channel to the authority. A read pump
// decodes inbound frames into a buffered queue that the frame loop drains
// between ticks; writes carry locally raised intents.
type Session struct {
	conn    *websocket.Conn
	logger  telemetry.Logger
	metrics telemetry.Metrics

	writeMu  sync.Mutex
	messages chan any
	degraded atomic.Bool
	closed   atomic.Bool
}

// Dial connects to the authority and starts the read pump.
func Dial(url string, logger telemetry.Logger, metrics telemetry.Metrics) (*Session, error) {
	if logger == nil {
		logger = telemetry.NopLogger{}
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics{}
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeWindow}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial authority %s: %w", url, err)
	}

	s := &Session{
		conn:     conn,
		logger:   logger,
		metrics:  metrics,
		messages: make(chan any, messageBacklog),
	}
	go s.readPump()
	return s, nil
}

// Messages exposes the decoded inbound queue.
func (s *Session) Messages() <-chan any {
	if s == nil {
		return nil
	}
	return s.messages
}

// Degraded reports whether the authority connection has been lost. The
// core keeps simulating locally; remote characters freeze at their last
// known state. Reconnecting is the transport owner's job, not this core's.
func (s *Session) Degraded() bool {
	if s == nil {
		return true
	}
	return s.degraded.Load()
}

// Send marshals and writes one intent message.
func (s *Session) Send(msg any) error {
	if s == nil || msg == nil {
		return nil
	}
	if s.degraded.Load() {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.degraded.Store(true)
		return fmt.Errorf("write intent: %w", err)
	}
	s.metrics.Add("ws_intents_sent", 1)
	return nil
}

// Close shuts the connection and the inbound queue down.
func (s *Session) Close() {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.degraded.Store(true)
	s.conn.Close()
}

func (s *Session) readPump() {
	defer func() {
		s.degraded.Store(true)
		close(s.messages)
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.logger.Printf("authority connection lost: %v", err)
			}
			return
		}

		msg, err := proto.DecodeMessage(data)
		if err != nil {
			s.logger.Printf("dropping frame: %v", err)
			s.metrics.Add("ws_frames_dropped", 1)
			continue
		}

		select {
		case s.messages <- msg:
			s.metrics.Add("ws_messages_received", 1)
		default:
			// Backlogged queue: drop the frame rather than stall the pump;
			// the next continuous snapshot supersedes it anyway.
			s.metrics.Add("ws_messages_dropped", 1)
		}
	}
}

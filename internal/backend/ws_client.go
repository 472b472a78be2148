package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig configures WebSocket stream behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// OnReconnect is called after every successful reconnect.
	OnReconnect func()
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// wsSubscription routes one event name to one consumer channel.
type wsSubscription struct {
	event string
	ch    chan Event
}

// WSEventStream implements EventStream over gorilla/websocket. The
// stream registers event names with the backend, fans incoming events
// out to subscribers, and transparently reconnects with exponential
// backoff, re-registering every active event name.
type WSEventStream struct {
	endpoint string
	config   WSConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	subsMu  sync.Mutex
	subs    map[int]*wsSubscription
	nextSub int

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewWSEventStream connects to the push-event endpoint.
func NewWSEventStream(ctx context.Context, endpoint string, config *WSConfig, logger *log.Logger) (*WSEventStream, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &WSEventStream{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		subs:     make(map[int]*wsSubscription),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

var _ EventStream = (*WSEventStream)(nil)

// connect establishes the WebSocket connection.
func (s *WSEventStream) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// wsControl is a subscribe/unsubscribe frame sent to the backend.
type wsControl struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	Event  string `json:"event"`
}

// Subscribe starts delivery of one named event.
func (s *WSEventStream) Subscribe(ctx context.Context, event string) (<-chan Event, func(), error) {
	if s.closed.Load() {
		return nil, nil, fmt.Errorf("event stream closed")
	}

	// Buffer absorbs bursts; delivery blocks rather than dropping events
	sub := &wsSubscription{event: event, ch: make(chan Event, 256)}

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.subsMu.Unlock()

	if err := s.writeControl(wsControl{Action: "subscribe", Event: event}); err != nil {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
		return nil, nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			remaining := s.listenerCountLocked(event)
			s.subsMu.Unlock()

			// Tell the backend only when the last listener of this
			// event name is gone. The channel itself stays open until
			// stream close so in-flight dispatches never hit a closed
			// channel.
			if remaining == 0 && !s.closed.Load() {
				if err := s.writeControl(wsControl{Action: "unsubscribe", Event: event}); err != nil {
					s.logger.Printf("unsubscribe %q: %v", event, err)
				}
			}
		})
	}
	return sub.ch, release, nil
}

// listenerCountLocked counts live subscriptions for an event name.
// Caller holds subsMu.
func (s *WSEventStream) listenerCountLocked(event string) int {
	n := 0
	for _, sub := range s.subs {
		if sub.event == event {
			n++
		}
	}
	return n
}

func (s *WSEventStream) writeControl(msg wsControl) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write %s: %w", msg.Action, err)
	}
	return nil
}

// Close shuts the stream down and closes all subscription channels.
func (s *WSEventStream) Close() error {
	if s.closed.Swap(true) {
		return nil // already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	// Loops must settle before the channels close so no dispatch can
	// send on a closed channel
	s.wg.Wait()

	s.subsMu.Lock()
	for id, sub := range s.subs {
		close(sub.ch)
		delete(s.subs, id)
	}
	s.subsMu.Unlock()

	return nil
}

// readLoop reads push messages and dispatches them to subscribers.
func (s *WSEventStream) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			reconnectDelay *= 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = s.config.ReconnectDelay
		s.dispatch(message)
	}
}

// dispatch routes one raw message to every subscriber of its event name.
func (s *WSEventStream) dispatch(message []byte) {
	var event Event
	if err := json.Unmarshal(message, &event); err != nil || event.Name == "" {
		return
	}

	s.subsMu.Lock()
	targets := make([]*wsSubscription, 0, 2)
	for _, sub := range s.subs {
		if sub.event == event.Name {
			targets = append(targets, sub)
		}
	}
	s.subsMu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- event:
		case <-s.done:
			return
		}
	}
}

// reconnect re-establishes the connection and re-registers active event
// names.
func (s *WSEventStream) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Next read error triggers another attempt
		s.logger.Printf("reconnect: %v", err)
		return
	}

	s.resubscribeAll()
	if s.config.OnReconnect != nil {
		s.config.OnReconnect()
	}
}

// resubscribeAll re-registers every distinct active event name.
func (s *WSEventStream) resubscribeAll() {
	s.subsMu.Lock()
	events := make(map[string]bool)
	for _, sub := range s.subs {
		events[sub.event] = true
	}
	s.subsMu.Unlock()

	for event := range events {
		if err := s.writeControl(wsControl{Action: "subscribe", Event: event}); err != nil {
			s.logger.Printf("resubscribe %q: %v", event, err)
		}
	}
}

// pingLoop keeps the connection alive.
func (s *WSEventStream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				// Dead connection surfaces in the read loop
				s.conn.WriteMessage(websocket.PingMessage, nil)
			}
			s.connMu.Unlock()
		}
	}
}

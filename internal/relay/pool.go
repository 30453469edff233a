package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/types"
)

var (
	ErrUnsafeRelay = errors.New("relay URL blocked: unsafe destination")
	ErrConnClosed  = errors.New("relay connection closed")
)

const (
	idleTimeout     = 2 * time.Minute
	cleanupInterval = 60 * time.Second
	writeTimeout    = 10 * time.Second
)

// Subscription represents an active REQ on a relay connection
type Subscription struct {
	ID        string
	EventChan chan types.Event
	EOSEChan  chan bool
	Done      chan struct{}
	closeOnce sync.Once
}

// Close safely closes the Done channel exactly once
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.Done)
	})
}

// PublishResult is a relay's NIP-01 OK response
type PublishResult struct {
	Relay   string
	EventID string
	Success bool
	Message string
}

// Conn manages a single websocket connection with multiple subscriptions
type Conn struct {
	conn          *websocket.Conn
	relayURL      string
	mu            sync.Mutex
	writeMu       sync.Mutex
	subscriptions map[string]*Subscription
	pendingOK     map[string]chan PublishResult
	closed        bool
	lastActivity  time.Time
}

// Pool manages connections to multiple relays
type Pool struct {
	mu          sync.RWMutex
	connections map[string]*Conn
	dialer      *websocket.Dialer
	allowURL    func(string) bool
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewPool creates a new connection pool and starts idle cleanup
func NewPool() *Pool {
	p := &Pool{
		connections: make(map[string]*Conn),
		dialer:      websocket.DefaultDialer,
		allowURL:    IsURLSafe,
		stopCh:      make(chan struct{}),
	}
	go p.cleanupLoop()
	return p
}

func (p *Pool) getOrCreateConn(ctx context.Context, relayURL string) (*Conn, error) {
	if !p.allowURL(relayURL) {
		return nil, ErrUnsafeRelay
	}

	p.mu.RLock()
	rc := p.connections[relayURL]
	p.mu.RUnlock()
	if rc != nil && !rc.isClosed() {
		return rc, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	rc = p.connections[relayURL]
	if rc != nil && !rc.isClosed() {
		return rc, nil
	}

	slog.Debug("pool: creating connection", "relay", relayURL)
	conn, _, err := p.dialer.DialContext(ctx, relayURL, nil)
	if err != nil {
		return nil, err
	}

	rc = &Conn{
		conn:          conn,
		relayURL:      relayURL,
		subscriptions: make(map[string]*Subscription),
		pendingOK:     make(map[string]chan PublishResult),
		lastActivity:  time.Now(),
	}
	p.connections[relayURL] = rc

	go rc.readLoop()
	return rc, nil
}

// Subscribe sends a REQ for filter and returns the subscription receiving its events
func (p *Pool) Subscribe(ctx context.Context, relayURL string, subID string, filter types.Filter) (*Subscription, error) {
	const maxRetries = 3
	var rc *Conn

	for attempt := 0; attempt < maxRetries; attempt++ {
		c, err := p.getOrCreateConn(ctx, relayURL)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			p.mu.Lock()
			delete(p.connections, relayURL)
			p.mu.Unlock()
			continue
		}
		rc = c
		break
	}
	if rc == nil {
		return nil, errors.New("failed to establish connection after retries")
	}

	sub := &Subscription{
		ID:        subID,
		EventChan: make(chan types.Event, 100),
		EOSEChan:  make(chan bool, 1),
		Done:      make(chan struct{}),
	}

	// rc.mu is still held from the loop
	rc.subscriptions[subID] = sub
	rc.lastActivity = time.Now()
	rc.mu.Unlock()

	if err := rc.write([]interface{}{"REQ", subID, filter.ToREQ()}); err != nil {
		rc.mu.Lock()
		delete(rc.subscriptions, subID)
		rc.mu.Unlock()
		rc.markClosed()
		return nil, err
	}
	return sub, nil
}

// Unsubscribe sends CLOSE (best effort) and closes the subscription
func (p *Pool) Unsubscribe(relayURL string, sub *Subscription) {
	if sub == nil {
		return
	}

	p.mu.RLock()
	rc := p.connections[relayURL]
	p.mu.RUnlock()

	if rc != nil {
		rc.mu.Lock()
		_, exists := rc.subscriptions[sub.ID]
		shouldSendClose := !rc.closed && exists
		delete(rc.subscriptions, sub.ID)
		rc.mu.Unlock()

		if shouldSendClose {
			rc.write([]interface{}{"CLOSE", sub.ID})
		}
	}
	sub.Close()
}

// Publish sends an EVENT and waits for the relay's OK or ctx expiry
func (p *Pool) Publish(ctx context.Context, relayURL string, evt *types.Event) (PublishResult, error) {
	rc, err := p.getOrCreateConn(ctx, relayURL)
	if err != nil {
		return PublishResult{}, err
	}

	okCh := make(chan PublishResult, 1)
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return PublishResult{}, ErrConnClosed
	}
	rc.pendingOK[evt.ID] = okCh
	rc.mu.Unlock()

	defer func() {
		rc.mu.Lock()
		delete(rc.pendingOK, evt.ID)
		rc.mu.Unlock()
	}()

	if err := rc.write([]interface{}{"EVENT", evt}); err != nil {
		rc.markClosed()
		return PublishResult{}, err
	}

	select {
	case res, ok := <-okCh:
		if !ok {
			return PublishResult{}, ErrConnClosed
		}
		return res, nil
	case <-ctx.Done():
		return PublishResult{}, fmt.Errorf("waiting for OK from %s: %w", relayURL, ctx.Err())
	}
}

func (rc *Conn) isClosed() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.closed
}

func (rc *Conn) write(v interface{}) error {
	rc.writeMu.Lock()
	defer rc.writeMu.Unlock()

	rc.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	defer rc.conn.SetWriteDeadline(time.Time{})
	return rc.conn.WriteJSON(v)
}

// readLoop continuously reads from the connection and routes messages
func (rc *Conn) readLoop() {
	defer rc.markClosed()

	for {
		var msg types.NostrMessage
		if err := rc.conn.ReadJSON(&msg); err != nil {
			if !rc.isClosed() {
				slog.Debug("pool: read error", "relay", rc.relayURL, "error", err)
			}
			return
		}

		rc.mu.Lock()
		rc.lastActivity = time.Now()
		rc.mu.Unlock()

		if len(msg) < 2 {
			continue
		}
		msgType, ok := msg[0].(string)
		if !ok {
			continue
		}
		rc.route(msgType, msg)
	}
}

func (rc *Conn) route(msgType string, msg types.NostrMessage) {
	switch msgType {
	case "EVENT":
		if len(msg) < 3 {
			return
		}
		subID, _ := msg[1].(string)
		evt, ok := nostr.ParseEventFromInterface(msg[2])
		if !ok {
			return
		}
		evt.RelaysSeen = []string{rc.relayURL}

		rc.mu.Lock()
		sub := rc.subscriptions[subID]
		rc.mu.Unlock()

		if sub != nil {
			select {
			case sub.EventChan <- evt:
			case <-sub.Done:
			default:
				// Channel full, drop event
			}
		}

	case "EOSE":
		subID, _ := msg[1].(string)
		rc.mu.Lock()
		sub := rc.subscriptions[subID]
		rc.mu.Unlock()

		if sub != nil {
			select {
			case sub.EOSEChan <- true:
			default:
			}
		}

	case "OK":
		if len(msg) < 3 {
			return
		}
		eventID, _ := msg[1].(string)
		success, _ := msg[2].(bool)
		var message string
		if len(msg) >= 4 {
			message, _ = msg[3].(string)
		}

		rc.mu.Lock()
		ch := rc.pendingOK[eventID]
		rc.mu.Unlock()

		if ch != nil {
			select {
			case ch <- PublishResult{Relay: rc.relayURL, EventID: eventID, Success: success, Message: message}:
			default:
			}
		}

	case "CLOSED":
		subID, _ := msg[1].(string)
		rc.mu.Lock()
		sub := rc.subscriptions[subID]
		delete(rc.subscriptions, subID)
		rc.mu.Unlock()
		if sub != nil {
			sub.Close()
		}

	case "NOTICE":
		notice, _ := msg[1].(string)
		slog.Debug("pool: NOTICE", "relay", rc.relayURL, "notice", notice)
	}
}

// markClosed marks the connection as closed and releases every waiter
func (rc *Conn) markClosed() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.closed {
		return
	}
	rc.closed = true
	rc.conn.Close()

	for _, sub := range rc.subscriptions {
		sub.Close()
	}
	rc.subscriptions = make(map[string]*Subscription)
	for id, ch := range rc.pendingOK {
		close(ch)
		delete(rc.pendingOK, id)
	}
}

func (p *Pool) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.cleanup()
		}
	}
}

// cleanup removes connections that have been idle too long
func (p *Pool) cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for relayURL, rc := range p.connections {
		rc.mu.Lock()
		closed := rc.closed
		idle := len(rc.subscriptions) == 0 && len(rc.pendingOK) == 0 && now.Sub(rc.lastActivity) > idleTimeout
		rc.mu.Unlock()

		if closed || idle {
			if !closed {
				slog.Debug("pool: closing idle connection", "relay", relayURL)
				rc.markClosed()
			}
			delete(p.connections, relayURL)
		}
	}
}

// ConnectedCount reports open connections, exposed as a gauge
func (p *Pool) ConnectedCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, rc := range p.connections {
		if !rc.isClosed() {
			n++
		}
	}
	return n
}

// Close shuts every connection and stops the cleanup loop
func (p *Pool) Close() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	p.mu.Lock()
	conns := p.connections
	p.connections = make(map[string]*Conn)
	p.mu.Unlock()

	for _, rc := range conns {
		rc.markClosed()
	}
}

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultInboundBufferSize bounds the queue of frames waiting for
	// dispatch. The read loop never blocks on a slow handler; overflowing
	// frames are dropped with a warning.
	DefaultInboundBufferSize = 256

	initialReconnectDelay = time.Second
	maxReconnectDelay     = 30 * time.Second
)

// ErrNotConnected is returned by Send when no connection is established.
var ErrNotConnected = errors.New("gateway not connected")

// Conn is the narrow slice of *websocket.Conn the client uses, extracted so
// tests can script a connection.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer establishes a Conn to the gateway.
type Dialer func(url string) (Conn, error)

func defaultDialer(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Handler consumes the payload of one inbound frame.
type Handler func(payload []byte)

// Client is the control-channel client. Register handlers with Handle before
// calling Start; afterwards one read loop feeds a bounded inbound queue and
// one dispatcher drains it, so handlers run serially in arrival order.
type Client struct {
	url  string
	dial Dialer

	handlersMu sync.RWMutex
	handlers   map[string]Handler

	connMu sync.Mutex
	conn   Conn

	inbound chan Envelope
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewClient creates a Client for the given gateway URL. A nil dialer uses
// gorilla/websocket's default dialer.
func NewClient(url string, dialer Dialer) *Client {
	if dialer == nil {
		dialer = defaultDialer
	}
	return &Client{
		url:      url,
		dial:     dialer,
		handlers: make(map[string]Handler),
		inbound:  make(chan Envelope, DefaultInboundBufferSize),
		closed:   make(chan struct{}),
	}
}

// Handle registers the handler for a message type. Registering again for the
// same type replaces the previous handler.
func (c *Client) Handle(msgType string, h Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[msgType] = h
}

// Start dials the gateway and starts the read and dispatch loops.
func (c *Client) Start() error {
	conn, err := c.dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to dial gateway %s: %w", c.url, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.wg.Add(2)
	go c.readLoop()
	go c.dispatchLoop()

	slog.Info("connected to gateway", "url", c.url)
	return nil
}

// Send marshals an envelope and writes it to the gateway. Writes are
// serialized; concurrent senders are safe.
func (c *Client) Send(msgType string, payload []byte) error {
	frame, err := json.Marshal(Envelope{Type: msgType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", msgType, err)
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to send %s frame: %w", msgType, err)
	}
	return nil
}

// Close tears the connection down and stops both loops. Safe to call more
// than once.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)

		c.connMu.Lock()
		if c.conn != nil {
			err = c.conn.Close()
			c.conn = nil
		}
		c.connMu.Unlock()

		c.wg.Wait()
		slog.Info("gateway connection closed")
	})
	return err
}

func (c *Client) readLoop() {
	defer c.wg.Done()

	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()
		if conn == nil {
			return
		}

		_, frame, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return
			default:
			}
			slog.Warn("gateway read failed, reconnecting", "error", err)
			if !c.reconnect() {
				return
			}
			continue
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			slog.Warn("dropping unparsable gateway frame", "error", err)
			continue
		}

		select {
		case c.inbound <- env:
		default:
			slog.Warn("inbound queue full, dropping frame", "type", env.Type)
		}
	}
}

// reconnect dials with capped exponential backoff until it succeeds or the
// client is closed. Returns false when closed.
func (c *Client) reconnect() bool {
	delay := initialReconnectDelay
	for {
		select {
		case <-c.closed:
			return false
		case <-time.After(delay):
		}

		conn, err := c.dial(c.url)
		if err == nil {
			c.connMu.Lock()
			select {
			case <-c.closed:
				// Closed while dialing; don't leak the fresh connection.
				c.connMu.Unlock()
				conn.Close()
				return false
			default:
			}
			c.conn = conn
			c.connMu.Unlock()
			slog.Info("reconnected to gateway", "url", c.url)
			return true
		}

		slog.Warn("gateway reconnect failed", "error", err, "retry_in", delay)
		delay = min(delay*2, maxReconnectDelay)
	}
}

func (c *Client) dispatchLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.closed:
			return
		case env := <-c.inbound:
			c.handlersMu.RLock()
			handler, ok := c.handlers[env.Type]
			c.handlersMu.RUnlock()

			if !ok {
				slog.Debug("no handler for frame type", "type", env.Type)
				continue
			}
			handler(env.Payload)
		}
	}
}

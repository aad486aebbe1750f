package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames only carry subscription requests.
	maxMessageSize = 512

	sendBuffer = 256
)

// Subscriber is implemented by clients that only want some entities.
type Subscriber interface {
	Wants(entity EntityType) bool
}

// SubscribeRequest is the only message a client may send, e.g.
// {"subscribe":["notification","payment"]}. An empty list restores all events.
type SubscribeRequest struct {
	Subscribe []EntityType `json:"subscribe"`
}

// Client is one push connection from a dashboard or the companion app.
type Client struct {
	id        string
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	closed    bool
	entities  map[EntityType]bool
	delivered map[EntityType]int
	connected time.Time
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewClient creates a client subscribed to every entity.
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:        uuid.New().String(),
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, sendBuffer),
		delivered: make(map[EntityType]int),
		connected: time.Now(),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Wants reports whether events about entity should reach this client.
func (c *Client) Wants(entity EntityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities) == 0 || c.entities[entity]
}

// Subscribe limits the client to entities. No entities means everything.
func (c *Client) Subscribe(entities []EntityType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(entities) == 0 {
		c.entities = nil
		return
	}
	c.entities = make(map[EntityType]bool, len(entities))
	for _, e := range entities {
		c.entities[e] = true
	}
}

// Send queues data for the write pump. A full buffer means the client is too
// slow and counts as closed.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// SendEvent queues an event and counts it against its entity.
func (c *Client) SendEvent(event Event, data []byte) error {
	if err := c.Send(data); err != nil {
		return err
	}
	c.mu.Lock()
	c.delivered[event.Entity]++
	c.mu.Unlock()
	return nil
}

// Delivered returns how many events of entity were queued for this client.
func (c *Client) Delivered(entity EntityType) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.delivered[entity]
}

// Close is safe to call more than once.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		counts := make(map[string]int, len(c.delivered))
		for entity, n := range c.delivered {
			counts[string(entity)] = n
		}
		c.mu.Unlock()

		if c.conn != nil {
			closeErr = c.conn.Close()
		}

		evt := log.Info().
			Str("client_id", c.id).
			Dur("connected_for", time.Since(c.connected)).
			Int("remaining_clients", c.hub.ClientCount())
		for entity, n := range counts {
			evt = evt.Int(entity+"_events", n)
		}
		evt.Msg("WebSocket client disconnected")
	})
	return closeErr
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// handleMessage applies an inbound subscription request. Anything else is
// logged and ignored.
func (c *Client) handleMessage(data []byte) {
	var req SubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Debug().Err(err).Str("client_id", c.id).Msg("Ignoring malformed WebSocket message")
		return
	}
	c.Subscribe(req.Subscribe)
	log.Debug().
		Str("client_id", c.id).
		Interface("entities", req.Subscribe).
		Msg("WebSocket subscription updated")
}

// ReadPump reads subscription requests until the connection drops. Run it in
// its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket unexpected close")
			}
			return
		}
		c.handleMessage(message)
	}
}

// WritePump writes queued events and keepalive pings. Run it in its own
// goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

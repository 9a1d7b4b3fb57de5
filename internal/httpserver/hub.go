// internal/httpserver/hub.go
//
// Connection hub: tracks live websocket connections and their room broadcast
// groups, and delivers outbound events for the room engine.
// Responsibilities:
//   - Connection registry keyed by generated connection id.
//   - Broadcast groups (roomID → connection ids); a connection may belong to
//     several groups at once.
//   - Outbound delivery: every event is wrapped in a {"event","data"}
//     envelope and queued on the connection's send channel. A connection
//     whose queue is full is dropped rather than allowed to stall the rest
//     of the room.
//   - Per-connection write pump with ping keepalives and write deadlines.

package httpserver

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong before the connection is considered dead.
	pongWait = 60 * time.Second
	// Ping interval; must be under pongWait.
	pingPeriod = 30 * time.Second
	// Largest inbound frame accepted.
	maxMessageSize = 8 * 1024
	// Outbound queue depth per connection.
	sendQueueSize = 64

	// Inbound rate limit per connection.
	inboundPerSecond = 20
	inboundBurst     = 10
)

// envelope is the wire format in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// conn is one websocket client. The read loop (httpserver.readLoop) is the
// only reader; writePump is the only writer. mu serializes enqueue against
// close so a send can never race the channel being closed.
type conn struct {
	id      string
	sock    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// close shuts the send channel, which terminates the write pump. Idempotent.
func (c *conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// enqueue queues msg without blocking. Returns false when the queue is full.
// Messages for an already-closed connection are dropped silently.
func (c *conn) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// writePump drains the send channel onto the socket and pings on an interval.
// It exits when the send channel closes or a write fails.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub owns the connection and group tables. It satisfies the room package's
// Sender interface, so the engine never touches sockets directly.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*conn
	groups map[string]map[string]struct{} // roomID → connIDs
	rooms  map[string]map[string]struct{} // connID → roomIDs, for cleanup
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*conn),
		groups: make(map[string]map[string]struct{}),
		rooms:  make(map[string]map[string]struct{}),
	}
}

// register wraps an accepted socket in a conn and adds it to the table.
func (h *Hub) register(sock *websocket.Conn) *conn {
	c := &conn{
		id:      uuid.NewString(),
		sock:    sock,
		send:    make(chan []byte, sendQueueSize),
		limiter: rate.NewLimiter(inboundPerSecond, inboundBurst),
	}
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	return c
}

// unregister removes the connection from every group and closes its pump.
func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	delete(h.conns, c.id)
	for roomID := range h.rooms[c.id] {
		if g := h.groups[roomID]; g != nil {
			delete(g, c.id)
			if len(g) == 0 {
				delete(h.groups, roomID)
			}
		}
	}
	delete(h.rooms, c.id)
	h.mu.Unlock()
	c.close()
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ------------------------- room.Sender implementation -----------------------

// To unicasts an event to one connection. Unknown ids are ignored; the
// engine may race a send against a disconnect.
func (h *Hub) To(connID, event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	c := h.conns[connID]
	h.mu.RUnlock()
	if c != nil {
		h.deliver(c, msg)
	}
}

// Broadcast fans an event out to every connection in the room's group.
func (h *Hub) Broadcast(roomID, event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	members := make([]*conn, 0, len(h.groups[roomID]))
	for id := range h.groups[roomID] {
		if c := h.conns[id]; c != nil {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range members {
		h.deliver(c, msg)
	}
}

// Join adds a connection to a room's broadcast group. Idempotent.
func (h *Hub) Join(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[connID]; !ok {
		return
	}
	if h.groups[roomID] == nil {
		h.groups[roomID] = make(map[string]struct{})
	}
	h.groups[roomID][connID] = struct{}{}
	if h.rooms[connID] == nil {
		h.rooms[connID] = make(map[string]struct{})
	}
	h.rooms[connID][roomID] = struct{}{}
}

// deliver queues msg without blocking. A full queue means the client has
// stopped draining; closing the pump lets the read loop tear the rest down.
func (h *Hub) deliver(c *conn, msg []byte) {
	if !c.enqueue(msg) {
		log.Warn().Str("connId", c.id).Msg("send queue full, dropping connection")
		c.close()
	}
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshal payload")
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: data})
}

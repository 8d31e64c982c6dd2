package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/pkg/logger"
)

// Message is one SSE payload: a named event with a JSON body.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (m Message) Encode() []byte {
	raw, err := json.Marshal(m.Data)
	if err != nil {
		raw = []byte("{}")
	}
	return append(append([]byte("event: "+m.Event+"\ndata: "), raw...), '\n', '\n')
}

// client is one connected event-stream subscriber. Role is empty for
// unauthenticated connections; they still receive broadcasts.
type client struct {
	id   string
	role auth.Role
	send chan []byte
}

// Hub fans domain events out to every connected client. Slow clients drop
// messages rather than block the broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger.LoggerWrapper(),
	}
}

const clientBuffer = 64

// Register adds a subscriber and returns its id and receive channel.
func (h *Hub) Register(role auth.Role) (string, <-chan []byte) {
	c := &client{
		id:   uuid.NewString(),
		role: role,
		send: make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.logger.Debug("sse client connected", "client_id", c.id, "role", role)
	return c.id, c.send
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if ok {
		close(c.send)
		h.logger.Debug("sse client disconnected", "client_id", id)
	}
}

// Broadcast sends the message to every client. Clients whose buffer is full
// miss this message.
func (h *Hub) Broadcast(msg Message) {
	payload := msg.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// SendToRole targets clients that authenticated with the given role.
func (h *Hub) SendToRole(role auth.Role, msg Message) {
	payload := msg.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.role != role {
			continue
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

const heartbeatInterval = 30 * time.Second

// heartbeat keeps intermediaries from closing idle streams.
var heartbeat = []byte(": heartbeat\n\n")

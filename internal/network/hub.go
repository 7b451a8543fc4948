package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/metrics"
)

const broadcastBuffer = 256

// Commander is the part of the engine observers may drive over the socket.
type Commander interface {
	TogglePause() engine.RunState
	SetSpeed(multiplier float64) float64
	ResolveEvent(eventID string, choice int) error
}

// Hub maintains the set of active clients and broadcasts notifications to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
	commander  Commander
	upgrader   websocket.Upgrader
	maxClients int
}

// NewHub initializes a new WebSocket Hub. commander may be nil for a read-only feed.
func NewHub(log *logger.Logger, collector *metrics.Collector, commander Commander) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    collector,
		commander:  commander,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run handles client connections and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
				h.metrics.RecordWSConnection(-1)
			}
			h.mu.Unlock()
			return nil
		case client := <-h.register:
			h.mu.Lock()
			if h.maxClients > 0 && len(h.clients) >= h.maxClients {
				h.mu.Unlock()
				// WritePump sends the close frame once send is closed
				close(client.send)
				h.logger.Warn("observer limit reached, closing connection", "remote", client.conn.RemoteAddr().String())
				continue
			}
			h.clients[client] = true
			h.metrics.RecordWSConnection(1)
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected", "remote", client.conn.RemoteAddr().String())
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.metrics.RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish serializes each notification and queues it for every client.
// It never blocks the simulation; returns how many notifications were dropped.
func (h *Hub) Publish(batch []events.GameEvent) int {
	dropped := 0
	for _, event := range batch {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("failed to serialize notification", "type", event.Type, "error", err)
			dropped++
			continue
		}
		select {
		case h.broadcast <- payload:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("hub broadcast queue full", "dropped", dropped)
	}
	return dropped
}

// ClientCount reports connected observers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SetMaxClients caps concurrent observers. Zero means unlimited.
func (h *Hub) SetMaxClients(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxClients = n
}

func (h *Hub) full() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxClients > 0 && len(h.clients) >= h.maxClients
}

// ServeWS upgrades the request and attaches a new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	// fast path only; Run enforces the cap when the client registers
	if h.full() {
		h.logger.Warn("observer limit reached, rejecting connection", "remote", r.RemoteAddr)
		http.Error(w, "too many observers", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.metrics.RecordWSError()
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := NewClient(h, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"productapi/internal/infrastructure"
)

// ErrHubStopped is returned when the hub is not running
var ErrHubStopped = errors.New("websocket hub is not running")

const (
	broadcastBuffer = 256
	sendBuffer      = 256
)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound frames for every client
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	runMu   sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Start runs the hub loop in the background. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if h.running {
		return
	}
	h.quit = make(chan struct{})
	h.done = make(chan struct{})
	h.running = true

	go h.run(h.quit, h.done)
	h.logger.Info("WebSocket hub started")
}

// Stop ends the hub loop and disconnects every client
func (h *Hub) Stop() {
	h.runMu.Lock()
	if !h.running {
		h.runMu.Unlock()
		return
	}
	h.running = false
	quit, done := h.quit, h.done
	h.runMu.Unlock()

	close(quit)
	<-done
	h.logger.Info("WebSocket hub stopped")
}

// Running reports whether the hub loop is active
func (h *Hub) Running() bool {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	return h.running
}

func (h *Hub) runState() (<-chan struct{}, bool) {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	return h.quit, h.running
}

func (h *Hub) run(quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.fanOut(message)

		case <-quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
				h.recordConnections(-1)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.recordConnections(1)
	h.logger.Info("WebSocket client registered",
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr),
		slog.Int("total_clients", count))

	welcome, err := NewMessage(TypeMessage, WelcomeText).encode()
	if err != nil {
		h.logger.Error("Failed to encode welcome message", slog.String("error", err.Error()))
		return
	}
	select {
	case client.send <- welcome:
	default:
		h.logger.Warn("Client send buffer full, welcome dropped",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.recordConnections(-1)
	h.logger.Info("WebSocket client unregistered",
		slog.String("client_id", client.id),
		slog.Int("total_clients", count))
}

// fanOut hands message to every client; clients with full buffers are dropped
func (h *Hub) fanOut(message []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Dropping slow WebSocket client", slog.String("client_id", client.id))
		h.removeClient(client)
	}
}

func (h *Hub) recordConnections(delta int64) {
	if h.metrics == nil {
		return
	}
	h.metrics.ChatConnections.Add(context.Background(), delta)
}

// Register adds a client to the hub. The hub answers with a welcome message.
func (h *Hub) Register(client *Client) error {
	quit, ok := h.runState()
	if !ok {
		return ErrHubStopped
	}
	select {
	case h.register <- client:
		return nil
	case <-quit:
		return ErrHubStopped
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	quit, ok := h.runState()
	if !ok {
		return
	}
	select {
	case h.unregister <- client:
	case <-quit:
	}
}

// Publish broadcasts an event to every connected client
func (h *Hub) Publish(ctx context.Context, eventType string, data interface{}) error {
	frame, err := NewMessage(eventType, data).encode()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	quit, ok := h.runState()
	if !ok {
		return ErrHubStopped
	}

	select {
	case h.broadcast <- frame:
		h.logger.DebugContext(ctx, "Event queued for broadcast",
			slog.String("type", eventType),
			slog.Int("size", len(frame)))
		return nil
	case <-quit:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

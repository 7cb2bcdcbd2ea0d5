package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"qrdrop/pkg/events"
)

// Hub is the notification broker: it tracks connected viewer clients and
// fans upload-completion events out to all of them. Delivery is at-most-once
// per currently connected client; nobody who connects later sees the event.
type Hub struct {
	mu sync.RWMutex

	// clients maps client ID to client (for cleanup)
	clients map[string]*Client

	// Control channels
	register   chan *Client // New viewer connections
	unregister chan *Client // Viewer disconnections
}

// NewHub creates a new notification hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register adds a new viewer to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a viewer from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish delivers an event to every currently connected viewer. A full or
// disconnected client silently drops its copy; there is no acknowledgement
// and no ordering promise across clients.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	for _, client := range h.clients {
		client.SendMessage(payload)
	}
	h.mu.RUnlock()
	return nil
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// addClient adds a new client to the hub (internal)
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
}

// removeClient removes a client and closes its send channel (internal)
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

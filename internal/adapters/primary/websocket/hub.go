package websocket

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// Hub maintains the set of active Clients and broadcasts events to them.
type Hub struct {
	// clients is every live connection
	clients map[*Client]bool

	// rooms maps variant names to subscribed clients
	rooms map[string]map[*Client]bool

	// variants lists the names a client may subscribe to
	variants map[string]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// done is closed when Run returns
	done chan struct{}

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub serving the given variants.
func NewHub(logger *slog.Logger, variants ...string) *Hub {
	allowed := make(map[string]bool, len(variants))
	for _, v := range variants {
		allowed[v] = true
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		variants:   allowed,
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for delivery. Events carrying a variant reach
// that variant's room; events without one reach every client.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"variant", event.Variant,
		)
		return nil
	}
}

// Run starts the hub's event loop until ctx is cancelled. This MUST be run
// as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Join hands a new client to the event loop. It reports false once the hub
// has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands a client to the event loop for removal. It does not block
// once the hub has stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// IsVariant reports whether clients may subscribe to name.
func (h *Hub) IsVariant(name string) bool {
	return h.variants[name]
}

// Variants returns the subscribable variant names in sorted order.
func (h *Hub) Variants() []string {
	names := make([]string, 0, len(h.variants))
	for name := range h.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		"client_id", client.ID,
		"total_connections", len(h.clients),
	)
}

// unregisterClient removes a client from the hub and all rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client)

	for _, variant := range client.GetSubscriptions() {
		if room, ok := h.rooms[variant]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, variant)
			}
		}
	}

	client.CloseSend()

	h.logger.Info("client unregistered", "client_id", client.ID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.CloseSend()
	}
	h.clients = make(map[*Client]bool)
	h.rooms = make(map[string]map[*Client]bool)
}

// broadcastEvent runs on the Run goroutine, so slow clients are dropped
// directly rather than through the Unregister channel.
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	var targets map[*Client]bool
	if event.Variant == "" {
		targets = h.clients
	} else {
		targets = h.rooms[event.Variant]
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(targets))
	for client := range targets {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"variant", event.Variant,
		"client_count", len(clients),
	)

	for _, client := range clients {
		if client.IsClosed() {
			continue
		}
		select {
		case client.Send <- event:
		default:
			h.logger.Warn("client send buffer full, unregistering", "client_id", client.ID)
			h.unregisterClient(client)
		}
	}
}

// subscribe adds a client to a variant's room. Clients the hub has already
// dropped are refused; their Send channel is closed.
func (h *Hub) subscribe(client *Client, variant string) bool {
	if !h.IsVariant(variant) {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if client.IsClosed() {
		return false
	}

	if h.rooms[variant] == nil {
		h.rooms[variant] = make(map[*Client]bool)
	}
	h.rooms[variant][client] = true
	client.AddSubscription(variant)

	h.logger.Debug("client subscribed", "client_id", client.ID, "variant", variant)
	return true
}

// unsubscribe removes a client from a variant's room
func (h *Hub) unsubscribe(client *Client, variant string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[variant]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, variant)
		}
	}
	client.RemoveSubscription(variant)
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetClientsInRoom returns the number of clients subscribed to a variant
func (h *Hub) GetClientsInRoom(variant string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[variant])
}

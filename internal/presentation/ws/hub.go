package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/pkg/logger"
)

// EventBillCreated is sent to every open billing screen after a save.
const EventBillCreated = "bill.created"

// Event is a message pushed to connected screens
type Event struct {
	Type       string `json:"type"`
	BillID     string `json:"bill_id,omitempty"`
	BillNumber string `json:"bill_number,omitempty"`
}

// Hub keeps the set of connected screens and fans events out to them.
// There is one shop, so every client is in the same room.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}

	mu  sync.RWMutex
	log *logger.Logger
}

// NewHub creates a new Hub instance
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		log:        log.WithComponent("ws"),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.log.Warn("encode event failed", "type", event.Type, "error", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow reader, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client. After shutdown it returns at once.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues event for every connected client. It never blocks the
// caller; when the queue is full the event is dropped.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("broadcast queue full, dropping event", "type", event.Type)
	}
}

// BillCreated announces a saved bill to every open billing screen.
func (h *Hub) BillCreated(bill *entity.Bill) {
	h.Broadcast(Event{Type: EventBillCreated, BillID: bill.ID, BillNumber: bill.BillNumber})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

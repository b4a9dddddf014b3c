// File: internal/realtime/hub.go
package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/shadowai/shadowai/internal/domain"
)

// Event is the wire frame pushed to websocket subscribers.
type Event struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

const EventTypeMessage = "message"

type conversationMessage struct {
	conversationID uint
	payload        []byte
}

// Hub fans persisted messages out to websocket clients subscribed to a
// conversation. Delivery is best effort: a slow client is dropped rather
// than allowed to stall the turn pipeline.
type Hub struct {
	clients       map[*Client]struct{}
	conversations map[uint]map[*Client]struct{}
	register      chan *Client
	unregister    chan *Client
	broadcast     chan *conversationMessage
	mu            sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]struct{}),
		conversations: make(map[uint]map[*Client]struct{}),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan *conversationMessage, 256),
	}
}

// Run owns the client registry; start it once on its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			if _, ok := h.conversations[client.conversationID]; !ok {
				h.conversations[client.conversationID] = make(map[*Client]struct{})
			}
			h.conversations[client.conversationID][client] = struct{}{}
			h.mu.Unlock()
			log.Printf("[RealtimeHub] client subscribed: conversation=%d", client.conversationID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if subs, ok := h.conversations[client.conversationID]; ok {
					delete(subs, client)
					if len(subs) == 0 {
						delete(h.conversations, client.conversationID)
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[RealtimeHub] client unsubscribed: conversation=%d", client.conversationID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.conversations[msg.conversationID] {
				select {
				case client.send <- msg.payload:
				default:
					go h.Unregister(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues a persisted message for everyone watching its conversation.
// It never blocks the caller; under backpressure the event is dropped.
func (h *Hub) Publish(conversationID uint, msg domain.Message) {
	payload, err := json.Marshal(Event{Type: EventTypeMessage, Message: msg})
	if err != nil {
		log.Printf("[RealtimeHub] event marshal failed: %v", err)
		return
	}

	select {
	case h.broadcast <- &conversationMessage{conversationID: conversationID, payload: payload}:
	default:
		log.Printf("[RealtimeHub] broadcast queue full, dropping event: conversation=%d", conversationID)
	}
}

// SubscriberCount reports how many clients are watching a conversation.
func (h *Hub) SubscriberCount(conversationID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations[conversationID])
}

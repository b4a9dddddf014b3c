// File: internal/handlers/realtime_handler.go
package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/shadowai/shadowai/internal/middleware"
	"github.com/shadowai/shadowai/internal/realtime"
	"github.com/shadowai/shadowai/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens via the JWT cookie before the upgrade; same-origin
	// enforcement belongs to the deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeHandler struct {
	Hub         *realtime.Hub
	ChatService *services.ChatService
}

func NewRealtimeHandler(hub *realtime.Hub, cs *services.ChatService) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub, ChatService: cs}
}

// Subscribe upgrades the request to a websocket that streams new messages
// for one conversation the caller owns.
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.VerifyOwnership(r.Context(), userID, conversationID); err != nil {
		writeError(w, "Conversation not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[RealtimeHandler] upgrade failed: %v", err)
		return
	}

	client := realtime.NewClient(h.Hub, conn, conversationID)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

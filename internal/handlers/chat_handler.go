// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shadowai/shadowai/internal/middleware"
	"github.com/shadowai/shadowai/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

// ListConversations returns the caller's conversations, most recent first.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	convs, err := h.ChatService.GetUserConversations(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve conversations", chatErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// CreateConversation provisions a new empty conversation.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, err := h.ChatService.CreateConversation(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not create conversation", chatErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// GetMessages returns the ordered transcript of one conversation.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
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

	transcript, err := h.ChatService.GetConversationMessages(r.Context(), userID, conversationID)
	if err != nil {
		writeError(w, "Could not retrieve messages", chatErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, transcript)
}

// SendMessage runs one completion turn against a conversation.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.SendTurn(r.Context(), userID, conversationID, req.Message)
	if err != nil {
		writeError(w, "Error processing message: "+err.Error(), chatErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteConversation removes a conversation and its transcript.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
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

	if err := h.ChatService.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		writeError(w, "Could not delete conversation", chatErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

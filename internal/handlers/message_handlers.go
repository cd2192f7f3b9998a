package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"ms-reminders/internal/ai"
	"ms-reminders/internal/auth"
	"ms-reminders/internal/notify"
	"ms-reminders/internal/store"
)

// MessageHandler serves AI-regenerated notification messages, quota-gated.
type MessageHandler struct {
	generator *ai.Generator
	store     *store.Store
}

func NewMessageHandler(generator *ai.Generator, st *store.Store) *MessageHandler {
	return &MessageHandler{
		generator: generator,
		store:     st,
	}
}

// Regenerate handles POST /reminders/{id}/message
func (h *MessageHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	reminder, err := h.store.GetReminder(r.Context(), userID, id)
	if err != nil {
		log.Printf("Error getting reminder %s: %v", id, err)
		http.Error(w, "Failed to get reminder", http.StatusInternalServerError)
		return
	}
	if reminder == nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	leadLabel := r.URL.Query().Get("lead_label")
	if leadLabel == "" {
		leadLabel = notify.LabelMidnight
	}

	body := h.generator.GenerateMessage(r.Context(), userID, *reminder, leadLabel)
	title := notify.Compose(*reminder, leadLabel).Title

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"title": title,
		"body":  body,
	})
}

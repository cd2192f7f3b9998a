package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"ms-reminders/internal/auth"
	"ms-reminders/internal/dialogue"
	"ms-reminders/internal/models"
	"ms-reminders/internal/store"
)

// ChatHandler exposes the dialogue engine's process contract over HTTP. The
// draft is transient: the client echoes it back on every turn.
type ChatHandler struct {
	engine *dialogue.Engine
	store  *store.Store
}

func NewChatHandler(engine *dialogue.Engine, st *store.Store) *ChatHandler {
	return &ChatHandler{
		engine: engine,
		store:  st,
	}
}

type chatTurnRequest struct {
	Messages []dialogue.Message `json:"messages"`
	Draft    dialogue.Draft     `json:"draft"`
}

type chatTurnResponse struct {
	Reply      string            `json:"reply"`
	Draft      dialogue.Draft    `json:"draft"`
	IsComplete bool              `json:"is_complete"`
	Completed  *models.Reminder  `json:"completed,omitempty"`
	Listing    []models.Reminder `json:"listing,omitempty"`
}

// Turn handles POST /chat/turn
func (h *ChatHandler) Turn(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req chatTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding chat turn request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.store.GetOrCreateUser(r.Context(), userID, "")
	if err != nil {
		log.Printf("Error getting/creating user %s: %v", userID, err)
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return
	}

	reminders, err := h.store.ListRemindersForUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing reminders for user %s: %v", userID, err)
		http.Error(w, "Failed to load reminders", http.StatusInternalServerError)
		return
	}

	result := h.engine.Process(req.Messages, req.Draft, req.Draft.Editing, dialogue.UserContext{
		UID:       userID,
		Name:      user.Name,
		Reminders: reminders,
	})

	if result.DeleteTarget != nil {
		if err := h.store.DeleteReminder(r.Context(), userID, result.DeleteTarget.ID); err != nil {
			log.Printf("Error deleting reminder %s: %v", result.DeleteTarget.ID, err)
			http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
			return
		}
	}

	// Persist the completed item before the reset draft goes back out.
	if result.Completed != nil {
		result.Completed.UserID = userID
		var persistErr error
		if req.Draft.Editing {
			persistErr = h.store.UpdateReminder(r.Context(), result.Completed)
		} else {
			persistErr = h.store.CreateReminder(r.Context(), result.Completed)
		}
		if persistErr != nil {
			log.Printf("Error persisting completed reminder %s: %v", result.Completed.ID, persistErr)
			http.Error(w, "Failed to save reminder", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatTurnResponse{
		Reply:      result.Reply,
		Draft:      result.Next,
		IsComplete: result.Completed != nil,
		Completed:  result.Completed,
		Listing:    result.Listing,
	})
}

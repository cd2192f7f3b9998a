package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ms-reminders/internal/auth"
	"ms-reminders/internal/models"
	"ms-reminders/internal/store"
)

// ReminderHandler serves direct reminder CRUD alongside the chat flow.
type ReminderHandler struct {
	store *store.Store
}

func NewReminderHandler(st *store.Store) *ReminderHandler {
	return &ReminderHandler{store: st}
}

// List handles GET /reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reminders, err := h.store.ListRemindersForUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing reminders for user %s: %v", userID, err)
		http.Error(w, "Failed to list reminders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"reminders": reminders})
}

// Get handles GET /reminders/{id}
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reminder)
}

// Create handles POST /reminders. Only complete reminders are persisted:
// type, canonical date, and a display identifier are required.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var reminder models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		log.Printf("Error decoding reminder body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if reminder.ReminderType == "" || reminder.DisplayName() == "" {
		http.Error(w, "reminder_type and a name or title are required", http.StatusBadRequest)
		return
	}
	if _, err := models.ParseEventDate(reminder.EventDate); err != nil {
		http.Error(w, "event_date must be MM/DD/YYYY", http.StatusBadRequest)
		return
	}

	now := time.Now()
	reminder.ID = uuid.New().String()
	reminder.UserID = userID
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	if _, err := h.store.GetOrCreateUser(r.Context(), userID, ""); err != nil {
		log.Printf("Error getting/creating user %s: %v", userID, err)
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	if err := h.store.CreateReminder(r.Context(), &reminder); err != nil {
		log.Printf("Error creating reminder: %v", err)
		http.Error(w, "Failed to create reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reminder)
}

// Update handles PUT /reminders/{id}
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	existing, err := h.store.GetReminder(r.Context(), userID, id)
	if err != nil {
		log.Printf("Error getting reminder %s: %v", id, err)
		http.Error(w, "Failed to get reminder", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	var updated models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		log.Printf("Error decoding reminder body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if updated.EventDate != "" {
		if _, err := models.ParseEventDate(updated.EventDate); err != nil {
			http.Error(w, "event_date must be MM/DD/YYYY", http.StatusBadRequest)
			return
		}
		existing.EventDate = updated.EventDate
	}
	if updated.ReminderType != "" {
		existing.ReminderType = updated.ReminderType
	}
	if updated.PersonName != "" {
		existing.PersonName = updated.PersonName
	}
	if updated.Title != "" {
		existing.Title = updated.Title
	}
	if updated.Relationship != "" {
		existing.Relationship = updated.Relationship
	}
	if updated.Location != "" {
		existing.Location = updated.Location
	}
	if updated.Attendees != "" {
		existing.Attendees = updated.Attendees
	}
	if updated.Amount != "" {
		existing.Amount = updated.Amount
	}
	if updated.Note != "" {
		existing.Note = updated.Note
	}
	existing.UpdatedAt = time.Now()

	if err := h.store.UpdateReminder(r.Context(), existing); err != nil {
		log.Printf("Error updating reminder %s: %v", id, err)
		http.Error(w, "Failed to update reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// Delete handles DELETE /reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.store.DeleteReminder(r.Context(), userID, id); err != nil {
		log.Printf("Error deleting reminder %s: %v", id, err)
		http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "Reminder deleted", "id": id})
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"ms-reminders/internal/auth"
	"ms-reminders/internal/models"
	"ms-reminders/internal/store"
)

// DeviceHandler records the push delivery address and permission state the
// client reports.
type DeviceHandler struct {
	store *store.Store
}

func NewDeviceHandler(st *store.Store) *DeviceHandler {
	return &DeviceHandler{store: st}
}

// RegisterToken handles POST /device/token
func (h *DeviceHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		PushToken string `json:"push_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PushToken == "" {
		http.Error(w, "push_token is required", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetOrCreateUser(r.Context(), userID, ""); err != nil {
		log.Printf("Error getting/creating user %s: %v", userID, err)
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	if err := h.store.UpdatePushToken(r.Context(), userID, req.PushToken); err != nil {
		log.Printf("Error updating push token for user %s: %v", userID, err)
		http.Error(w, "Failed to register token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "Push token registered"})
}

// UpdatePermission handles PUT /device/permission
func (h *DeviceHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Permission models.NotificationPermission `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Permission {
	case models.NotificationPermissionGranted, models.NotificationPermissionDenied, models.NotificationPermissionDefault:
	default:
		http.Error(w, "permission must be granted, denied, or default", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetOrCreateUser(r.Context(), userID, ""); err != nil {
		log.Printf("Error getting/creating user %s: %v", userID, err)
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	if err := h.store.UpdateNotificationPermission(r.Context(), userID, req.Permission); err != nil {
		log.Printf("Error updating notification permission for user %s: %v", userID, err)
		http.Error(w, "Failed to update permission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "Permission updated"})
}

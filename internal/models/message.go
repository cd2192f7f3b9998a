package models

import "time"

// DispatchMessageBody is the message format placed on the dispatch queue by
// the scheduler and consumed by the dispatch processor.
type DispatchMessageBody struct {
	UID        string `json:"uid"`
	ReminderID string `json:"reminder_id"`
	PushToken  string `json:"push_token"`
	LeadLabel  string `json:"lead_label"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// DeliveryRecord is published to the delivery audit topic after every
// dispatch attempt.
type DeliveryRecord struct {
	UID        string    `json:"uid"`
	ReminderID string    `json:"reminder_id"`
	LeadLabel  string    `json:"lead_label"`
	Title      string    `json:"title"`
	Status     string    `json:"status"` // "sent" or "failed"
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

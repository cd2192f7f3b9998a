package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"ms-reminders/internal/models"
	"ms-reminders/internal/notify"
)

// LimitReachedMessage is returned once the daily regeneration cap is hit.
// A fixed string, not an error: the user always gets some text.
const LimitReachedMessage = "You've used up today's AI messages — they'll be back tomorrow!"

const regenDateLayout = "01/02/2006"

// UserStore is the slice of the record store the generator needs.
type UserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateRegenCounter(ctx context.Context, uid string, count int, date string) error
}

// Generator produces AI-written notification bodies, gated by a per-user
// daily regeneration counter that resets when the stored date is not today.
type Generator struct {
	client     *Client
	store      UserStore
	dailyLimit int
	now        func() time.Time
}

func NewGenerator(client *Client, store UserStore, dailyLimit int) *Generator {
	return &Generator{
		client:     client,
		store:      store,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// GenerateMessage returns an AI-written body for the reminder, or the
// deterministic template body when generation fails, or the fixed limit
// message when the daily cap is reached.
func (g *Generator) GenerateMessage(ctx context.Context, uid string, r models.Reminder, leadLabel string) string {
	fallback := notify.Compose(r, leadLabel).Body

	user, err := g.store.GetUser(ctx, uid)
	if err != nil || user == nil {
		log.Printf("Error loading user %s for message generation: %v", uid, err)
		return fallback
	}

	today := g.now().Format(regenDateLayout)
	count := user.RegenCount
	if user.RegenDate != today {
		count = 0
	}
	if count >= g.dailyLimit {
		return LimitReachedMessage
	}

	systemPrompt := "You write one short, warm push-notification message reminding someone about a personal event. One or two sentences, no hashtags, no quotes."
	userPrompt := fmt.Sprintf("Event type: %s. For: %s. Date: %s. Lead time: %s.",
		r.ReminderType, r.DisplayName(), r.EventDate, leadLabel)
	if r.Relationship != "" {
		userPrompt += fmt.Sprintf(" Relationship: %s.", r.Relationship)
	}
	if r.Note != "" {
		userPrompt += fmt.Sprintf(" Note: %s.", r.Note)
	}

	text, err := g.client.Complete(ctx, systemPrompt, userPrompt, 120, 0.9)
	if err != nil {
		log.Printf("Completion failed for user %s, falling back to template: %v", uid, err)
		return fallback
	}

	if err := g.store.UpdateRegenCounter(ctx, uid, count+1, today); err != nil {
		log.Printf("Error updating regen counter for user %s: %v", uid, err)
	}
	return text
}

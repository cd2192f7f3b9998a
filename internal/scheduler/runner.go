package scheduler

import (
	"context"
	"log"
	"time"

	"ms-reminders/internal/models"
	"ms-reminders/internal/notify"
	"ms-reminders/internal/push"
)

// Store is the slice of the record store the runner needs.
type Store interface {
	ListUsersWithPushTokens(ctx context.Context) ([]models.User, error)
	ListRemindersForUser(ctx context.Context, uid string) ([]models.Reminder, error)
	RollForwardEventDate(ctx context.Context, id, newDate string) error
}

// Enqueuer hands a composed notification to the buffered dispatch path.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg models.DispatchMessageBody) error
}

// Auditor records dispatch attempts. Best effort.
type Auditor interface {
	Publish(ctx context.Context, record models.DeliveryRecord)
}

// Runner polls all users' reminders on a fixed cadence and fires a
// notification whenever "now" falls inside the tolerance window around a
// computed instant. There is no persisted delivery marker: at-most-once
// relies on the tolerance window (half the poll interval) being narrower
// than the cadence and on ticks running sequentially.
type Runner struct {
	store        Store
	dispatcher   push.Dispatcher
	enqueuer     Enqueuer // nil means dispatch inline
	auditor      Auditor  // nil means no audit trail
	pollInterval time.Duration
	now          func() time.Time
}

func NewRunner(store Store, dispatcher push.Dispatcher, enqueuer Enqueuer, auditor Auditor, pollInterval time.Duration) *Runner {
	return &Runner{
		store:        store,
		dispatcher:   dispatcher,
		enqueuer:     enqueuer,
		auditor:      auditor,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

// Run drives the poll loop until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	log.Printf("Starting scheduler runner with poll interval %s", r.pollInterval)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.runTick(ctx, r.now())
	for {
		select {
		case <-ctx.Done():
			log.Println("Context cancelled, stopping scheduler runner")
			return ctx.Err()
		case <-ticker.C:
			r.runTick(ctx, r.now())
		}
	}
}

// runTick processes one poll pass. Collaborator errors are logged and the
// affected item skipped; nothing here is fatal.
func (r *Runner) runTick(ctx context.Context, now time.Time) {
	users, err := r.store.ListUsersWithPushTokens(ctx)
	if err != nil {
		log.Printf("Error enumerating users, skipping tick: %v", err)
		return
	}

	tolerance := r.pollInterval / 2

	for _, user := range users {
		reminders, err := r.store.ListRemindersForUser(ctx, user.UID)
		if err != nil {
			log.Printf("Error enumerating reminders for user %s: %v", user.UID, err)
			continue
		}

		for _, reminder := range reminders {
			r.rollForward(ctx, reminder, now)

			instants, err := notify.InstantsFor(reminder, now)
			if err != nil {
				log.Printf("Error computing instants for reminder %s: %v", reminder.ID, err)
				continue
			}
			for _, instant := range instants {
				if !notify.Due(instant, now, tolerance) {
					continue
				}
				r.dispatch(ctx, user, reminder, instant)
			}
		}
	}
}

// rollForward keeps the stored event date current once the stored occurrence
// is more than a day in the past. Birthdays and anniversaries keep their
// original year for age/duration display, so they are never rolled.
func (r *Runner) rollForward(ctx context.Context, reminder models.Reminder, now time.Time) {
	if reminder.ReminderType.IsPersonEvent() {
		return
	}
	due, err := notify.RolloverDue(reminder.EventDate, now)
	if err != nil || !due {
		return
	}
	next, err := notify.NextEventDate(reminder.EventDate)
	if err != nil {
		log.Printf("Error computing rollover date for reminder %s: %v", reminder.ID, err)
		return
	}
	if err := r.store.RollForwardEventDate(ctx, reminder.ID, next); err != nil {
		log.Printf("Error rolling forward event date for reminder %s: %v", reminder.ID, err)
		return
	}
	log.Printf("Rolled forward reminder %s event date to %s", reminder.ID, next)
}

func (r *Runner) dispatch(ctx context.Context, user models.User, reminder models.Reminder, instant notify.Instant) {
	notification := notify.Compose(reminder, instant.Label)

	if r.enqueuer != nil {
		msg := models.DispatchMessageBody{
			UID:        user.UID,
			ReminderID: reminder.ID,
			PushToken:  user.PushToken,
			LeadLabel:  instant.Label,
			Title:      notification.Title,
			Body:       notification.Body,
		}
		if err := r.enqueuer.Enqueue(ctx, msg); err != nil {
			log.Printf("Error enqueueing notification for reminder %s (%s): %v", reminder.ID, instant.Label, err)
		}
		return
	}

	err := r.dispatcher.Send(ctx, user.PushToken, notification.Title, notification.Body, map[string]string{
		"reminder_id": reminder.ID,
		"lead_label":  instant.Label,
	})
	status := "sent"
	errText := ""
	if err != nil {
		log.Printf("Error sending notification for reminder %s (%s): %v", reminder.ID, instant.Label, err)
		status = "failed"
		errText = err.Error()
	} else {
		log.Printf("Sent %q notification for reminder %s to user %s", instant.Label, reminder.ID, user.UID)
	}

	if r.auditor != nil {
		r.auditor.Publish(ctx, models.DeliveryRecord{
			UID:        user.UID,
			ReminderID: reminder.ID,
			LeadLabel:  instant.Label,
			Title:      notification.Title,
			Status:     status,
			Error:      errText,
			SentAt:     r.now(),
		})
	}
}

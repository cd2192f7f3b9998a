package notify

import (
	"fmt"
	"math/rand"
	"strings"

	"ms-reminders/internal/models"
)

// Notification is a composed push title and body.
type Notification struct {
	Title string
	Body  string
}

var typeEmojis = map[models.ReminderType]string{
	models.ReminderTypeBirthday:    "🎂",
	models.ReminderTypeAnniversary: "💍",
	models.ReminderTypeMeeting:     "📅",
	models.ReminderTypeExam:        "📝",
	models.ReminderTypeBill:        "💸",
	models.ReminderTypeTask:        "✅",
	models.ReminderTypeCustom:      "🔔",
}

// Body templates keyed by lead label. %s is the display name. Three variants
// per key; one is picked at random so repeated reminders don't read
// identically.
var generalTemplates = map[string][3]string{
	LabelOneWeek: {
		"One week to go until %s's big day. Time to plan something!",
		"%s's day is a week away — a heads up so nothing sneaks up on you.",
		"Just 7 days left before %s's day arrives.",
	},
	LabelOneDay: {
		"Tomorrow is %s's day! Don't forget.",
		"Only one day left — %s's day is tomorrow.",
		"Heads up: %s's day is tomorrow. Maybe send a message?",
	},
	LabelSixHours: {
		"%s's day starts in about 6 hours.",
		"Getting close — just 6 hours until %s's day.",
		"A gentle nudge: %s's day is 6 hours away.",
	},
	LabelOneHour: {
		"One hour to go for %s's day!",
		"%s's day is almost here — just an hour left.",
		"Final reminder: %s's day begins in an hour.",
	},
	LabelMidnight: {
		"Today is %s's day! Make it count.",
		"The day is here — it's %s's day today!",
		"It's officially %s's day. Don't let it slip by!",
	},
}

var anniversaryTemplates = map[string][3]string{
	LabelOneWeek: {
		"One week until %s's anniversary — time to plan something special for the two of them.",
		"%s's anniversary is a week away. Flowers? Dinner? You've got time.",
		"7 days until %s's anniversary. A little planning goes a long way.",
	},
	LabelOneDay: {
		"Tomorrow is %s's anniversary! A perfect day for the couple.",
		"%s's anniversary is tomorrow — don't let the lovebirds down.",
		"One day until %s's anniversary. Card and wishes ready?",
	},
	LabelSixHours: {
		"%s's anniversary begins in 6 hours. Almost celebration time!",
		"Just 6 hours until %s's anniversary.",
		"The countdown is on — 6 hours to %s's anniversary.",
	},
	LabelOneHour: {
		"One hour until %s's anniversary!",
		"%s's anniversary is an hour away — time to send those wishes.",
		"Almost there: %s's anniversary starts in an hour.",
	},
	LabelMidnight: {
		"Today is %s's anniversary! Wish the happy couple well.",
		"It's %s's anniversary today — celebrate the two of them!",
		"%s's anniversary is here. Here's to many more years together!",
	},
}

// Compose builds a notification for the reminder at the given lead label.
// Unknown labels fall back to the midnight template set.
func Compose(r models.Reminder, leadLabel string) Notification {
	name := r.DisplayName()
	emoji := typeEmojis[r.ReminderType]
	if emoji == "" {
		emoji = typeEmojis[models.ReminderTypeCustom]
	}

	table := generalTemplates
	if r.ReminderType == models.ReminderTypeAnniversary {
		table = anniversaryTemplates
	}
	variants, ok := table[leadLabel]
	if !ok {
		variants = table[LabelMidnight]
	}
	body := fmt.Sprintf(variants[rand.Intn(len(variants))], name)

	var title string
	if leadLabel == LabelMidnight {
		title = fmt.Sprintf("Happy %s, %s! %s", titleCase(string(r.ReminderType)), name, emoji)
	} else {
		title = fmt.Sprintf("%s's %s Reminder %s", name, titleCase(string(r.ReminderType)), emoji)
	}

	return Notification{Title: title, Body: body}
}

func titleCase(s string) string {
	if s == "" {
		return "Reminder"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

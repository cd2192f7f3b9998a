package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ms-reminders/internal/models"
)

// Instant is one derived notification time for a reminder occurrence. It is
// recomputed on every scheduler tick and never persisted.
type Instant struct {
	Label   string
	FiresAt time.Time
}

// Lead labels in firing order. The offsets are fixed, not per-reminder.
const (
	LabelOneWeek  = "1 week"
	LabelOneDay   = "1 day"
	LabelSixHours = "6 hours"
	LabelOneHour  = "1 hour"
	LabelMidnight = "midnight"
)

var leadOffsets = []struct {
	label  string
	offset time.Duration
}{
	{LabelOneWeek, -7 * 24 * time.Hour},
	{LabelOneDay, -24 * time.Hour},
	{LabelSixHours, -6 * time.Hour},
	{LabelOneHour, -time.Hour},
	{LabelMidnight, 0},
}

// InstantsFor computes the five notification instants for the reminder's next
// future occurrence. The occurrence year always derives from now, never from
// the stored year: month/day at local midnight this year, or next year once
// this year's occurrence is strictly in the past.
func InstantsFor(r models.Reminder, now time.Time) ([]Instant, error) {
	month, day, err := monthDay(r.EventDate)
	if err != nil {
		return nil, err
	}

	occurrence := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if occurrence.Before(now) {
		occurrence = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, now.Location())
	}

	instants := make([]Instant, 0, len(leadOffsets))
	for _, lead := range leadOffsets {
		instants = append(instants, Instant{
			Label:   lead.label,
			FiresAt: occurrence.Add(lead.offset),
		})
	}
	return instants, nil
}

// Due reports whether now falls inside the symmetric tolerance window centered
// on the instant. The tolerance must stay narrower than the poll cadence for
// at-most-once delivery; there is no persisted "sent" marker.
func Due(instant Instant, now time.Time, tolerance time.Duration) bool {
	diff := now.Sub(instant.FiresAt)
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance
}

// NextEventDate rolls a stored MM/DD/YYYY date forward one year. Used by the
// storage-hygiene rollover once an occurrence is more than 24 hours past;
// distinct from instant computation, which never reads the stored year.
func NextEventDate(eventDate string) (string, error) {
	month, day, err := monthDay(eventDate)
	if err != nil {
		return "", err
	}
	year, err := storedYear(eventDate)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d/%02d/%04d", int(month), day, year+1), nil
}

// RolloverDue reports whether the stored occurrence is more than 24 hours in
// the past.
func RolloverDue(eventDate string, now time.Time) (bool, error) {
	stored, err := models.ParseEventDate(eventDate)
	if err != nil {
		return false, err
	}
	return now.Sub(stored) > 24*time.Hour, nil
}

func monthDay(eventDate string) (time.Month, int, error) {
	parts := strings.Split(eventDate, "/")
	if len(parts) != 3 {
		return 0, 0, fmt.Errorf("invalid event date %q", eventDate)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in event date %q", eventDate)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("invalid day in event date %q", eventDate)
	}
	return time.Month(month), day, nil
}

func storedYear(eventDate string) (int, error) {
	parts := strings.Split(eventDate, "/")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid event date %q", eventDate)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid year in event date %q", eventDate)
	}
	return year, nil
}

package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ReminderType represents the reminder type enum
type ReminderType string

const (
	ReminderTypeBirthday    ReminderType = "birthday"
	ReminderTypeAnniversary ReminderType = "anniversary"
	ReminderTypeMeeting     ReminderType = "meeting"
	ReminderTypeExam        ReminderType = "exam"
	ReminderTypeBill        ReminderType = "bill"
	ReminderTypeTask        ReminderType = "task"
	ReminderTypeCustom      ReminderType = "custom"
)

// Scan implements the sql.Scanner interface for ReminderType
func (rt *ReminderType) Scan(value interface{}) error {
	if value == nil {
		*rt = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*rt = ReminderType(v)
		return nil
	case []byte:
		*rt = ReminderType(v)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ReminderType", value)
}

// Value implements the driver.Valuer interface for ReminderType
func (rt ReminderType) Value() (driver.Value, error) {
	return string(rt), nil
}

// IsPersonEvent reports whether the type names a person (birthday/anniversary)
// rather than a subject line.
func (rt ReminderType) IsPersonEvent() bool {
	return rt == ReminderTypeBirthday || rt == ReminderTypeAnniversary
}

// Reminder represents a user-owned recurring event record.
//
// EventDate is a canonical MM/DD/YYYY string. For birthdays and anniversaries
// the stored year is the original occurrence year (kept for age/duration
// display) even though notifications recur annually on month/day.
type Reminder struct {
	ID           string       `json:"id" db:"id"`
	UserID       string       `json:"user_id" db:"user_id"`
	ReminderType ReminderType `json:"reminder_type" db:"reminder_type"`
	EventDate    string       `json:"event_date" db:"event_date"`
	PersonName   string       `json:"person_name,omitempty" db:"person_name"`
	Title        string       `json:"title,omitempty" db:"title"`
	Relationship string       `json:"relationship,omitempty" db:"relationship"`
	Location     string       `json:"location,omitempty" db:"location"`
	Attendees    string       `json:"attendees,omitempty" db:"attendees"`
	Amount       string       `json:"amount,omitempty" db:"amount"`
	Note         string       `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the person name for person events, the title otherwise,
// falling back to whichever is set.
func (r *Reminder) DisplayName() string {
	if r.ReminderType.IsPersonEvent() && r.PersonName != "" {
		return r.PersonName
	}
	if r.Title != "" {
		return r.Title
	}
	return r.PersonName
}

// EventDateLayout is the canonical layout for Reminder.EventDate.
const EventDateLayout = "01/02/2006"

// ParseEventDate parses a canonical MM/DD/YYYY string.
func ParseEventDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(EventDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date %q: %w", value, err)
	}
	return t, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-reminders/internal/models"
)

const reminderColumns = `id, user_id, reminder_type, event_date, person_name, title,
       relationship, location, attendees, amount, note, created_at, updated_at`

// CreateReminder persists a complete reminder.
func (s *Store) CreateReminder(ctx context.Context, r *models.Reminder) error {
	query := `
        INSERT INTO reminders (id, user_id, reminder_type, event_date, person_name, title,
                               relationship, location, attendees, amount, note, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `
	_, err := s.DB.ExecContext(ctx, query,
		r.ID, r.UserID, r.ReminderType, r.EventDate, r.PersonName, r.Title,
		r.Relationship, r.Location, r.Attendees, r.Amount, r.Note, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder %s: %w", r.ID, err)
	}
	return nil
}

// UpdateReminder overwrites all mutable fields of an existing reminder.
func (s *Store) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	query := `
        UPDATE reminders
        SET reminder_type = $1, event_date = $2, person_name = $3, title = $4,
            relationship = $5, location = $6, attendees = $7, amount = $8, note = $9,
            updated_at = $10
        WHERE id = $11 AND user_id = $12
    `
	result, err := s.DB.ExecContext(ctx, query,
		r.ReminderType, r.EventDate, r.PersonName, r.Title,
		r.Relationship, r.Location, r.Attendees, r.Amount, r.Note,
		r.UpdatedAt, r.ID, r.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder %s: %w", r.ID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetReminder returns one reminder, or nil if not found.
func (s *Store) GetReminder(ctx context.Context, uid, id string) (*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1 AND user_id = $2`
	var r models.Reminder
	err := scanReminder(s.DB.QueryRowContext(ctx, query, id, uid), &r)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting reminder %s: %w", id, err)
	}
	return &r, nil
}

// ListRemindersForUser enumerates a user's reminders in insertion order.
func (s *Store) ListRemindersForUser(ctx context.Context, uid string) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders for %s: %w", uid, err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		if err := scanReminder(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// DeleteReminder removes one reminder.
func (s *Store) DeleteReminder(ctx context.Context, uid, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1 AND user_id = $2`, id, uid)
	if err != nil {
		return fmt.Errorf("failed to delete reminder %s: %w", id, err)
	}
	return nil
}

// RollForwardEventDate advances the stored event date. Partial-field update;
// updated_at is left alone on purpose so rollover doesn't look like a user
// edit.
func (s *Store) RollForwardEventDate(ctx context.Context, id, newDate string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE reminders SET event_date = $1 WHERE id = $2`, newDate, id)
	if err != nil {
		return fmt.Errorf("failed to roll forward event date for %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner, r *models.Reminder) error {
	return row.Scan(
		&r.ID, &r.UserID, &r.ReminderType, &r.EventDate, &r.PersonName, &r.Title,
		&r.Relationship, &r.Location, &r.Attendees, &r.Amount, &r.Note,
		&r.CreatedAt, &r.UpdatedAt,
	)
}

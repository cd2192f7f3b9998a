package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-reminders/internal/models"
)

// GetOrCreateUser gets a user by uid or creates a new row for them.
func (s *Store) GetOrCreateUser(ctx context.Context, uid, name string) (*models.User, error) {
	user, err := s.getUser(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("error looking up user %s: %w", uid, err)
	}

	query := `
        INSERT INTO users (uid, name, notification_permission)
        VALUES ($1, $2, $3)
        RETURNING uid, name, push_token, notification_permission, regen_count, regen_date, created_at
    `
	var created models.User
	err = s.DB.QueryRowContext(ctx, query, uid, name, models.NotificationPermissionDefault).Scan(
		&created.UID,
		&created.Name,
		&created.PushToken,
		&created.NotificationPermission,
		&created.RegenCount,
		&created.RegenDate,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", uid, err)
	}
	return &created, nil
}

// GetUser returns a user by uid, or nil if not found.
func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.getUser(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user %s: %w", uid, err)
	}
	return user, nil
}

func (s *Store) getUser(ctx context.Context, uid string) (*models.User, error) {
	query := `
        SELECT uid, name, push_token, notification_permission, regen_count, regen_date, created_at
        FROM users
        WHERE uid = $1
    `
	var user models.User
	err := s.DB.QueryRowContext(ctx, query, uid).Scan(
		&user.UID,
		&user.Name,
		&user.PushToken,
		&user.NotificationPermission,
		&user.RegenCount,
		&user.RegenDate,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsersWithPushTokens enumerates users the scheduler can notify: a
// registered push token and permission granted.
func (s *Store) ListUsersWithPushTokens(ctx context.Context) ([]models.User, error) {
	query := `
        SELECT uid, name, push_token, notification_permission, regen_count, regen_date, created_at
        FROM users
        WHERE push_token <> '' AND notification_permission = $1
        ORDER BY created_at
    `
	rows, err := s.DB.QueryContext(ctx, query, models.NotificationPermissionGranted)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with push tokens: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.UID,
			&user.Name,
			&user.PushToken,
			&user.NotificationPermission,
			&user.RegenCount,
			&user.RegenDate,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdatePushToken records the opaque push delivery address for a user.
func (s *Store) UpdatePushToken(ctx context.Context, uid, pushToken string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET push_token = $1 WHERE uid = $2`, pushToken, uid)
	if err != nil {
		return fmt.Errorf("failed to update push token for %s: %w", uid, err)
	}
	return nil
}

// UpdateNotificationPermission records the client-reported permission state.
func (s *Store) UpdateNotificationPermission(ctx context.Context, uid string, permission models.NotificationPermission) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET notification_permission = $1 WHERE uid = $2`, permission, uid)
	if err != nil {
		return fmt.Errorf("failed to update notification permission for %s: %w", uid, err)
	}
	return nil
}

// UpdateRegenCounter overwrites the daily regeneration counter and its date.
func (s *Store) UpdateRegenCounter(ctx context.Context, uid string, count int, date string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET regen_count = $1, regen_date = $2 WHERE uid = $3`, count, date, uid)
	if err != nil {
		return fmt.Errorf("failed to update regen counter for %s: %w", uid, err)
	}
	return nil
}

package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// NotificationPermission represents the push permission state reported by the client
type NotificationPermission string

const (
	NotificationPermissionGranted NotificationPermission = "granted"
	NotificationPermissionDenied  NotificationPermission = "denied"
	NotificationPermissionDefault NotificationPermission = "default"
)

// Scan implements the sql.Scanner interface for NotificationPermission
func (np *NotificationPermission) Scan(value interface{}) error {
	if value == nil {
		*np = NotificationPermissionDefault
		return nil
	}
	switch v := value.(type) {
	case string:
		*np = NotificationPermission(v)
		return nil
	case []byte:
		*np = NotificationPermission(v)
		return nil
	}
	return fmt.Errorf("cannot scan %T into NotificationPermission", value)
}

// Value implements the driver.Valuer interface for NotificationPermission
func (np NotificationPermission) Value() (driver.Value, error) {
	return string(np), nil
}

// User represents a registered user of the reminder service
type User struct {
	UID                    string                 `json:"uid" db:"uid"`
	Name                   string                 `json:"name" db:"name"`
	PushToken              string                 `json:"push_token,omitempty" db:"push_token"`
	NotificationPermission NotificationPermission `json:"notification_permission" db:"notification_permission"`
	RegenCount             int                    `json:"regen_count" db:"regen_count"`
	RegenDate              string                 `json:"regen_date,omitempty" db:"regen_date"`
	CreatedAt              time.Time              `json:"created_at" db:"created_at"`
}

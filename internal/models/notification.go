package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifEvent      NotificationType = "event"
	NotifAttendance NotificationType = "attendance"
	NotifClearance  NotificationType = "clearance"
	NotifMessage    NotificationType = "message"
	NotifSystem     NotificationType = "system"
)

// Notification rows are write-only for the producing components; the
// recipient's read path flips Read. RelatedID points at a row whose table
// depends on Type, so there is no foreign key behind it.
type Notification struct {
	ID        uuid.UUID        `db:"id"`
	UserID    uuid.UUID        `db:"user_id"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	Type      NotificationType `db:"type"`
	Read      bool             `db:"read"`
	RelatedID *uuid.UUID       `db:"related_id"`
	CreatedAt time.Time        `db:"created_at"`
}

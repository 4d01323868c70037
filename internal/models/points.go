package models

import (
	"time"

	"github.com/google/uuid"
)

// PointsEntry is append-only; the total is always derived by summing,
// never stored.
type PointsEntry struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Points     int       `db:"points"`
	Reason     string    `db:"reason"`
	AssignedBy uuid.UUID `db:"assigned_by"`
	CreatedAt  time.Time `db:"created_at"`
}

type PointsEntryWithAssigner struct {
	PointsEntry
	AssignedByName string `db:"assigned_by_name"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID             uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Date           time.Time `db:"date"`
	StartTime      string    `db:"start_time"`
	EndTime        string    `db:"end_time"`
	Location       string    `db:"location"`
	OrganizationID uuid.UUID `db:"organization_id"`
	Mandatory      bool      `db:"mandatory"`
	Sanction       *string   `db:"sanction"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// EventWithOrg carries the owning organization's display fields for listings.
type EventWithOrg struct {
	Event
	OrgName string  `db:"org_name"`
	OrgType OrgType `db:"org_type"`
}

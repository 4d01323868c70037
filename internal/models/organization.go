package models

import (
	"time"

	"github.com/google/uuid"
)

type OrgType string

const (
	OrgSSG        OrgType = "ssg"
	OrgDepartment OrgType = "department"
	OrgClub       OrgType = "club"
)

func (t OrgType) Valid() bool {
	switch t {
	case OrgSSG, OrgDepartment, OrgClub:
		return true
	}
	return false
}

type Organization struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Type       OrgType   `db:"type"`
	Department *string   `db:"department"`
	CreatedAt  time.Time `db:"created_at"`
}

type OrgMember struct {
	OrganizationID uuid.UUID `db:"organization_id"`
	UserID         uuid.UUID `db:"user_id"`
	IsAdmin        bool      `db:"is_admin"`
	JoinedAt       time.Time `db:"joined_at"`
}

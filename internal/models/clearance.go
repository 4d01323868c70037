package models

import (
	"time"

	"github.com/google/uuid"
)

type ClearanceStatus string

const (
	ClearancePending  ClearanceStatus = "pending"
	ClearanceApproved ClearanceStatus = "approved"
	ClearanceRejected ClearanceStatus = "rejected"
)

// Clearance is unique per (user, organization). A rejected record is recycled
// back to pending on re-request instead of inserting a second row.
type Clearance struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	OrganizationID  uuid.UUID       `db:"organization_id"`
	Status          ClearanceStatus `db:"status"`
	Remarks         *string         `db:"remarks"`
	TransactionCode *string         `db:"transaction_code"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

type ClearanceWithOrg struct {
	Clearance
	OrgName string  `db:"org_name"`
	OrgType OrgType `db:"org_type"`
}

type ClearanceWithUser struct {
	Clearance
	UserName      string  `db:"user_name"`
	UserEmail     string  `db:"user_email"`
	StudentNumber *string `db:"student_number"`
}

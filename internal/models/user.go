package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	SSGAdmin        Role = "ssg_admin"
	ClubAdmin       Role = "club_admin"
	DepartmentAdmin Role = "department_admin"
	Officer         Role = "officer"
	Student         Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case SSGAdmin, ClubAdmin, DepartmentAdmin, Officer, Student:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries any organization-admin capability.
func (r Role) IsAdmin() bool {
	return r == SSGAdmin || r == ClubAdmin || r == DepartmentAdmin
}

type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	Department   *string   `db:"department"`
	StudentID    *string   `db:"student_id"`
	QRCode       *string   `db:"qr_code"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

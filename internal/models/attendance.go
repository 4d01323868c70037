package models

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

type AttendanceAction string

const (
	CheckIn  AttendanceAction = "check_in"
	CheckOut AttendanceAction = "check_out"
)

// AttendanceRecord is unique per (event, user); enforced by the schema.
type AttendanceRecord struct {
	ID           uuid.UUID        `db:"id"`
	EventID      uuid.UUID        `db:"event_id"`
	UserID       uuid.UUID        `db:"user_id"`
	CheckInTime  *time.Time       `db:"check_in_time"`
	CheckOutTime *time.Time       `db:"check_out_time"`
	Status       AttendanceStatus `db:"status"`
	CreatedAt    time.Time        `db:"created_at"`
}

// AttendanceWithUser joins student display fields for event rosters.
type AttendanceWithUser struct {
	AttendanceRecord
	UserName   string  `db:"user_name"`
	UserEmail  string  `db:"user_email"`
	StudentID  *string `db:"student_number"`
	Department *string `db:"department"`
}

// AttendanceWithEvent joins event display fields for a student's history.
type AttendanceWithEvent struct {
	AttendanceRecord
	EventTitle string    `db:"event_title"`
	EventDate  time.Time `db:"event_date"`
	Mandatory  bool      `db:"mandatory"`
}

package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/models"
)

// Repo persists attendance records in Postgres.
type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

// Upsert records a check-in or check-out as a single atomic write. The
// unique (event_id, user_id) index makes this the only row for the pair, so
// concurrent calls cannot double-insert. Check-in forces status back to
// present, overwriting a prior manual override; check-out leaves status
// untouched. Both quirks match the product behavior.
func (r *Repo) Upsert(ctx context.Context, eventID, userID uuid.UUID, action models.AttendanceAction) (models.AttendanceRecord, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var query string
	switch action {
	case models.CheckIn:
		query = `
INSERT INTO attendance (event_id, user_id, check_in_time, status)
VALUES ($1, $2, now(), 'present')
ON CONFLICT (event_id, user_id)
DO UPDATE SET check_in_time = now(), status = 'present'
RETURNING id, event_id, user_id, check_in_time, check_out_time, status, created_at`
	case models.CheckOut:
		query = `
INSERT INTO attendance (event_id, user_id, check_out_time, status)
VALUES ($1, $2, now(), 'present')
ON CONFLICT (event_id, user_id)
DO UPDATE SET check_out_time = now()
RETURNING id, event_id, user_id, check_in_time, check_out_time, status, created_at`
	default:
		return models.AttendanceRecord{}, apperr.Validation("unknown attendance action")
	}

	var rec models.AttendanceRecord
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&rec.ID, &rec.EventID, &rec.UserID, &rec.CheckInTime, &rec.CheckOutTime, &rec.Status, &rec.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "attendance_event_id_fkey") {
			return models.AttendanceRecord{}, apperr.NotFound("event")
		}
		if strings.Contains(err.Error(), "attendance_user_id_fkey") {
			return models.AttendanceRecord{}, apperr.NotFound("user")
		}
		return models.AttendanceRecord{}, apperr.Transient("upsert attendance", err)
	}
	return rec, nil
}

// UpdateStatus overwrites the status of an existing record and returns the
// identifiers the notification needs.
func (r *Repo) UpdateStatus(ctx context.Context, recordID uuid.UUID, status models.AttendanceStatus) (eventID, userID uuid.UUID, err error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	err = r.db.QueryRowContext(ctx, `
UPDATE attendance SET status = $2 WHERE id = $1
RETURNING event_id, user_id`, recordID, status).Scan(&eventID, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, uuid.Nil, apperr.NotFound("attendance record")
	}
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Transient("update attendance status", err)
	}
	return eventID, userID, nil
}

// ListByEvent returns the event roster with student display fields.
func (r *Repo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.AttendanceWithUser, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT a.id, a.event_id, a.user_id, a.check_in_time, a.check_out_time, a.status, a.created_at,
       u.name, u.email, u.student_id, u.department
FROM attendance a
JOIN users u ON u.id = a.user_id
WHERE a.event_id = $1
ORDER BY a.created_at ASC`, eventID)
	if err != nil {
		return nil, apperr.Transient("list attendance by event", err)
	}
	defer rows.Close()
	var out []models.AttendanceWithUser
	for rows.Next() {
		var rec models.AttendanceWithUser
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.UserID, &rec.CheckInTime, &rec.CheckOutTime,
			&rec.Status, &rec.CreatedAt, &rec.UserName, &rec.UserEmail, &rec.StudentID, &rec.Department); err != nil {
			return nil, apperr.Transient("scan attendance", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListByUser returns a student's attendance history, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AttendanceWithEvent, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT a.id, a.event_id, a.user_id, a.check_in_time, a.check_out_time, a.status, a.created_at,
       e.title, e.date, e.mandatory
FROM attendance a
JOIN events e ON e.id = a.event_id
WHERE a.user_id = $1
ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Transient("list attendance by user", err)
	}
	defer rows.Close()
	var out []models.AttendanceWithEvent
	for rows.Next() {
		var rec models.AttendanceWithEvent
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.UserID, &rec.CheckInTime, &rec.CheckOutTime,
			&rec.Status, &rec.CreatedAt, &rec.EventTitle, &rec.EventDate, &rec.Mandatory); err != nil {
			return nil, apperr.Transient("scan attendance", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

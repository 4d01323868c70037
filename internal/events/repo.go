package events

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/models"
)

// Repo persists events and their officer assignments.
type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

func (r *Repo) Insert(ctx context.Context, e models.Event) (models.Event, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO events (title, description, date, start_time, end_time, location, organization_id, mandatory, sanction)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`,
		e.Title, e.Description, e.Date, e.StartTime, e.EndTime, e.Location, e.OrganizationID, e.Mandatory, e.Sanction)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if strings.Contains(err.Error(), "events_organization_id_fkey") {
			return models.Event{}, apperr.NotFound("organization")
		}
		return models.Event{}, apperr.Transient("insert event", err)
	}
	return e, nil
}

func (r *Repo) Update(ctx context.Context, e models.Event) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
UPDATE events
SET title = $2, description = $3, date = $4, start_time = $5, end_time = $6,
    location = $7, organization_id = $8, mandatory = $9, sanction = $10, updated_at = now()
WHERE id = $1`,
		e.ID, e.Title, e.Description, e.Date, e.StartTime, e.EndTime, e.Location, e.OrganizationID, e.Mandatory, e.Sanction)
	if err != nil {
		return apperr.Transient("update event", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("event")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return apperr.Transient("delete event", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("event")
	}
	return nil
}

const eventWithOrgCols = `
e.id, e.title, e.description, e.date, e.start_time, e.end_time, e.location,
e.organization_id, e.mandatory, e.sanction, e.created_at, e.updated_at,
o.name, o.type`

func scanEventWithOrg(row interface{ Scan(...any) error }) (models.EventWithOrg, error) {
	var e models.EventWithOrg
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.EndTime, &e.Location,
		&e.OrganizationID, &e.Mandatory, &e.Sanction, &e.CreatedAt, &e.UpdatedAt, &e.OrgName, &e.OrgType)
	return e, err
}

func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (models.EventWithOrg, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
SELECT `+eventWithOrgCols+`
FROM events e JOIN organizations o ON o.id = e.organization_id
WHERE e.id = $1`, id)
	e, err := scanEventWithOrg(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EventWithOrg{}, apperr.NotFound("event")
	}
	if err != nil {
		return models.EventWithOrg{}, apperr.Transient("get event", err)
	}
	return e, nil
}

func (r *Repo) List(ctx context.Context) ([]models.EventWithOrg, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT `+eventWithOrgCols+`
FROM events e JOIN organizations o ON o.id = e.organization_id
ORDER BY e.date ASC`)
	if err != nil {
		return nil, apperr.Transient("list events", err)
	}
	defer rows.Close()
	var out []models.EventWithOrg
	for rows.Next() {
		e, err := scanEventWithOrg(rows)
		if err != nil {
			return nil, apperr.Transient("scan event", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetOfficers replaces the officer assignment set for an event.
func (r *Repo) SetOfficers(ctx context.Context, eventID uuid.UUID, officerIDs []uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Transient("begin set officers", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_officers WHERE event_id = $1`, eventID); err != nil {
		return apperr.Transient("clear officers", err)
	}
	for _, id := range officerIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO event_officers (event_id, user_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`, eventID, id); err != nil {
			return apperr.Transient("assign officer", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Transient("commit set officers", err)
	}
	return nil
}

func (r *Repo) ListOfficers(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id FROM event_officers WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, apperr.Transient("list officers", err)
	}
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Transient("scan officer", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpcomingMandatory returns mandatory events starting within the window
// that have not had their officer reminder sent yet.
func (r *Repo) UpcomingMandatory(ctx context.Context, within time.Duration) ([]models.Event, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT e.id, e.title, e.description, e.date, e.start_time, e.end_time, e.location,
       e.organization_id, e.mandatory, e.sanction, e.created_at, e.updated_at
FROM events e
LEFT JOIN event_reminders r ON r.event_id = e.id
WHERE e.mandatory = true
  AND r.event_id IS NULL
  AND e.date >= CURRENT_DATE
  AND e.date <= CURRENT_DATE + ($1 * interval '1 second')`, within.Seconds())
	if err != nil {
		return nil, apperr.Transient("list upcoming mandatory events", err)
	}
	defer rows.Close()
	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.EndTime, &e.Location,
			&e.OrganizationID, &e.Mandatory, &e.Sanction, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperr.Transient("scan event", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkReminderSent records that the reminder for an event went out; the
// insert is idempotent so a racing second job run is a no-op.
func (r *Repo) MarkReminderSent(ctx context.Context, eventID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO event_reminders (event_id) VALUES ($1)
ON CONFLICT (event_id) DO NOTHING`, eventID)
	if err != nil {
		return apperr.Transient("mark reminder sent", err)
	}
	return nil
}

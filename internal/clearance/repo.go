package clearance

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

// Repo persists clearance records in Postgres.
type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

const clearanceCols = `id, user_id, organization_id, status, remarks, transaction_code, created_at, updated_at`

// Request creates a pending record for the pair, or recycles a rejected one
// back to pending in the same statement. The unique (user_id,
// organization_id) index plus the conditional update close the
// check-then-act race: if the pair is already pending or approved the
// statement touches no row and the caller gets ErrDuplicateRequest.
func (r *Repo) Request(ctx context.Context, userID, orgID uuid.UUID) (models.Clearance, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO clearances (user_id, organization_id, status)
VALUES ($1, $2, 'pending')
ON CONFLICT (user_id, organization_id) DO UPDATE
SET status = 'pending', remarks = NULL, transaction_code = NULL, updated_at = now()
WHERE clearances.status = 'rejected'
RETURNING `+clearanceCols, userID, orgID)

	var c models.Clearance
	err := row.Scan(&c.ID, &c.UserID, &c.OrganizationID, &c.Status, &c.Remarks, &c.TransactionCode, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Clearance{}, apperr.ErrDuplicateRequest
	}
	if err != nil {
		if strings.Contains(err.Error(), "clearances_organization_id_fkey") {
			return models.Clearance{}, apperr.NotFound("organization")
		}
		if strings.Contains(err.Error(), "clearances_user_id_fkey") {
			return models.Clearance{}, apperr.NotFound("user")
		}
		return models.Clearance{}, apperr.Transient("request clearance", err)
	}
	return c, nil
}

// Decide moves a pending record to approved or rejected. Any other source
// state is an invalid transition; there is no revoke path for approved
// records.
func (r *Repo) Decide(ctx context.Context, recordID uuid.UUID, status models.ClearanceStatus, remarks, transactionCode *string) (userID, orgID uuid.UUID, err error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	err = r.db.QueryRowContext(ctx, `
UPDATE clearances
SET status = $2, remarks = $3, transaction_code = $4, updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING user_id, organization_id`,
		recordID, status, remarks, transactionCode).Scan(&userID, &orgID)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the record does not exist or it is not pending.
		var current models.ClearanceStatus
		checkErr := r.db.QueryRowContext(ctx, `SELECT status FROM clearances WHERE id = $1`, recordID).Scan(&current)
		if errors.Is(checkErr, sql.ErrNoRows) {
			return uuid.Nil, uuid.Nil, apperr.NotFound("clearance record")
		}
		if checkErr != nil {
			return uuid.Nil, uuid.Nil, apperr.Transient("check clearance", checkErr)
		}
		return uuid.Nil, uuid.Nil, apperr.ErrInvalidTransition
	}
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Transient("decide clearance", err)
	}
	return userID, orgID, nil
}

func (r *Repo) ByID(ctx context.Context, recordID uuid.UUID) (models.Clearance, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT `+clearanceCols+` FROM clearances WHERE id = $1`, recordID)
	var c models.Clearance
	err := row.Scan(&c.ID, &c.UserID, &c.OrganizationID, &c.Status, &c.Remarks, &c.TransactionCode, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Clearance{}, apperr.NotFound("clearance record")
	}
	if err != nil {
		return models.Clearance{}, apperr.Transient("get clearance", err)
	}
	return c, nil
}

// ListByUser returns a student's clearances with organization display
// fields.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClearanceWithOrg, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.user_id, c.organization_id, c.status, c.remarks, c.transaction_code, c.created_at, c.updated_at,
       o.name, o.type
FROM clearances c
JOIN organizations o ON o.id = c.organization_id
WHERE c.user_id = $1
ORDER BY o.name ASC`, userID)
	if err != nil {
		return nil, apperr.Transient("list clearances by user", err)
	}
	defer rows.Close()
	var out []models.ClearanceWithOrg
	for rows.Next() {
		var c models.ClearanceWithOrg
		if err := rows.Scan(&c.ID, &c.UserID, &c.OrganizationID, &c.Status, &c.Remarks, &c.TransactionCode,
			&c.CreatedAt, &c.UpdatedAt, &c.OrgName, &c.OrgType); err != nil {
			return nil, apperr.Transient("scan clearance", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListPending returns pending requests, newest first, optionally scoped to
// one organization (zero orgID means all).
func (r *Repo) ListPending(ctx context.Context, orgID uuid.UUID) ([]models.ClearanceWithUser, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	query := `
SELECT c.id, c.user_id, c.organization_id, c.status, c.remarks, c.transaction_code, c.created_at, c.updated_at,
       u.name, u.email, u.student_id
FROM clearances c
JOIN users u ON u.id = c.user_id
WHERE c.status = 'pending'`
	args := []any{}
	if orgID != uuid.Nil {
		query += ` AND c.organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Transient("list pending clearances", err)
	}
	defer rows.Close()
	var out []models.ClearanceWithUser
	for rows.Next() {
		var c models.ClearanceWithUser
		if err := rows.Scan(&c.ID, &c.UserID, &c.OrganizationID, &c.Status, &c.Remarks, &c.TransactionCode,
			&c.CreatedAt, &c.UpdatedAt, &c.UserName, &c.UserEmail, &c.StudentNumber); err != nil {
			return nil, apperr.Transient("scan clearance", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

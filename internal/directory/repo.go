package directory

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

// Repo owns the users, organizations and membership tables.
type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

const userCols = `id, name, email, password_hash, role, department, student_id, qr_code, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Department, &u.StudentID, &u.QRCode, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *Repo) InsertUser(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO users (name, email, password_hash, role, department, student_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+userCols,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.StudentID)
	created, err := scanUser(row)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return models.User{}, apperr.Validation("email already registered")
		}
		return models.User{}, apperr.Transient("insert user", err)
	}
	return created, nil
}

func (r *Repo) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user")
	}
	if err != nil {
		return models.User{}, apperr.Transient("get user", err)
	}
	return u, nil
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user")
	}
	if err != nil {
		return models.User{}, apperr.Transient("get user by email", err)
	}
	return u, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Transient("list users", err)
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Transient("scan user", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateUserProfile(ctx context.Context, id uuid.UUID, name string, department, studentID *string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET name = $2, department = $3, student_id = $4, updated_at = now()
WHERE id = $1`, id, name, department, studentID)
	if err != nil {
		return apperr.Transient("update profile", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *Repo) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role)
	if err != nil {
		return apperr.Transient("update role", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *Repo) SetQRCode(ctx context.Context, id uuid.UUID, qr string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET qr_code = $2, updated_at = now() WHERE id = $1`, id, qr)
	if err != nil {
		return apperr.Transient("set qr code", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *Repo) InsertOrganization(ctx context.Context, o models.Organization) (models.Organization, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO organizations (name, type, department)
VALUES ($1, $2, $3)
RETURNING id, name, type, department, created_at`,
		o.Name, o.Type, o.Department)
	var created models.Organization
	if err := row.Scan(&created.ID, &created.Name, &created.Type, &created.Department, &created.CreatedAt); err != nil {
		return models.Organization{}, apperr.Transient("insert organization", err)
	}
	return created, nil
}

func (r *Repo) OrganizationByID(ctx context.Context, id uuid.UUID) (models.Organization, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var o models.Organization
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, type, department, created_at FROM organizations WHERE id = $1`, id).
		Scan(&o.ID, &o.Name, &o.Type, &o.Department, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Organization{}, apperr.NotFound("organization")
	}
	if err != nil {
		return models.Organization{}, apperr.Transient("get organization", err)
	}
	return o, nil
}

func (r *Repo) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, type, department, created_at FROM organizations ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.Transient("list organizations", err)
	}
	defer rows.Close()
	var out []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Type, &o.Department, &o.CreatedAt); err != nil {
			return nil, apperr.Transient("scan organization", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateOrganization(ctx context.Context, o models.Organization) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
UPDATE organizations SET name = $2, type = $3, department = $4 WHERE id = $1`,
		o.ID, o.Name, o.Type, o.Department)
	if err != nil {
		return apperr.Transient("update organization", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("organization")
	}
	return nil
}

func (r *Repo) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return apperr.Transient("delete organization", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("organization")
	}
	return nil
}

// UpsertMember adds a user to an organization or updates the admin flag.
func (r *Repo) UpsertMember(ctx context.Context, orgID, userID uuid.UUID, isAdmin bool) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO organization_members (organization_id, user_id, is_admin)
VALUES ($1, $2, $3)
ON CONFLICT (organization_id, user_id) DO UPDATE SET is_admin = EXCLUDED.is_admin`,
		orgID, userID, isAdmin)
	if err != nil {
		return apperr.Transient("upsert member", err)
	}
	return nil
}

func (r *Repo) RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2`, orgID, userID)
	if err != nil {
		return apperr.Transient("remove member", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("membership")
	}
	return nil
}

func (r *Repo) ListMembers(ctx context.Context, orgID uuid.UUID) ([]models.OrgMember, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT organization_id, user_id, is_admin, joined_at
FROM organization_members WHERE organization_id = $1`, orgID)
	if err != nil {
		return nil, apperr.Transient("list members", err)
	}
	defer rows.Close()
	var out []models.OrgMember
	for rows.Next() {
		var m models.OrgMember
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.IsAdmin, &m.JoinedAt); err != nil {
			return nil, apperr.Transient("scan member", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListAdmins returns the admin members of an organization; the clearance
// workflow fans notifications out to them.
func (r *Repo) ListAdmins(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id FROM organization_members
WHERE organization_id = $1 AND is_admin = true`, orgID)
	if err != nil {
		return nil, apperr.Transient("list admins", err)
	}
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Transient("scan admin", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// OrganizationName resolves the display name used in clearance
// notifications.
func (r *Repo) OrganizationName(ctx context.Context, orgID uuid.UUID) (string, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM organizations WHERE id = $1`, orgID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("organization")
	}
	if err != nil {
		return "", apperr.Transient("organization name", err)
	}
	return name, nil
}

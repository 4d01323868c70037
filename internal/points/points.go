// Package points is the append-only award ledger. Totals are always derived
// by summing entries, never stored.
package points

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

func (r *Repo) Insert(ctx context.Context, e models.PointsEntry) (models.PointsEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO student_points (user_id, points, reason, assigned_by)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, points, reason, assigned_by, created_at`,
		e.UserID, e.Points, e.Reason, e.AssignedBy)
	var created models.PointsEntry
	err := row.Scan(&created.ID, &created.UserID, &created.Points, &created.Reason, &created.AssignedBy, &created.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "student_points_user_id_fkey") {
			return models.PointsEntry{}, apperr.NotFound("user")
		}
		return models.PointsEntry{}, apperr.Transient("insert points entry", err)
	}
	return created, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PointsEntryWithAssigner, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.user_id, p.points, p.reason, p.assigned_by, p.created_at, u.name
FROM student_points p
JOIN users u ON u.id = p.assigned_by
WHERE p.user_id = $1
ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Transient("list points", err)
	}
	defer rows.Close()
	var out []models.PointsEntryWithAssigner
	for rows.Next() {
		var e models.PointsEntryWithAssigner
		if err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Reason, &e.AssignedBy, &e.CreatedAt, &e.AssignedByName); err != nil {
			return nil, apperr.Transient("scan points entry", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Total(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var total int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(points), 0) FROM student_points WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, apperr.Transient("total points", err)
	}
	return total, nil
}

// Store is the persistence the ledger needs; *Repo implements it.
type Store interface {
	Insert(ctx context.Context, e models.PointsEntry) (models.PointsEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PointsEntryWithAssigner, error)
	Total(ctx context.Context, userID uuid.UUID) (int, error)
}

type Service struct {
	store Store
	sink  notify.Sink
}

func NewService(store Store, sink notify.Sink) *Service {
	return &Service{store: store, sink: sink}
}

// Award appends an entry and notifies the student. Negative amounts are
// allowed; penalties use the same path as awards.
func (s *Service) Award(ctx context.Context, userID uuid.UUID, pts int, reason string, assignedBy uuid.UUID) (models.PointsEntry, error) {
	if reason == "" {
		return models.PointsEntry{}, apperr.Validation("reason is required")
	}
	entry, err := s.store.Insert(ctx, models.PointsEntry{
		UserID:     userID,
		Points:     pts,
		Reason:     reason,
		AssignedBy: assignedBy,
	})
	if err != nil {
		return models.PointsEntry{}, err
	}

	s.sink.Emit(ctx, notify.Note{
		UserID:  userID,
		Title:   "Points Awarded",
		Message: "You have been awarded " + strconv.Itoa(pts) + " points for: " + reason,
		Type:    models.NotifSystem,
	})
	return entry, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]models.PointsEntryWithAssigner, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Total(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.Total(ctx, userID)
}

package notify

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/models"
)

// Repo persists notification rows and serves the recipient's read side.
type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

func (r *Repo) Insert(ctx context.Context, n Note) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (user_id, title, message, type, related_id)
VALUES ($1, $2, $3, $4, $5)`,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedID)
	if err != nil {
		return apperr.Transient("insert notification", err)
	}
	return nil
}

// ListByUser returns the recipient's latest notifications, newest first,
// capped at 20 as the dashboard shows.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, message, type, read, related_id, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 20`, userID)
	if err != nil {
		return nil, apperr.Transient("list notifications", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.RelatedID, &n.CreatedAt); err != nil {
			return nil, apperr.Transient("scan notification", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`, userID).Scan(&count)
	if err != nil {
		return 0, apperr.Transient("count unread notifications", err)
	}
	return count, nil
}

func (r *Repo) MarkRead(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return apperr.Transient("mark notification read", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("notification")
	}
	return nil
}

func (r *Repo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return apperr.Transient("mark all notifications read", err)
	}
	return nil
}

// StoreSink writes notes straight to the store, skipping the queue. It is
// the synchronous fallback for tools and tests that run without a worker.
type StoreSink struct {
	repo *Repo
	log  *zap.Logger
}

func NewStoreSink(repo *Repo, log *zap.Logger) *StoreSink {
	return &StoreSink{repo: repo, log: log}
}

func (s *StoreSink) Emit(ctx context.Context, n Note) {
	if err := s.repo.Insert(ctx, n); err != nil {
		s.log.Warn("notification insert failed", zap.String("user_id", n.UserID.String()), zap.Error(err))
	}
}

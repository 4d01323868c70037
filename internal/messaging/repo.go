package messaging

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/models"
)

// Repo persists direct messages.
type Repo struct {
	db *sql.DB
}

func NewRepo(database *sql.DB) *Repo {
	return &Repo{db: database}
}

func (r *Repo) Insert(ctx context.Context, senderID, receiverID uuid.UUID, content string) (models.Message, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `
INSERT INTO messages (sender_id, receiver_id, content)
VALUES ($1, $2, $3)
RETURNING id, sender_id, receiver_id, content, read, created_at`,
		senderID, receiverID, content)
	var m models.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "messages_receiver_id_fkey") {
			return models.Message{}, apperr.NotFound("receiver")
		}
		return models.Message{}, apperr.Transient("insert message", err)
	}
	return m, nil
}

// Touching is a message touching one user, with the other party's display
// fields resolved in SQL.
type Touching struct {
	models.Message
	PartnerID    uuid.UUID
	PartnerName  string
	PartnerEmail string
}

// ListTouching returns every message the user sent or received, newest
// first. Conversation grouping happens in the service.
func (r *Repo) ListTouching(ctx context.Context, userID uuid.UUID) ([]Touching, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT m.id, m.sender_id, m.receiver_id, m.content, m.read, m.created_at,
       u.id, u.name, u.email
FROM messages m
JOIN users u ON u.id = CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
WHERE m.sender_id = $1 OR m.receiver_id = $1
ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, apperr.Transient("list messages touching user", err)
	}
	defer rows.Close()
	var out []Touching
	for rows.Next() {
		var t Touching
		if err := rows.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.Content, &t.Read, &t.CreatedAt,
			&t.PartnerID, &t.PartnerName, &t.PartnerEmail); err != nil {
			return nil, apperr.Transient("scan message", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListThread returns all messages between two users, oldest first.
func (r *Repo) ListThread(ctx context.Context, userID, partnerID uuid.UUID) ([]models.Message, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `
SELECT id, sender_id, receiver_id, content, read, created_at
FROM messages
WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
ORDER BY created_at ASC`, userID, partnerID)
	if err != nil {
		return nil, apperr.Transient("list thread", err)
	}
	defer rows.Close()
	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, apperr.Transient("scan message", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkThreadRead flips every unread inbound message of the thread in one
// statement.
func (r *Repo) MarkThreadRead(ctx context.Context, userID, partnerID uuid.UUID) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
UPDATE messages SET read = true
WHERE receiver_id = $1 AND sender_id = $2 AND read = false`, userID, partnerID)
	if err != nil {
		return apperr.Transient("mark thread read", err)
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `db:"id"`
	SenderID   uuid.UUID `db:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id"`
	Content    string    `db:"content"`
	Read       bool      `db:"read"`
	CreatedAt  time.Time `db:"created_at"`
}

// Conversation is the preview row for a chat partner: the latest message
// between the two users, with unread set when that message is inbound and
// still unread.
type Conversation struct {
	PartnerID    uuid.UUID `db:"partner_id"`
	PartnerName  string    `db:"partner_name"`
	PartnerEmail string    `db:"partner_email"`
	LastMessage  string    `db:"last_message"`
	LastAt       time.Time `db:"last_at"`
	Unread       bool      `db:"unread"`
}

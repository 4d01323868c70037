package messaging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
)

// Store is the persistence messaging needs; *Repo implements it.
type Store interface {
	Insert(ctx context.Context, senderID, receiverID uuid.UUID, content string) (models.Message, error)
	ListTouching(ctx context.Context, userID uuid.UUID) ([]Touching, error)
	ListThread(ctx context.Context, userID, partnerID uuid.UUID) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, userID, partnerID uuid.UUID) error
}

type Service struct {
	store Store
	sink  notify.Sink
	log   *zap.Logger
}

func NewService(store Store, sink notify.Sink, log *zap.Logger) *Service {
	return &Service{store: store, sink: sink, log: log}
}

// Send appends a message and notifies the receiver.
func (s *Service) Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (models.Message, error) {
	if content == "" {
		return models.Message{}, apperr.Validation("message content is required")
	}
	if senderID == receiverID {
		return models.Message{}, apperr.Validation("cannot message yourself")
	}
	m, err := s.store.Insert(ctx, senderID, receiverID, content)
	if err != nil {
		return models.Message{}, err
	}

	related := senderID
	s.sink.Emit(ctx, notify.Note{
		UserID:    receiverID,
		Title:     "New Message",
		Message:   "You have received a new message.",
		Type:      models.NotifMessage,
		RelatedID: &related,
	})
	return m, nil
}

// Conversations groups all messages touching the user by the other party.
// The store returns rows newest first, so the first row seen for a partner
// is the conversation preview; unread is set when that latest message is
// inbound and still unread.
func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	msgs, err := s.store.ListTouching(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(msgs))
	var out []models.Conversation
	for _, m := range msgs {
		if seen[m.PartnerID] {
			continue
		}
		seen[m.PartnerID] = true
		out = append(out, models.Conversation{
			PartnerID:    m.PartnerID,
			PartnerName:  m.PartnerName,
			PartnerEmail: m.PartnerEmail,
			LastMessage:  m.Content,
			LastAt:       m.CreatedAt,
			Unread:       m.ReceiverID == userID && !m.Read,
		})
	}
	return out, nil
}

// Thread returns the full conversation with one partner, oldest first, and
// marks the caller's unread inbound messages as read.
func (s *Service) Thread(ctx context.Context, userID, partnerID uuid.UUID) ([]models.Message, error) {
	msgs, err := s.store.ListThread(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkThreadRead(ctx, userID, partnerID); err != nil {
		// Read-marking is part of the read path, not a primary mutation;
		// degrade instead of failing the fetch.
		s.log.Warn("mark thread read failed",
			zap.String("user_id", userID.String()),
			zap.String("partner_id", partnerID.String()),
			zap.Error(err))
	}
	return msgs, nil
}

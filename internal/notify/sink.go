// Package notify is the outbound notification pipeline. Emitting is always
// best-effort: a Sink never returns an error to domain code, and a failed
// emit is logged, counted and captured, never propagated.
package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/models"
)

// Note is one notification to deliver.
type Note struct {
	UserID    uuid.UUID               `json:"user_id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	RelatedID *uuid.UUID              `json:"related_id,omitempty"`
}

// Sink accepts notes for delivery. Emit must not block on delivery and must
// not surface failures to the caller.
type Sink interface {
	Emit(ctx context.Context, n Note)
}

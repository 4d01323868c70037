package attendance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
)

// Store is the persistence the ledger needs; *Repo implements it.
type Store interface {
	Upsert(ctx context.Context, eventID, userID uuid.UUID, action models.AttendanceAction) (models.AttendanceRecord, error)
	UpdateStatus(ctx context.Context, recordID uuid.UUID, status models.AttendanceStatus) (eventID, userID uuid.UUID, err error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.AttendanceWithUser, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AttendanceWithEvent, error)
}

// Service is the attendance ledger.
type Service struct {
	store Store
	sink  notify.Sink
	log   *zap.Logger
}

func NewService(store Store, sink notify.Sink, log *zap.Logger) *Service {
	return &Service{store: store, sink: sink, log: log}
}

// Record registers a check-in or check-out for (event, user). The write is
// atomic; the student notification afterwards is best-effort.
func (s *Service) Record(ctx context.Context, eventID, userID uuid.UUID, action models.AttendanceAction) (models.AttendanceRecord, error) {
	if action != models.CheckIn && action != models.CheckOut {
		return models.AttendanceRecord{}, apperr.Validation("action must be check_in or check_out")
	}
	rec, err := s.store.Upsert(ctx, eventID, userID, action)
	if err != nil {
		return models.AttendanceRecord{}, err
	}

	related := eventID
	s.sink.Emit(ctx, notify.Note{
		UserID:    userID,
		Title:     "Attendance Recorded",
		Message:   "Your attendance has been recorded for an event.",
		Type:      models.NotifAttendance,
		RelatedID: &related,
	})
	return rec, nil
}

// UpdateStatus is the admin override for a record's status.
func (s *Service) UpdateStatus(ctx context.Context, recordID uuid.UUID, status models.AttendanceStatus) error {
	if !status.Valid() {
		return apperr.Validation("unknown attendance status")
	}
	eventID, userID, err := s.store.UpdateStatus(ctx, recordID, status)
	if err != nil {
		return err
	}

	related := eventID
	s.sink.Emit(ctx, notify.Note{
		UserID:    userID,
		Title:     "Attendance Status Updated",
		Message:   "Your attendance status has been updated to " + string(status) + ".",
		Type:      models.NotifAttendance,
		RelatedID: &related,
	})
	return nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.AttendanceWithUser, error) {
	return s.store.ListByEvent(ctx, eventID)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.AttendanceWithEvent, error) {
	return s.store.ListByUser(ctx, userID)
}

package attendance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/attendance"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/notify"
)

type fakeStore struct {
	upserts   int
	lastEvent uuid.UUID
	lastUser  uuid.UUID
	upsertErr error

	statusEvent uuid.UUID
	statusUser  uuid.UUID
	statusErr   error
}

func (f *fakeStore) Upsert(_ context.Context, eventID, userID uuid.UUID, action models.AttendanceAction) (models.AttendanceRecord, error) {
	f.upserts++
	f.lastEvent, f.lastUser = eventID, userID
	if f.upsertErr != nil {
		return models.AttendanceRecord{}, f.upsertErr
	}
	rec := models.AttendanceRecord{ID: uuid.New(), EventID: eventID, UserID: userID}
	if action == models.CheckIn {
		rec.Status = models.AttendancePresent
	}
	return rec, nil
}

func (f *fakeStore) UpdateStatus(context.Context, uuid.UUID, models.AttendanceStatus) (uuid.UUID, uuid.UUID, error) {
	if f.statusErr != nil {
		return uuid.Nil, uuid.Nil, f.statusErr
	}
	return f.statusEvent, f.statusUser, nil
}

func (f *fakeStore) ListByEvent(context.Context, uuid.UUID) ([]models.AttendanceWithUser, error) {
	return nil, nil
}

func (f *fakeStore) ListByUser(context.Context, uuid.UUID) ([]models.AttendanceWithEvent, error) {
	return nil, nil
}

type fakeSink struct {
	notes []notify.Note
}

func (f *fakeSink) Emit(_ context.Context, n notify.Note) { f.notes = append(f.notes, n) }

func TestRecord_CheckInNotifiesStudent(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := attendance.NewService(store, sink, zap.NewNop())

	eventID, userID := uuid.New(), uuid.New()
	rec, err := svc.Record(context.Background(), eventID, userID, models.CheckIn)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.AttendancePresent {
		t.Fatalf("check-in status = %q, want present", rec.Status)
	}
	if len(sink.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(sink.notes))
	}
	n := sink.notes[0]
	if n.UserID != userID || n.Title != "Attendance Recorded" {
		t.Fatalf("unexpected note %+v", n)
	}
	if n.RelatedID == nil || *n.RelatedID != eventID {
		t.Fatalf("note related id = %v, want event %s", n.RelatedID, eventID)
	}
}

func TestRecord_RejectsUnknownAction(t *testing.T) {
	store := &fakeStore{}
	svc := attendance.NewService(store, &fakeSink{}, zap.NewNop())

	_, err := svc.Record(context.Background(), uuid.New(), uuid.New(), "check_sideways")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if store.upserts != 0 {
		t.Fatal("store called on invalid action")
	}
}

func TestRecord_StoreFailureSkipsNote(t *testing.T) {
	store := &fakeStore{upsertErr: apperr.NotFound("event")}
	sink := &fakeSink{}
	svc := attendance.NewService(store, sink, zap.NewNop())

	_, err := svc.Record(context.Background(), uuid.New(), uuid.New(), models.CheckOut)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(sink.notes) != 0 {
		t.Fatal("note emitted for failed write")
	}
}

func TestUpdateStatus_NotifiesWithNewStatus(t *testing.T) {
	store := &fakeStore{statusEvent: uuid.New(), statusUser: uuid.New()}
	sink := &fakeSink{}
	svc := attendance.NewService(store, sink, zap.NewNop())

	if err := svc.UpdateStatus(context.Background(), uuid.New(), models.AttendanceLate); err != nil {
		t.Fatal(err)
	}
	if len(sink.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(sink.notes))
	}
	n := sink.notes[0]
	if n.UserID != store.statusUser {
		t.Fatalf("note recipient = %s, want %s", n.UserID, store.statusUser)
	}
	if n.Message != "Your attendance status has been updated to late." {
		t.Fatalf("unexpected message %q", n.Message)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := attendance.NewService(&fakeStore{}, &fakeSink{}, zap.NewNop())
	err := svc.UpdateStatus(context.Background(), uuid.New(), "vanished")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

//go:build testutil
// +build testutil

package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/attendance"
	"github.com/sgovph/sgov-backend/internal/models"
	"github.com/sgovph/sgov-backend/internal/testutil/testdb"
)

func seedUser(t *testing.T, db *sql.DB, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(`
INSERT INTO users (name, email, password_hash)
VALUES ($1, $2, 'x') RETURNING id`, name, uuid.NewString()+"@test.local").Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func seedEvent(t *testing.T, db *sql.DB, title string) uuid.UUID {
	t.Helper()
	var orgID uuid.UUID
	err := db.QueryRow(`
INSERT INTO organizations (name, type)
VALUES ($1, 'club') RETURNING id`, title+" org").Scan(&orgID)
	if err != nil {
		t.Fatal(err)
	}
	var id uuid.UUID
	err = db.QueryRow(`
INSERT INTO events (title, date, start_time, end_time, organization_id)
VALUES ($1, now(), '08:00', '12:00', $2) RETURNING id`, title, orgID).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestUpsert_ConcurrentCallsKeepOneRow(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := attendance.NewRepo(h.DB)
	eventID := seedEvent(t, h.DB, "Orientation")
	userID := seedUser(t, h.DB, "Student One")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		action := models.CheckIn
		if i%2 == 1 {
			action = models.CheckOut
		}
		wg.Add(1)
		go func(a models.AttendanceAction) {
			defer wg.Done()
			if _, err := repo.Upsert(context.Background(), eventID, userID, a); err != nil {
				t.Error(err)
			}
		}(action)
	}
	wg.Wait()

	var count int
	if err := h.DB.QueryRow(`
SELECT COUNT(*) FROM attendance WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("attendance rows = %d, want 1", count)
	}
}

func TestUpsert_CheckInOverridesStatusCheckOutDoesNot(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := attendance.NewRepo(h.DB)
	eventID := seedEvent(t, h.DB, "Assembly")
	userID := seedUser(t, h.DB, "Student Two")

	rec, err := repo.Upsert(context.Background(), eventID, userID, models.CheckIn)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.AttendancePresent || rec.CheckInTime == nil {
		t.Fatalf("after check-in: %+v", rec)
	}

	if _, _, err := repo.UpdateStatus(context.Background(), rec.ID, models.AttendanceExcused); err != nil {
		t.Fatal(err)
	}

	// Check-out preserves the manual override.
	rec, err = repo.Upsert(context.Background(), eventID, userID, models.CheckOut)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.AttendanceExcused {
		t.Fatalf("check-out status = %q, want excused kept", rec.Status)
	}
	if rec.CheckOutTime == nil {
		t.Fatal("check-out time not set")
	}

	// A fresh check-in overwrites it back to present.
	rec, err = repo.Upsert(context.Background(), eventID, userID, models.CheckIn)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.AttendancePresent {
		t.Fatalf("re-check-in status = %q, want present", rec.Status)
	}
	if rec.CheckOutTime == nil {
		t.Fatal("re-check-in cleared the check-out time")
	}
}

func TestUpsert_UnknownEventAndUser(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := attendance.NewRepo(h.DB)
	userID := seedUser(t, h.DB, "Student Three")

	if _, err := repo.Upsert(context.Background(), uuid.New(), userID, models.CheckIn); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown event err = %v, want not found", err)
	}

	eventID := seedEvent(t, h.DB, "Seminar")
	if _, err := repo.Upsert(context.Background(), eventID, uuid.New(), models.CheckIn); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown user err = %v, want not found", err)
	}
}

func TestUpdateStatus_UnknownRecord(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := attendance.NewRepo(h.DB)
	if _, _, err := repo.UpdateStatus(context.Background(), uuid.New(), models.AttendanceLate); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

//go:build testutil
// +build testutil

package events_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/apperr"
	"github.com/sgovph/sgov-backend/internal/events"
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

func seedOrg(t *testing.T, db *sql.DB, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(`
INSERT INTO organizations (name, type)
VALUES ($1, 'ssg') RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestEvents_CRUDAndOfficers(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := events.NewRepo(h.DB)
	ctx := context.Background()
	orgID := seedOrg(t, h.DB, "Student Council")

	ev, err := repo.Insert(ctx, models.Event{
		Title:          "Foundation Day",
		Date:           time.Now().AddDate(0, 0, 7),
		StartTime:      "08:00",
		EndTime:        "17:00",
		OrganizationID: orgID,
		Mandatory:      true,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.ByID(ctx, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Foundation Day" || got.OrgName != "Student Council" {
		t.Fatalf("fetched %+v", got)
	}

	o1, o2 := seedUser(t, h.DB, "Officer One"), seedUser(t, h.DB, "Officer Two")
	if err := repo.SetOfficers(ctx, ev.ID, []uuid.UUID{o1, o2}); err != nil {
		t.Fatal(err)
	}
	// Replacement, not accumulation.
	if err := repo.SetOfficers(ctx, ev.ID, []uuid.UUID{o2}); err != nil {
		t.Fatal(err)
	}
	officers, err := repo.ListOfficers(ctx, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(officers) != 1 || officers[0] != o2 {
		t.Fatalf("officers = %v, want [%s]", officers, o2)
	}

	if err := repo.Delete(ctx, ev.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ByID(ctx, ev.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("get deleted err = %v, want not found", err)
	}
	if err := repo.Delete(ctx, ev.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("double delete err = %v, want not found", err)
	}
}

func TestUpcomingMandatory_RemindedOnce(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repo := events.NewRepo(h.DB)
	ctx := context.Background()
	orgID := seedOrg(t, h.DB, "Events Council")

	soon, err := repo.Insert(ctx, models.Event{
		Title: "Flag Ceremony", Date: time.Now().Add(6 * time.Hour),
		StartTime: "06:00", EndTime: "07:00", OrganizationID: orgID, Mandatory: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Insert(ctx, models.Event{
		Title: "Optional Fair", Date: time.Now().Add(6 * time.Hour),
		StartTime: "09:00", EndTime: "12:00", OrganizationID: orgID, Mandatory: false,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Insert(ctx, models.Event{
		Title: "Far Future Drill", Date: time.Now().AddDate(0, 1, 0),
		StartTime: "09:00", EndTime: "12:00", OrganizationID: orgID, Mandatory: true,
	}); err != nil {
		t.Fatal(err)
	}

	due, err := repo.UpcomingMandatory(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].ID != soon.ID {
		t.Fatalf("due = %+v, want only %s", due, soon.ID)
	}

	if err := repo.MarkReminderSent(ctx, soon.ID); err != nil {
		t.Fatal(err)
	}
	// Idempotent, and the event drops out of the due set.
	if err := repo.MarkReminderSent(ctx, soon.ID); err != nil {
		t.Fatal(err)
	}
	due, err = repo.UpcomingMandatory(ctx, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("due after reminder = %d, want 0", len(due))
	}
}

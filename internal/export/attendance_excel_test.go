package export

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sgovph/sgov-backend/internal/models"
)

func TestAttendanceSheet(t *testing.T) {
	checkIn := time.Date(2026, 2, 14, 8, 30, 0, 0, time.UTC)
	studentNo := "2022-00123"
	dept := "Engineering"
	records := []models.AttendanceWithUser{
		{
			AttendanceRecord: models.AttendanceRecord{
				Status:      models.AttendancePresent,
				CheckInTime: &checkIn,
			},
			UserName:   "Juan Dela Cruz",
			StudentID:  &studentNo,
			Department: &dept,
		},
		{
			AttendanceRecord: models.AttendanceRecord{Status: models.AttendanceAbsent},
			UserName:         "Maria Santos",
		},
	}
	event := models.EventWithOrg{Event: models.Event{ID: uuid.New(), Title: "General Assembly"}}

	f, err := AttendanceSheet(event, records, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][5] != "Status" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "Juan Dela Cruz" || rows[1][1] != studentNo {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[1][3] != "2026-02-14 08:30" {
		t.Fatalf("check-in cell = %q", rows[1][3])
	}
	if rows[2][1] != "—" {
		t.Fatalf("missing student id cell = %q, want dash", rows[2][1])
	}
	if rows[2][5] != "absent" {
		t.Fatalf("status cell = %q", rows[2][5])
	}
}

func TestAttendanceSheetLocalTime(t *testing.T) {
	checkIn := time.Date(2026, 2, 14, 0, 30, 0, 0, time.UTC)
	records := []models.AttendanceWithUser{
		{
			AttendanceRecord: models.AttendanceRecord{
				Status:      models.AttendancePresent,
				CheckInTime: &checkIn,
			},
			UserName: "Juan Dela Cruz",
		},
	}
	event := models.EventWithOrg{Event: models.Event{ID: uuid.New(), Title: "Flag Ceremony"}}

	manila := time.FixedZone("Asia/Manila", 8*60*60)
	f, err := AttendanceSheet(event, records, manila)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatal(err)
	}
	if rows[1][3] != "2026-02-14 08:30" {
		t.Fatalf("check-in cell = %q, want local time", rows[1][3])
	}
}

func TestBuildAttendanceFilename(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := BuildAttendanceFilename(`Sports  Fest: "Day 1"`, date)
	want := "Attendance - Sports Fest_ _Day 1_ - 2026-03-01.xlsx"
	if got != want {
		t.Fatalf("filename = %q, want %q", got, want)
	}
}

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 2: "B", 26: "Z", 27: "AA", 52: "AZ", 53: "BA"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Errorf("colName(%d) = %q, want %q", n, got, want)
		}
	}
}

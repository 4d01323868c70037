package auth

import (
	"testing"

	"github.com/sgovph/sgov-backend/internal/models"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role models.Role
		op   Op
		want bool
	}{
		{models.Student, OpRequestClearance, true},
		{models.Student, OpDecideClearance, false},
		{models.Student, OpRecordAttendance, false},
		{models.Officer, OpRecordAttendance, true},
		{models.Officer, OpUpdateAttendanceStatus, false},
		{models.Officer, OpRequestClearance, true},
		{models.ClubAdmin, OpDecideClearance, true},
		{models.ClubAdmin, OpAwardPoints, true},
		{models.ClubAdmin, OpManageOrganizations, false},
		{models.DepartmentAdmin, OpExportAttendance, true},
		{models.SSGAdmin, OpManageOrganizations, true},
		{models.SSGAdmin, OpManageUsers, true},
		{models.SSGAdmin, OpDecideClearance, true},
		{"", OpRecordAttendance, false},
		{models.Student, "made.up", false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.op); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}

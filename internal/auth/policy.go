package auth

import "github.com/sgovph/sgov-backend/internal/models"

// Op names every capability-checked operation. The policy is evaluated once
// at the HTTP boundary; domain services never re-check roles.
type Op string

const (
	OpRecordAttendance       Op = "attendance.record"
	OpUpdateAttendanceStatus Op = "attendance.update_status"
	OpListEventAttendance    Op = "attendance.list_by_event"
	OpExportAttendance       Op = "attendance.export"
	OpRequestClearance       Op = "clearance.request"
	OpDecideClearance        Op = "clearance.decide"
	OpListPendingClearances  Op = "clearance.list_pending"
	OpAwardPoints            Op = "points.award"
	OpManageEvents           Op = "events.manage"
	OpManageOrganizations    Op = "organizations.manage"
	OpManageUsers            Op = "users.manage"
)

// adminRoles covers every organization-admin tier.
var adminRoles = []models.Role{models.SSGAdmin, models.ClubAdmin, models.DepartmentAdmin}

var policy = map[Op][]models.Role{
	OpRecordAttendance:       {models.SSGAdmin, models.ClubAdmin, models.DepartmentAdmin, models.Officer},
	OpUpdateAttendanceStatus: adminRoles,
	OpListEventAttendance:    {models.SSGAdmin, models.ClubAdmin, models.DepartmentAdmin, models.Officer},
	OpExportAttendance:       adminRoles,
	OpRequestClearance:       {models.Student, models.Officer},
	OpDecideClearance:        adminRoles,
	OpListPendingClearances:  adminRoles,
	OpAwardPoints:            adminRoles,
	OpManageEvents:           adminRoles,
	OpManageOrganizations:    {models.SSGAdmin},
	OpManageUsers:            {models.SSGAdmin},
}

// Allowed is a pure role/operation table lookup.
func Allowed(role models.Role, op Op) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

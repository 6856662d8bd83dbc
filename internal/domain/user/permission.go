package user

type Permission string

const (
	// Self service
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionPermitSubmit      Permission = "permit.submit"

	// Management
	PermissionMonitoringView   Permission = "monitoring.view"
	PermissionPunishmentManage Permission = "punishment.manage"
	PermissionSettingsManage   Permission = "settings.manage"
	PermissionReportsView      Permission = "reports.view"
	PermissionSweepRun         Permission = "sweep.run"
)

var selfService = []Permission{
	PermissionAttendanceCreate,
	PermissionAttendanceViewOwn,
	PermissionPermitSubmit,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append([]Permission{
		PermissionMonitoringView,
		PermissionPunishmentManage,
		PermissionSettingsManage,
		PermissionReportsView,
		PermissionSweepRun,
	}, selfService...),
	RoleOwner: append([]Permission{
		PermissionMonitoringView,
		PermissionPunishmentManage,
		PermissionSettingsManage,
		PermissionReportsView,
		PermissionSweepRun,
	}, selfService...),
	RoleHead: append([]Permission{
		PermissionMonitoringView,
		PermissionPunishmentManage,
		PermissionReportsView,
	}, selfService...),
	RoleSupervisor: selfService,
	RoleEmployee:   selfService,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

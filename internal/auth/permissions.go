package auth

// Permission codes checked by the policy table.
const (
	// PermRoleView allows listing roles and their permissions.
	PermRoleView = "role.view"
	// PermRoleAdd allows creating roles.
	PermRoleAdd = "role.add"
	// PermRoleChange allows renaming roles and changing their permission set.
	PermRoleChange = "role.change"
	// PermRoleDelete allows deleting roles.
	PermRoleDelete = "role.delete"

	// PermPermissionView allows listing permissions.
	PermPermissionView = "permission.view"
	// PermPermissionAdd allows creating permissions.
	PermPermissionAdd = "permission.add"
	// PermPermissionChange allows editing permissions.
	PermPermissionChange = "permission.change"
	// PermPermissionDelete allows deleting permissions.
	PermPermissionDelete = "permission.delete"

	// PermUserView allows listing users and their roles.
	PermUserView = "user.view"
	// PermUserAdd allows creating users.
	PermUserAdd = "user.add"
	// PermUserChange allows editing users.
	PermUserChange = "user.change"
	// PermUserDelete allows deleting users.
	PermUserDelete = "user.delete"

	// PermUserRoleAdd allows assigning roles to users.
	PermUserRoleAdd = "user_role.add"
	// PermUserRoleChange allows changing role assignments.
	PermUserRoleChange = "user_role.change"
	// PermUserRoleDelete allows removing roles from users.
	PermUserRoleDelete = "user_role.delete"
)

// Descriptions are stored with the built-in permissions when they are seeded.
var Descriptions = map[string]string{ //nolint:gochecknoglobals
	PermRoleView:         "Can view roles",
	PermRoleAdd:          "Can add roles",
	PermRoleChange:       "Can change roles",
	PermRoleDelete:       "Can delete roles",
	PermPermissionView:   "Can view permissions",
	PermPermissionAdd:    "Can add permissions",
	PermPermissionChange: "Can change permissions",
	PermPermissionDelete: "Can delete permissions",
	PermUserView:         "Can view users",
	PermUserAdd:          "Can add users",
	PermUserChange:       "Can change users",
	PermUserDelete:       "Can delete users",
	PermUserRoleAdd:      "Can assign roles to users",
	PermUserRoleChange:   "Can change role assignments",
	PermUserRoleDelete:   "Can remove roles from users",
}

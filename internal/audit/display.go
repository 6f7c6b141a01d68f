package audit

// Actions recorded in the audit trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Governed model names.
const (
	ModelRole           = "Role"
	ModelPermission     = "Permission"
	ModelRolePermission = "RolePermission"
	ModelUserRole       = "UserRole"
	ModelUser           = "User"
)

var actionDisplay = map[string]string{ //nolint:gochecknoglobals
	ActionCreate: "Creación",
	ActionUpdate: "Actualización",
	ActionDelete: "eliminación",
}

var modelDisplay = map[string]string{ //nolint:gochecknoglobals
	ModelRole:           "Rol",
	ModelPermission:     "Permiso",
	ModelRolePermission: "Asignación de permiso",
}

// ActionDisplay returns the human-readable action, or the action itself if unknown.
func ActionDisplay(action string) string {
	if d, ok := actionDisplay[action]; ok {
		return d
	}

	return action
}

// ModelDisplay returns the human-readable model name, or the name itself if unknown.
func ModelDisplay(model string) string {
	if d, ok := modelDisplay[model]; ok {
		return d
	}

	return model
}

// ValidAction reports whether action is one of create, update, delete.
func ValidAction(action string) bool {
	_, ok := actionDisplay[action]

	return ok
}

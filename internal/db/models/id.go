package models

import "github.com/google/uuid"

// assignID gives a new row a random UUID unless the caller already set one.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&User{},
		&RolePermission{},
		&UserRole{},
		&AuditLog{},
	}
}

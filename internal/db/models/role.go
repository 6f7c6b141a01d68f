package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a named bundle of permissions that can be assigned to users.
// Its permission set is derived from the role_permissions edges.
type Role struct {
	// ID is the unique identifier for the role.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "admin", "auditor").
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"type:text" json:"description"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns the primary key.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ID)

	return nil
}

// String returns the role name.
func (r Role) String() string {
	return r.Name
}

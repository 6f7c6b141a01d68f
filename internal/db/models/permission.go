package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission represents a single capability in the role-based access control (RBAC) system.
// The name is the permission code checked by the resolver, e.g. "role.view".
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	// Name is the unique permission code.
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Description provides a human-readable description of what the permission allows.
	Description string `gorm:"type:text" json:"description"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// BeforeCreate assigns the primary key.
func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)

	return nil
}

// String returns the permission code.
func (p Permission) String() string {
	return p.Name
}

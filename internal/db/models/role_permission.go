package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RolePermission is the edge granting a permission to a role.
// A role holds a permission at most once, enforced by idx_role_permission.
// Deleting either side removes the edge (CASCADE).
type RolePermission struct {
	// ID is the unique identifier for the edge.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	// RoleID is the ID of the role in this mapping.
	RoleID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_role_permission,priority:1" json:"role"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_role_permission,priority:2;index" json:"permission"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}

// BeforeCreate assigns the primary key.
func (rp *RolePermission) BeforeCreate(_ *gorm.DB) error {
	assignID(&rp.ID)

	return nil
}

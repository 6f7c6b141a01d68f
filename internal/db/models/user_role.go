package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the edge assigning a role to a user.
// A user holds a role at most once, enforced by idx_user_role.
type UserRole struct {
	// ID is the unique identifier for the edge.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	// UserID is the ID of the user holding the role.
	UserID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_user_role,priority:1" json:"user"`
	// RoleID is the ID of the assigned role.
	RoleID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_user_role,priority:2;index" json:"role"`
	// User is the associated user.
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// Role is the associated role.
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}

// BeforeCreate assigns the primary key.
func (ur *UserRole) BeforeCreate(_ *gorm.DB) error {
	assignID(&ur.ID)

	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity roles are assigned to.
// Authentication happens upstream, this system only reads the flags.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	// Email is the unique login identity of the user.
	Email string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:150" json:"first_name"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:150" json:"last_name"`
	// IsActive is false for disabled accounts, the resolver denies them everything.
	IsActive bool `gorm:"not null" json:"is_active"`
	// IsSuperuser bypasses every permission check.
	IsSuperuser bool `gorm:"not null" json:"is_superuser"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)

	return nil
}

// String returns the email.
func (u User) String() string {
	return u.Email
}

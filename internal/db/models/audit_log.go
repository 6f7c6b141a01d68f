package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrAuditLogImmutable is returned by any attempt to update or delete an audit row.
var ErrAuditLogImmutable = errors.New("audit log rows are append-only")

// AuditLog is one immutable record of a governed mutation.
// UserID has no foreign key: the actor may be deleted while its records stay.
type AuditLog struct {
	// ID is the unique identifier for the record.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// UserID is the acting user, nil for system actions.
	UserID *uuid.UUID `gorm:"type:char(36);index"`
	// ModelName is the governed entity type, e.g. "Role".
	ModelName string `gorm:"size:100;not null;index"`
	// ObjectID is the string form of the affected entity id.
	ObjectID string `gorm:"size:36;not null"`
	// Action is one of create, update, delete.
	Action string `gorm:"size:10;not null;index"`
	// Timestamp is set once at write time.
	Timestamp time.Time `gorm:"not null;index"`
	// Changes holds the field diff for updates or a summary for create and delete.
	Changes datatypes.JSONMap
}

// TableName specifies the database table name for the AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns the primary key.
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	assignID(&a.ID)

	return nil
}

// BeforeUpdate rejects updates.
func (a *AuditLog) BeforeUpdate(_ *gorm.DB) error {
	return ErrAuditLogImmutable
}

// BeforeDelete rejects deletes.
func (a *AuditLog) BeforeDelete(_ *gorm.DB) error {
	return ErrAuditLogImmutable
}

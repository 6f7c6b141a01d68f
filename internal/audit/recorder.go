package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/models"
)

// Entry describes one governed mutation.
type Entry struct {
	// Actor is the acting user, nil for system actions.
	Actor     *uuid.UUID
	ModelName string
	ObjectID  string
	Action    string
	Changes   map[string]any
}

// Recorder appends audit rows.
type Recorder struct {
	// Now stamps records, defaults to time.Now in UTC.
	Now func() time.Time
}

// NewRecorder returns a recorder using the wall clock.
func NewRecorder() *Recorder {
	return &Recorder{Now: func() time.Time { return time.Now().UTC() }}
}

// Record appends one row using tx. Call it with the mutation's transaction handle.
func (r *Recorder) Record(tx *gorm.DB, e Entry) error {
	if !ValidAction(e.Action) {
		return fmt.Errorf("%w: %q", ErrInvalidAction, e.Action)
	}

	changes := e.Changes
	if changes == nil {
		changes = map[string]any{}
	}

	row := models.AuditLog{
		UserID:    e.Actor,
		ModelName: e.ModelName,
		ObjectID:  e.ObjectID,
		Action:    e.Action,
		Timestamp: r.now(),
		Changes:   datatypes.JSONMap(changes),
	}

	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("write audit record for %s %s: %w", e.ModelName, e.ObjectID, err)
	}

	log.Debug().Str("model_name", e.ModelName).Str("object_id", e.ObjectID).
		Str("action", e.Action).Msg("audit recorded")

	return nil
}

func (r *Recorder) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}

	return r.Now()
}

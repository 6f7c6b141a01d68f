package rbac

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
)

// AuditRecorder writes an audit row with the given transaction handle.
type AuditRecorder interface {
	Record(tx *gorm.DB, e audit.Entry) error
}

// Invalidator drops cached permission sets after a committed change.
type Invalidator interface {
	InvalidateUsers(ctx context.Context, userIDs ...uuid.UUID)
	InvalidateAll(ctx context.Context)
}

// Service mutates the entity store.
type Service struct {
	db          *gorm.DB
	recorder    AuditRecorder
	invalidator Invalidator
}

// NewService creates a mutation service. invalidator may be nil when no cache is used.
func NewService(db *gorm.DB, recorder AuditRecorder, invalidator Invalidator) *Service {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}

	return &Service{db: db, recorder: recorder, invalidator: invalidator}
}

// transaction runs fn in one database transaction.
func (s *Service) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn) //nolint:wrapcheck
}

func (s *Service) record(tx *gorm.DB, actor *auth.Principal, model, objectID, action string, changes map[string]any) error {
	return s.recorder.Record(tx, audit.Entry{ //nolint:wrapcheck
		Actor:     actor.ActorID(),
		ModelName: model,
		ObjectID:  objectID,
		Action:    action,
		Changes:   changes,
	})
}

// dedupe keeps the first occurrence of each id.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// duplicate maps a unique constraint violation to a validation error on field.
func duplicate(err error, field, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return invalid(field, message)
	}

	return err
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUsers(context.Context, ...uuid.UUID) {}

func (noopInvalidator) InvalidateAll(context.Context) {}

package rbac

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/controller/permission"
	"github.com/authcore/authcore/internal/db/controller/role"
	"github.com/authcore/authcore/internal/db/controller/user"
	"github.com/authcore/authcore/internal/db/controller/userrole"
)

var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is wrapped by every not found error below.
	ErrNotFound = controller.ErrNotFound

	// ErrRoleNotFound is returned when the role does not exist.
	ErrRoleNotFound = role.ErrRoleNotFound
	// ErrPermissionNotFound is returned when the permission does not exist.
	ErrPermissionNotFound = permission.ErrPermissionNotFound
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = user.ErrUserNotFound
	// ErrUserRoleNotFound is returned when the user does not hold the role.
	ErrUserRoleNotFound = userrole.ErrUserRoleNotFound
)

// ValidationError describes rejected input. Nothing was written when it is returned.
type ValidationError struct {
	Field      string
	InvalidIDs []uuid.UUID
	Message    string
}

// Error implements error.
func (e *ValidationError) Error() string {
	var b strings.Builder

	b.WriteString(e.Field)
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.InvalidIDs) > 0 {
		ids := make([]string, len(e.InvalidIDs))
		for i, id := range e.InvalidIDs {
			ids[i] = id.String()
		}

		fmt.Fprintf(&b, " [%s]", strings.Join(ids, ", "))
	}

	return b.String()
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string, ids ...uuid.UUID) *ValidationError {
	return &ValidationError{Field: field, Message: message, InvalidIDs: ids}
}

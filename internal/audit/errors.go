package audit

import (
	"errors"
	"fmt"

	"github.com/authcore/authcore/internal/db/controller"
)

var (
	// ErrInvalidAction is returned for actions other than create, update, delete.
	ErrInvalidAction = errors.New("invalid audit action")

	// ErrAuditLogNotFound is returned when an audit record id does not exist.
	ErrAuditLogNotFound = fmt.Errorf("audit log %w", controller.ErrNotFound)
)

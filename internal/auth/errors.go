package auth

import "errors"

var (
	// ErrUnauthenticated is returned when no active, authenticated principal is present.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")

	// ErrForbidden is returned when the principal lacks the required permission.
	// It deliberately carries no detail about the missing permission.
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrPolicyIncomplete is returned by NewPolicy when an operation has no rule.
	ErrPolicyIncomplete = errors.New("policy has no rule for operation")

	// ErrPolicyInvalid is returned by NewPolicy for unknown or duplicate rules.
	ErrPolicyInvalid = errors.New("invalid policy rule")
)

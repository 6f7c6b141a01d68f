package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RequirePolicy creates Fiber middleware that requires the permission the policy maps op on res to.
// It panics at route setup if the policy has no such rule.
func RequirePolicy(authService *Service, policy *Policy, res Resource, op Operation) fiber.Handler {
	code, err := policy.Required(res, op)
	if err != nil {
		panic(fmt.Sprintf("route %s.%s: %v", res, op, err))
	}

	return RequirePermission(authService, code)
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// Failures are returned as ErrUnauthenticated or ErrForbidden for the app error handler.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFromCtx(c)

		err := authService.Authorize(c.UserContext(), p, permission)

		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, ErrForbidden):
			log.Warn().Str("user_id", p.ID.String()).Str("permission", permission).
				Str("path", c.Path()).Msg("User lacks required permission")
		case !errors.Is(err, ErrUnauthenticated):
			log.Error().Err(err).Str("permission", permission).Msg("Failed to check permission")
		}

		return err
	}
}

// RequireAuthenticated rejects requests without an active principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !PrincipalFromCtx(c).Usable() {
			return ErrUnauthenticated
		}

		return c.Next()
	}
}

// RequireSuperuser rejects everyone but active superusers.
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFromCtx(c)

		if !p.Usable() {
			return ErrUnauthenticated
		}

		if !p.Superuser {
			log.Warn().Str("user_id", p.ID.String()).Str("path", c.Path()).Msg("superuser required")

			return ErrForbidden
		}

		return c.Next()
	}
}

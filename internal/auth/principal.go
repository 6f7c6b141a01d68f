package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/authcore/authcore/internal/db/models"
)

// LocalsPrincipal is the fiber.Locals key holding the request *Principal.
const LocalsPrincipal = "principal"

// Principal is the identity a request acts as.
type Principal struct {
	ID            uuid.UUID
	Email         string
	Authenticated bool
	Active        bool
	Superuser     bool
}

// FromUser builds an authenticated principal from a stored user.
func FromUser(u *models.User) *Principal {
	if u == nil {
		return nil
	}

	return &Principal{
		ID:            u.ID,
		Email:         u.Email,
		Authenticated: true,
		Active:        u.IsActive,
		Superuser:     u.IsSuperuser,
	}
}

// Usable reports whether the principal may be granted anything at all.
func (p *Principal) Usable() bool {
	return p != nil && p.Authenticated && p.Active && p.ID != uuid.Nil
}

// ActorID returns the id recorded as audit actor, nil when there is no identity.
func (p *Principal) ActorID() *uuid.UUID {
	if p == nil || !p.Authenticated || p.ID == uuid.Nil {
		return nil
	}

	id := p.ID

	return &id
}

// PrincipalFromCtx returns the principal stored by the request layer, or nil.
func PrincipalFromCtx(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(LocalsPrincipal).(*Principal)

	return p
}

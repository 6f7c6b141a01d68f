package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/rbac"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps)
}

// Deps are the services a handler works with.
type Deps struct {
	Config *config.Config
	Authz  *auth.Service
	Policy *auth.Policy
	RBAC   *rbac.Service
	Audit  *audit.Service
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Config != nil && d.Authz != nil && d.Policy != nil && d.RBAC != nil && d.Audit != nil
}

// Require returns the middleware enforcing the policy rule for op on res.
func (d *Deps) Require(res auth.Resource, op auth.Operation) fiber.Handler {
	return auth.RequirePolicy(d.Authz, d.Policy, res, op)
}

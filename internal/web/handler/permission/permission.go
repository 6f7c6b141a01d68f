// Package permission provides the permission endpoints.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/rbac"
	"github.com/authcore/authcore/internal/web/handler"
)

const (
	// Path is the base path for permissions.
	Path = handler.APIPath + "/permissions"
	// RouteItem addresses one permission.
	RouteItem = Path + "/:" + handler.ParamID
)

// Service serves permissions.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type permissionInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type permissionPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) {
	if router == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps

	router.Get(Path, deps.Require(auth.ResourcePermission, auth.OpList), s.List)
	router.Post(Path, deps.Require(auth.ResourcePermission, auth.OpCreate), s.Create)
	router.Get(RouteItem, deps.Require(auth.ResourcePermission, auth.OpRetrieve), s.Retrieve)
	router.Patch(RouteItem, deps.Require(auth.ResourcePermission, auth.OpUpdate), s.Update)
	router.Put(RouteItem, deps.Require(auth.ResourcePermission, auth.OpUpdate), s.Update)
	router.Delete(RouteItem, deps.Require(auth.ResourcePermission, auth.OpDestroy), s.Destroy)
}

// List returns every permission.
func (s *Service) List(c *fiber.Ctx) error {
	perms, err := s.deps.RBAC.ListPermissions(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perms)
}

// Create creates a permission.
func (s *Service) Create(c *fiber.Ctx) error {
	var in permissionInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	p, err := s.deps.RBAC.CreatePermission(c.UserContext(), auth.PrincipalFromCtx(c),
		rbac.PermissionInput{Name: in.Name, Description: in.Description})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Retrieve returns one permission.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	p, err := s.deps.RBAC.GetPermission(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(p)
}

// Update patches a permission. Renaming a permission held by a role is rejected.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in permissionPatch
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	p, err := s.deps.RBAC.UpdatePermission(c.UserContext(), auth.PrincipalFromCtx(c), id,
		rbac.PermissionPatch{Name: in.Name, Description: in.Description})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(p)
}

// Destroy deletes a permission with its edges.
func (s *Service) Destroy(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.RBAC.DeletePermission(c.UserContext(), auth.PrincipalFromCtx(c), id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

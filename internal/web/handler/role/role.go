// Package role provides the role endpoints, including the role permission sub-resource.
package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/rbac"
	"github.com/authcore/authcore/internal/web/handler"
)

const (
	// Path is the base path for roles.
	Path = handler.APIPath + "/roles"

	// RouteItem addresses one role.
	RouteItem = Path + "/:" + handler.ParamID
	// RoutePermissions lists and assigns the permissions of a role.
	RoutePermissions = RouteItem + "/permissions"
	// RoutePermissionsDelete removes permissions from a role.
	RoutePermissionsDelete = RoutePermissions + "/delete"

	// DetailAssigned answers a successful assignment.
	DetailAssigned = "permissions assigned"
	// DetailRemoved answers a successful removal.
	DetailRemoved = "permissions removed"
	// DetailNothingToRemove answers a removal with an empty list.
	DetailNothingToRemove = "no permissions to remove"
)

// Service serves roles.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type roleInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type rolePatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

type permissionsInput struct {
	Permissions []string `json:"permissions" validate:"required,dive,uuid"`
}

// AssignResponse is the body of a permission assignment.
type AssignResponse struct {
	Detail string `json:"detail"`
	rbac.AssignResult
}

// RemoveResponse is the body of a permission removal.
type RemoveResponse struct {
	Detail      string   `json:"detail"`
	Permissions []string `json:"permissions"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) {
	if router == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps

	router.Get(Path, deps.Require(auth.ResourceRole, auth.OpList), s.List)
	router.Post(Path, deps.Require(auth.ResourceRole, auth.OpCreate), s.Create)
	router.Get(RouteItem, deps.Require(auth.ResourceRole, auth.OpRetrieve), s.Retrieve)
	router.Patch(RouteItem, deps.Require(auth.ResourceRole, auth.OpUpdate), s.Update)
	router.Put(RouteItem, deps.Require(auth.ResourceRole, auth.OpUpdate), s.Update)
	router.Delete(RouteItem, deps.Require(auth.ResourceRole, auth.OpDestroy), s.Destroy)

	router.Get(RoutePermissions, deps.Require(auth.ResourceRolePermissions, auth.OpList), s.Permissions)
	router.Post(RoutePermissions, deps.Require(auth.ResourceRolePermissions, auth.OpAssign), s.Assign)
	router.Post(RoutePermissionsDelete, deps.Require(auth.ResourceRolePermissions, auth.OpRemove), s.Remove)
}

// List returns every role.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.deps.RBAC.ListRoles(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(roles)
}

// Create creates a role.
func (s *Service) Create(c *fiber.Ctx) error {
	var in roleInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	r, err := s.deps.RBAC.CreateRole(c.UserContext(), auth.PrincipalFromCtx(c),
		rbac.RoleInput{Name: in.Name, Description: in.Description})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Retrieve returns one role.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	r, err := s.deps.RBAC.GetRole(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(r)
}

// Update patches a role.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in rolePatch
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	r, err := s.deps.RBAC.UpdateRole(c.UserContext(), auth.PrincipalFromCtx(c), id,
		rbac.RolePatch{Name: in.Name, Description: in.Description})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(r)
}

// Destroy deletes a role with its edges.
func (s *Service) Destroy(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.RBAC.DeleteRole(c.UserContext(), auth.PrincipalFromCtx(c), id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Permissions lists the permissions of a role.
func (s *Service) Permissions(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	perms, err := s.deps.RBAC.RolePermissions(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perms)
}

// Assign grants permissions to a role.
func (s *Service) Assign(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in permissionsInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	res, err := s.deps.RBAC.AssignPermissionsToRole(c.UserContext(), auth.PrincipalFromCtx(c), id,
		handler.UUIDs(in.Permissions))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(AssignResponse{Detail: DetailAssigned, AssignResult: res})
}

// Remove revokes permissions from a role and answers with the names the role still holds.
func (s *Service) Remove(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in permissionsInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	ctx := c.UserContext()

	if _, err := s.deps.RBAC.RemovePermissionsFromRole(ctx, auth.PrincipalFromCtx(c), id,
		handler.UUIDs(in.Permissions)); err != nil {
		return err //nolint:wrapcheck
	}

	detail := DetailRemoved
	if len(in.Permissions) == 0 {
		detail = DetailNothingToRemove
	}

	perms, err := s.deps.RBAC.RolePermissions(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(RemoveResponse{Detail: detail, Permissions: names(perms)})
}

func names(perms []models.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.Name)
	}

	return out
}

// Package user provides the user endpoints and the caller's own view.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/rbac"
	"github.com/authcore/authcore/internal/web/handler"
)

const (
	// Path is the base path for users.
	Path = handler.APIPath + "/users"
	// RouteItem addresses one user.
	RouteItem = Path + "/:" + handler.ParamID
	// RouteRoles lists the roles of a user.
	RouteRoles = RouteItem + "/roles"
	// RouteMe is the caller's own view.
	RouteMe = handler.APIPath + "/me"
)

// Service serves users.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type userInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type userPatch struct {
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// MeResponse is the caller's identity with its roles and effective permission codes.
type MeResponse struct {
	*models.User
	Roles       []models.Role `json:"roles"`
	Permissions []string      `json:"permissions"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) {
	if router == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps

	router.Get(RouteMe, auth.RequireAuthenticated(), s.Me)

	router.Get(Path, deps.Require(auth.ResourceUser, auth.OpList), s.List)
	router.Post(Path, deps.Require(auth.ResourceUser, auth.OpCreate), s.Create)
	router.Get(RouteItem, deps.Require(auth.ResourceUser, auth.OpRetrieve), s.Retrieve)
	router.Patch(RouteItem, deps.Require(auth.ResourceUser, auth.OpUpdate), s.Update)
	router.Put(RouteItem, deps.Require(auth.ResourceUser, auth.OpUpdate), s.Update)
	router.Delete(RouteItem, deps.Require(auth.ResourceUser, auth.OpDestroy), s.Destroy)
	router.Get(RouteRoles, deps.Require(auth.ResourceUser, auth.OpRetrieve), s.Roles)
}

// List returns every user.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.deps.RBAC.ListUsers(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(users)
}

// Create creates a user. Users are active unless is_active is false.
func (s *Service) Create(c *fiber.Ctx) error {
	var in userInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	u, err := s.deps.RBAC.CreateUser(c.UserContext(), auth.PrincipalFromCtx(c), rbac.UserInput{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    active,
		IsSuperuser: in.IsSuperuser,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Retrieve returns one user.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	u, err := s.deps.RBAC.GetUser(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Update patches a user.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in userPatch
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	u, err := s.deps.RBAC.UpdateUser(c.UserContext(), auth.PrincipalFromCtx(c), id, rbac.UserPatch{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    in.IsActive,
		IsSuperuser: in.IsSuperuser,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Destroy deletes a user. Its audit trail stays.
func (s *Service) Destroy(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.RBAC.DeleteUser(c.UserContext(), auth.PrincipalFromCtx(c), id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Roles lists the roles of a user.
func (s *Service) Roles(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	roles, err := s.deps.RBAC.UserRoles(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(roles)
}

// Me returns the caller with its roles and effective permissions.
func (s *Service) Me(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := auth.PrincipalFromCtx(c)

	u, err := s.deps.RBAC.GetUser(ctx, p.ID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	roles, err := s.deps.RBAC.UserRoles(ctx, p.ID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	codes, err := s.deps.Authz.Permissions(ctx, p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(MeResponse{User: u, Roles: roles, Permissions: codes})
}

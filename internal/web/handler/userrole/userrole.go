// Package userrole provides the user role assignment endpoints.
package userrole

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/web/handler"
)

const (
	// Path is the base path for user role edges.
	Path = handler.APIPath + "/user_role"
	// RouteItem addresses one edge.
	RouteItem = Path + "/:" + handler.ParamID
	// RouteRemoveRole removes an edge addressed by user and role.
	RouteRemoveRole = Path + "/remove_role"

	// QueryUser filters the list by user id.
	QueryUser = "user"

	// DetailAssigned answers a new assignment.
	DetailAssigned = "role assigned"
	// DetailExists answers an assignment the user already had.
	DetailExists = "assignment already exists"
	// DetailRemoved answers a removal.
	DetailRemoved = "role removed"
)

// Service serves user role edges.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type edgeInput struct {
	User string `json:"user" validate:"required,uuid"`
	Role string `json:"role" validate:"required,uuid"`
}

type edgePatch struct {
	Role string `json:"role" validate:"required,uuid"`
}

// DetailResponse carries a human-readable outcome.
type DetailResponse struct {
	Detail string    `json:"detail"`
	ID     uuid.UUID `json:"id,omitzero"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) {
	if router == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps

	router.Get(Path, deps.Require(auth.ResourceUserRole, auth.OpList), s.List)
	router.Post(Path, deps.Require(auth.ResourceUserRole, auth.OpCreate), s.Create)
	router.Post(RouteRemoveRole, deps.Require(auth.ResourceUserRole, auth.OpDestroy), s.RemoveRole)
	router.Get(RouteItem, deps.Require(auth.ResourceUserRole, auth.OpRetrieve), s.Retrieve)
	router.Patch(RouteItem, deps.Require(auth.ResourceUserRole, auth.OpUpdate), s.Update)
	router.Put(RouteItem, deps.Require(auth.ResourceUserRole, auth.OpUpdate), s.Update)
	router.Delete(RouteItem, deps.Require(auth.ResourceUserRole, auth.OpDestroy), s.Destroy)
}

// List returns all edges, or those of ?user=<id>.
func (s *Service) List(c *fiber.Ctx) error {
	var userID *uuid.UUID

	if raw := c.Query(QueryUser); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		userID = &id
	}

	edges, err := s.deps.RBAC.ListUserRoles(c.UserContext(), userID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(edges)
}

// Create assigns a role to a user. It answers 201 for a new edge and 200 when the edge existed.
func (s *Service) Create(c *fiber.Ctx) error {
	var in edgeInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	edge, created, err := s.deps.RBAC.AssignRoleToUser(c.UserContext(), auth.PrincipalFromCtx(c),
		uuid.MustParse(in.User), uuid.MustParse(in.Role))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !created {
		return c.JSON(DetailResponse{Detail: DetailExists, ID: edge.ID})
	}

	return c.Status(fiber.StatusCreated).JSON(DetailResponse{Detail: DetailAssigned, ID: edge.ID})
}

// RemoveRole removes the edge between the given user and role.
func (s *Service) RemoveRole(c *fiber.Ctx) error {
	var in edgeInput
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.RBAC.RemoveRoleFromUser(c.UserContext(), auth.PrincipalFromCtx(c),
		uuid.MustParse(in.User), uuid.MustParse(in.Role)); err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(DetailResponse{Detail: DetailRemoved})
}

// Retrieve returns one edge.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	edge, err := s.deps.RBAC.GetUserRole(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(edge)
}

// Update moves an edge to another role.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in edgePatch
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	edge, err := s.deps.RBAC.UpdateUserRole(c.UserContext(), auth.PrincipalFromCtx(c), id, uuid.MustParse(in.Role))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(edge)
}

// Destroy deletes an edge by id.
func (s *Service) Destroy(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.RBAC.DeleteUserRole(c.UserContext(), auth.PrincipalFromCtx(c), id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

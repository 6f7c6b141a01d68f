// Package auditlog provides the read-only audit trail endpoints. Only superusers may read it.
package auditlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/web/handler"
)

const (
	// Path is the base path for audit records.
	Path = handler.APIPath + "/audit-logs"
	// RouteItem addresses one record.
	RouteItem = Path + "/:" + handler.ParamID

	// QueryModelName filters by model name.
	QueryModelName = "model_name"
	// QueryAction filters by action.
	QueryAction = "action"
	// QueryUser filters by actor id.
	QueryUser = "user"
	// QueryObjectID filters by object id.
	QueryObjectID = "object_id"
	// QuerySince keeps records at or after an RFC 3339 time.
	QuerySince = "since"
	// QueryUntil keeps records before an RFC 3339 time.
	QueryUntil = "until"
	// QueryPage is the 1-based page index.
	QueryPage = "page"
	// QueryPageSize is the page size.
	QueryPageSize = "page_size"
)

// Service serves the audit trail.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) {
	if router == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.deps = deps

	router.Get(Path, auth.RequireSuperuser(), s.List)
	router.Get(RouteItem, auth.RequireSuperuser(), s.Retrieve)
}

// List returns one page of records, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	f, err := filter(c)
	if err != nil {
		return err
	}

	page, err := s.deps.Audit.List(c.UserContext(), f)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(page)
}

// Retrieve returns one record.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	v, err := s.deps.Audit.Get(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(v)
}

func filter(c *fiber.Ctx) (audit.Filter, error) {
	f := audit.Filter{
		ModelName: c.Query(QueryModelName),
		Action:    c.Query(QueryAction),
		ObjectID:  c.Query(QueryObjectID),
		Page:      c.QueryInt(QueryPage, 1),
		PageSize:  c.QueryInt(QueryPageSize, audit.DefaultPageSize),
	}

	if raw := c.Query(QueryUser); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return audit.Filter{}, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		f.UserID = &id
	}

	var err error

	if f.Since, err = timeParam(c, QuerySince); err != nil {
		return audit.Filter{}, err
	}

	if f.Until, err = timeParam(c, QueryUntil); err != nil {
		return audit.Filter{}, err
	}

	return f, nil
}

func timeParam(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+key+", want RFC 3339")
	}

	t = t.UTC()

	return &t, nil
}

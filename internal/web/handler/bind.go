package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/authcore/authcore/internal/rbac"
)

var validate = validator.New() //nolint:gochecknoglobals

// Bind parses the JSON body into out and validates it.
func Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MsgMalformedBody)
	}

	return validate.Struct(out) //nolint:wrapcheck
}

// ID parses the :id route parameter. A malformed id is a validation error on field "id".
func ID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(ParamID))
	if err != nil {
		return uuid.Nil, &rbac.ValidationError{Field: ParamID, Message: MsgInvalidID}
	}

	return id, nil
}

// UUIDs parses ids already checked by the uuid validator.
func UUIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		out = append(out, uuid.MustParse(s))
	}

	return out
}

// fieldErrors flattens validator errors to field -> failed tag.
func fieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}

	return out, true
}

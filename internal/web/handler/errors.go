package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/rbac"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error      string            `json:"error"`
	Field      string            `json:"field,omitempty"`
	InvalidIDs []uuid.UUID       `json:"invalid_ids,omitempty"`
	Message    string            `json:"message,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// ErrorHandler maps service errors to HTTP responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		verr *rbac.ValidationError
		ferr *fiber.Error
	)

	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
			Error:      MsgValidation,
			Field:      verr.Field,
			InvalidIDs: verr.InvalidIDs,
			Message:    verr.Message,
		})
	}

	if fields, ok := fieldErrors(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: MsgValidation, Fields: fields})
	}

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Error: MsgUnauthenticated})
	case errors.Is(err, auth.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(ErrorBody{Error: MsgForbidden})
	case errors.Is(err, controller.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorBody{Error: MsgNotFound})
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(ErrorBody{Error: ferr.Message})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: MsgInternal})
}

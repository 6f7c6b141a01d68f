package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/rbac"
)

type payload struct {
	IDs []string `json:"ids" validate:"required,dive,uuid"`
}

func TestErrorHandler(t *testing.T) {
	badID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorBody
	}{
		{
			name:       "unauthenticated",
			err:        auth.ErrUnauthenticated,
			wantStatus: fiber.StatusUnauthorized,
			wantBody:   ErrorBody{Error: MsgUnauthenticated},
		},
		{
			name:       "forbidden",
			err:        fmt.Errorf("check: %w", auth.ErrForbidden),
			wantStatus: fiber.StatusForbidden,
			wantBody:   ErrorBody{Error: MsgForbidden},
		},
		{
			name:       "not found",
			err:        rbac.ErrRoleNotFound,
			wantStatus: fiber.StatusNotFound,
			wantBody:   ErrorBody{Error: MsgNotFound},
		},
		{
			name:       "validation",
			err:        &rbac.ValidationError{Field: "permissions", Message: "unknown permission ids", InvalidIDs: []uuid.UUID{badID}},
			wantStatus: fiber.StatusBadRequest,
			wantBody: ErrorBody{
				Error:      MsgValidation,
				Field:      "permissions",
				Message:    "unknown permission ids",
				InvalidIDs: []uuid.UUID{badID},
			},
		},
		{
			name:       "fiber error",
			err:        fiber.NewError(fiber.StatusBadRequest, MsgMalformedBody),
			wantStatus: fiber.StatusBadRequest,
			wantBody:   ErrorBody{Error: MsgMalformedBody},
		},
		{
			name:       "storage failure",
			err:        errors.New("database is locked"),
			wantStatus: fiber.StatusInternalServerError,
			wantBody:   ErrorBody{Error: MsgInternal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(_ *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body ErrorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestBindAndID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/:id", func(c *fiber.Ctx) error {
		if _, err := ID(c); err != nil {
			return err
		}

		var in payload
		if err := Bind(c, &in); err != nil {
			return err
		}

		return c.JSON(UUIDs(in.IDs))
	})

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "ok", path: "/" + uuid.NewString(), body: `{"ids":["` + uuid.NewString() + `"]}`, wantStatus: fiber.StatusOK},
		{name: "empty list", path: "/" + uuid.NewString(), body: `{"ids":[]}`, wantStatus: fiber.StatusOK},
		{name: "bad path id", path: "/x", body: `{"ids":[]}`, wantStatus: fiber.StatusBadRequest},
		{name: "missing field", path: "/" + uuid.NewString(), body: `{}`, wantStatus: fiber.StatusBadRequest},
		{name: "bad element", path: "/" + uuid.NewString(), body: `{"ids":["x"]}`, wantStatus: fiber.StatusBadRequest},
		{name: "malformed", path: "/" + uuid.NewString(), body: `{"ids":`, wantStatus: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

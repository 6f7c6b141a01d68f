package rbac

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller/role"
	"github.com/authcore/authcore/internal/db/controller/rolepermission"
	"github.com/authcore/authcore/internal/db/controller/userrole"
	"github.com/authcore/authcore/internal/db/models"
)

const roleNameTaken = "role with this name already exists"

// RoleInput creates a role.
type RoleInput struct {
	Name        string
	Description string
}

// RolePatch updates the non-nil fields of a role.
type RolePatch struct {
	Name        *string
	Description *string
}

// CreateRole creates a role and records {"name": name}.
func (s *Service) CreateRole(ctx context.Context, actor *auth.Principal, in RoleInput) (*models.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "this field may not be blank")
	}

	r := models.Role{Name: name, Description: in.Description}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		taken, err := role.NameTaken(tx, name, uuid.Nil)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if taken {
			return invalid("name", roleNameTaken)
		}

		if err := tx.Create(&r).Error; err != nil {
			return duplicate(err, "name", roleNameTaken)
		}

		return s.record(tx, actor, audit.ModelRole, r.ID.String(), audit.ActionCreate,
			map[string]any{"name": r.Name})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("role_id", r.ID.String()).Str("name", r.Name).Msg("role created")

	return &r, nil
}

// UpdateRole applies patch and records the diff of the patched fields.
func (s *Service) UpdateRole(ctx context.Context, actor *auth.Principal, id uuid.UUID, patch RolePatch) (*models.Role, error) {
	var r *models.Role

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error

		r, err = role.Get(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		before, after := map[string]any{}, map[string]any{}
		updates := map[string]any{}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return invalid("name", "this field may not be blank")
			}

			taken, err := role.NameTaken(tx, name, id)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if taken {
				return invalid("name", roleNameTaken)
			}

			before["name"], after["name"], updates["name"] = r.Name, name, name
			r.Name = name
		}

		if patch.Description != nil {
			before["description"], after["description"] = r.Description, *patch.Description
			updates["description"] = *patch.Description
			r.Description = *patch.Description
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Role{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return duplicate(err, "name", roleNameTaken)
			}
		}

		return s.record(tx, actor, audit.ModelRole, id.String(), audit.ActionUpdate, audit.Diff(before, after))
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// DeleteRole deletes the role with all its edges and records one delete snapshot.
func (s *Service) DeleteRole(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	var holders []uuid.UUID

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		r, err := role.Get(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if holders, err = userrole.UserIDsByRole(tx, id); err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := rolepermission.DeleteByRole(tx, id); err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := userrole.DeleteByRole(tx, id); err != nil {
			return err //nolint:wrapcheck
		}

		if err := tx.Delete(&models.Role{}, "id = ?", id).Error; err != nil {
			return err //nolint:wrapcheck
		}

		return s.record(tx, actor, audit.ModelRole, id.String(), audit.ActionDelete, audit.Snapshot(id, r.String()))
	})
	if err != nil {
		return err
	}

	s.invalidator.InvalidateUsers(ctx, holders...)

	log.Info().Str("role_id", id.String()).Int("holders", len(holders)).Msg("role deleted")

	return nil
}

// ListRoles returns every role.
func (s *Service) ListRoles(ctx context.Context) ([]models.Role, error) {
	return role.List(s.db.WithContext(ctx)) //nolint:wrapcheck
}

// GetRole returns one role.
func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	return role.Get(s.db.WithContext(ctx), id) //nolint:wrapcheck
}

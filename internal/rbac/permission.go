package rbac

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller/permission"
	"github.com/authcore/authcore/internal/db/controller/rolepermission"
	"github.com/authcore/authcore/internal/db/models"
)

const permissionNameTaken = "permission with this name already exists"

// PermissionInput creates a permission.
type PermissionInput struct {
	Name        string
	Description string
}

// PermissionPatch updates the non-nil fields of a permission.
type PermissionPatch struct {
	Name        *string
	Description *string
}

// CreatePermission creates a permission and records {"name": name}.
func (s *Service) CreatePermission(ctx context.Context, actor *auth.Principal, in PermissionInput) (*models.Permission, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "this field may not be blank")
	}

	p := models.Permission{Name: name, Description: in.Description}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		taken, err := permission.NameTaken(tx, name, uuid.Nil)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if taken {
			return invalid("name", permissionNameTaken)
		}

		if err := tx.Create(&p).Error; err != nil {
			return duplicate(err, "name", permissionNameTaken)
		}

		return s.record(tx, actor, audit.ModelPermission, p.ID.String(), audit.ActionCreate,
			map[string]any{"name": p.Name})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("permission", p.Name).Msg("permission created")

	return &p, nil
}

// UpdatePermission applies patch and records the diff of the patched fields.
// The name of a permission held by any role can not change.
func (s *Service) UpdatePermission(
	ctx context.Context, actor *auth.Principal, id uuid.UUID, patch PermissionPatch,
) (*models.Permission, error) {
	var p *models.Permission

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error

		p, err = permission.Get(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		before, after := map[string]any{}, map[string]any{}
		updates := map[string]any{}

		if patch.Name != nil && strings.TrimSpace(*patch.Name) != p.Name {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return invalid("name", "this field may not be blank")
			}

			referenced, err := permission.Referenced(tx, id)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if referenced {
				return invalid("name", "name can not change while the permission is assigned to a role")
			}

			taken, err := permission.NameTaken(tx, name, id)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if taken {
				return invalid("name", permissionNameTaken)
			}

			before["name"], after["name"], updates["name"] = p.Name, name, name
			p.Name = name
		}

		if patch.Description != nil {
			before["description"], after["description"] = p.Description, *patch.Description
			updates["description"] = *patch.Description
			p.Description = *patch.Description
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Permission{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return duplicate(err, "name", permissionNameTaken)
			}
		}

		return s.record(tx, actor, audit.ModelPermission, id.String(), audit.ActionUpdate, audit.Diff(before, after))
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// DeletePermission deletes the permission with all its edges and records one delete snapshot.
func (s *Service) DeletePermission(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	var edges int64

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		p, err := permission.Get(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if edges, err = rolepermission.DeleteByPermission(tx, id); err != nil {
			return err //nolint:wrapcheck
		}

		if err := tx.Delete(&models.Permission{}, "id = ?", id).Error; err != nil {
			return err //nolint:wrapcheck
		}

		return s.record(tx, actor, audit.ModelPermission, id.String(), audit.ActionDelete, audit.Snapshot(id, p.String()))
	})
	if err != nil {
		return err
	}

	if edges > 0 {
		s.invalidator.InvalidateAll(ctx)
	}

	log.Info().Str("permission_id", id.String()).Int64("edges", edges).Msg("permission deleted")

	return nil
}

// ListPermissions returns every permission.
func (s *Service) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	return permission.List(s.db.WithContext(ctx)) //nolint:wrapcheck
}

// GetPermission returns one permission.
func (s *Service) GetPermission(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	return permission.Get(s.db.WithContext(ctx), id) //nolint:wrapcheck
}

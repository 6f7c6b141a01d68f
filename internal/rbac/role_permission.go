package rbac

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller/permission"
	"github.com/authcore/authcore/internal/db/controller/role"
	"github.com/authcore/authcore/internal/db/controller/rolepermission"
	"github.com/authcore/authcore/internal/db/controller/userrole"
	"github.com/authcore/authcore/internal/db/models"
)

// AssignResult splits the requested permissions into newly granted and already held.
type AssignResult struct {
	Created  []uuid.UUID `json:"created"`
	Existing []uuid.UUID `json:"existing"`
}

func edgeChanges(roleID, permissionID uuid.UUID) map[string]any {
	return map[string]any{"role": roleID.String(), "permission": permissionID.String()}
}

// AssignPermissionsToRole grants every permission in permissionIDs to the role.
// Duplicate ids are ignored. Unknown ids reject the whole batch. Held permissions are left alone.
// One audit record is written per created edge.
func (s *Service) AssignPermissionsToRole(
	ctx context.Context, actor *auth.Principal, roleID uuid.UUID, permissionIDs []uuid.UUID,
) (AssignResult, error) {
	ids := dedupe(permissionIDs)
	result := AssignResult{Created: []uuid.UUID{}, Existing: []uuid.UUID{}}

	var holders []uuid.UUID

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := role.Get(tx, roleID); err != nil {
			return err //nolint:wrapcheck
		}

		missing, err := permission.Missing(tx, ids)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if len(missing) > 0 {
			return invalid("permissions", "unknown permission ids", missing...)
		}

		for _, id := range ids {
			edge, created, err := rolepermission.Ensure(tx, roleID, id)
			if err != nil {
				return fmt.Errorf("grant %s: %w", id, err)
			}

			if !created {
				result.Existing = append(result.Existing, id)

				continue
			}

			if err := s.record(tx, actor, audit.ModelRolePermission, edge.ID.String(),
				audit.ActionCreate, edgeChanges(roleID, id)); err != nil {
				return err
			}

			result.Created = append(result.Created, id)
		}

		if len(result.Created) > 0 {
			holders, err = userrole.UserIDsByRole(tx, roleID)
		}

		return err //nolint:wrapcheck
	})
	if err != nil {
		return AssignResult{}, err
	}

	s.invalidator.InvalidateUsers(ctx, holders...)

	log.Info().Str("role_id", roleID.String()).Int("created", len(result.Created)).
		Int("existing", len(result.Existing)).Msg("permissions assigned to role")

	return result, nil
}

// RemovePermissionsFromRole revokes the given permissions from the role and returns the revoked ids.
// Unknown ids reject the whole batch. Permissions the role does not hold are skipped.
// One audit record is written per removed edge.
func (s *Service) RemovePermissionsFromRole(
	ctx context.Context, actor *auth.Principal, roleID uuid.UUID, permissionIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	ids := dedupe(permissionIDs)
	removedIDs := []uuid.UUID{}

	var holders []uuid.UUID

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := role.Get(tx, roleID); err != nil {
			return err //nolint:wrapcheck
		}

		if len(ids) == 0 {
			return nil
		}

		missing, err := permission.Missing(tx, ids)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if len(missing) > 0 {
			return invalid("permissions", "unknown permission ids", missing...)
		}

		removed, err := rolepermission.Delete(tx, roleID, ids)
		if err != nil {
			return fmt.Errorf("revoke permissions: %w", err)
		}

		for _, edge := range removed {
			if err := s.record(tx, actor, audit.ModelRolePermission, edge.ID.String(),
				audit.ActionDelete, edgeChanges(edge.RoleID, edge.PermissionID)); err != nil {
				return err
			}

			removedIDs = append(removedIDs, edge.PermissionID)
		}

		if len(removed) > 0 {
			holders, err = userrole.UserIDsByRole(tx, roleID)
		}

		return err //nolint:wrapcheck
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUsers(ctx, holders...)

	log.Info().Str("role_id", roleID.String()).Int("removed", len(removedIDs)).
		Msg("permissions removed from role")

	return removedIDs, nil
}

// RolePermissions lists the permissions held by an existing role.
func (s *Service) RolePermissions(ctx context.Context, roleID uuid.UUID) ([]models.Permission, error) {
	db := s.db.WithContext(ctx)

	if _, err := role.Get(db, roleID); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return role.Permissions(db, roleID) //nolint:wrapcheck
}

package rbac

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/controller/role"
	"github.com/authcore/authcore/internal/db/controller/user"
	"github.com/authcore/authcore/internal/db/controller/userrole"
	"github.com/authcore/authcore/internal/db/models"
)

func userRoleChanges(userID, roleID uuid.UUID) map[string]any {
	return map[string]any{"user": userID.String(), "role": roleID.String()}
}

// checkRefs turns unknown user or role ids of a payload into validation errors.
func checkRefs(tx *gorm.DB, userID, roleID uuid.UUID) error {
	if _, err := user.Get(tx, userID); err != nil {
		if errors.Is(err, controller.ErrNotFound) {
			return invalid("user", "unknown user id", userID)
		}

		return err //nolint:wrapcheck
	}

	if _, err := role.Get(tx, roleID); err != nil {
		if errors.Is(err, controller.ErrNotFound) {
			return invalid("role", "unknown role id", roleID)
		}

		return err //nolint:wrapcheck
	}

	return nil
}

// AssignRoleToUser gives the user the role. created is false when the user already held it.
func (s *Service) AssignRoleToUser(
	ctx context.Context, actor *auth.Principal, userID, roleID uuid.UUID,
) (models.UserRole, bool, error) {
	var (
		edge    models.UserRole
		created bool
	)

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := checkRefs(tx, userID, roleID); err != nil {
			return err
		}

		var err error

		edge, created, err = userrole.Ensure(tx, userID, roleID)
		if err != nil || !created {
			return err //nolint:wrapcheck
		}

		return s.record(tx, actor, audit.ModelUserRole, edge.ID.String(), audit.ActionCreate,
			userRoleChanges(userID, roleID))
	})
	if err != nil {
		return models.UserRole{}, false, err
	}

	if created {
		s.invalidator.InvalidateUsers(ctx, userID)
		log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).Msg("role assigned to user")
	}

	return edge, created, nil
}

// RemoveRoleFromUser takes the role from the user. It returns ErrUserRoleNotFound when the user does not hold it.
func (s *Service) RemoveRoleFromUser(ctx context.Context, actor *auth.Principal, userID, roleID uuid.UUID) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		edge, err := userrole.Delete(tx, userID, roleID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return s.record(tx, actor, audit.ModelUserRole, edge.ID.String(), audit.ActionDelete,
			userRoleChanges(userID, roleID))
	})
	if err != nil {
		return err
	}

	s.invalidator.InvalidateUsers(ctx, userID)
	log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).Msg("role removed from user")

	return nil
}

// DeleteUserRole removes an edge by its own id.
func (s *Service) DeleteUserRole(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	edge, err := userrole.GetByID(s.db.WithContext(ctx), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.RemoveRoleFromUser(ctx, actor, edge.UserID, edge.RoleID)
}

// UpdateUserRole moves an edge to another role and records the diff.
func (s *Service) UpdateUserRole(ctx context.Context, actor *auth.Principal, id, roleID uuid.UUID) (*models.UserRole, error) {
	var edge *models.UserRole

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error

		edge, err = userrole.GetByID(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if edge.RoleID == roleID {
			return s.record(tx, actor, audit.ModelUserRole, id.String(), audit.ActionUpdate, map[string]any{})
		}

		if err := checkRefs(tx, edge.UserID, roleID); err != nil {
			return err
		}

		if _, err := userrole.Get(tx, edge.UserID, roleID); err == nil {
			return invalid("role", "user already holds this role", roleID)
		} else if !errors.Is(err, controller.ErrNotFound) {
			return err //nolint:wrapcheck
		}

		changes := audit.Diff(
			map[string]any{"role": edge.RoleID.String()},
			map[string]any{"role": roleID.String()},
		)

		if err := tx.Model(&models.UserRole{}).Where("id = ?", id).Update("role_id", roleID).Error; err != nil {
			return duplicate(err, "role", "user already holds this role")
		}

		edge.RoleID = roleID

		return s.record(tx, actor, audit.ModelUserRole, id.String(), audit.ActionUpdate, changes)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUsers(ctx, edge.UserID)

	return edge, nil
}

// ListUserRoles returns all edges, or those of one user.
func (s *Service) ListUserRoles(ctx context.Context, userID *uuid.UUID) ([]models.UserRole, error) {
	return userrole.List(s.db.WithContext(ctx), userID) //nolint:wrapcheck
}

// GetUserRole returns one edge.
func (s *Service) GetUserRole(ctx context.Context, id uuid.UUID) (*models.UserRole, error) {
	return userrole.GetByID(s.db.WithContext(ctx), id) //nolint:wrapcheck
}

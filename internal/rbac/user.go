package rbac

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller/user"
	"github.com/authcore/authcore/internal/db/controller/userrole"
	"github.com/authcore/authcore/internal/db/models"
)

const emailTaken = "user with this email already exists"

// UserInput creates a user.
type UserInput struct {
	Email       string
	FirstName   string
	LastName    string
	IsActive    bool
	IsSuperuser bool
}

// UserPatch updates the non-nil fields of a user.
type UserPatch struct {
	Email       *string
	FirstName   *string
	LastName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// CreateUser creates a user and records {"email": email}.
func (s *Service) CreateUser(ctx context.Context, actor *auth.Principal, in UserInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, invalid("email", "this field may not be blank")
	}

	u := models.User{
		Email:       email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    in.IsActive,
		IsSuperuser: in.IsSuperuser,
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		taken, err := user.EmailTaken(tx, email, uuid.Nil)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if taken {
			return invalid("email", emailTaken)
		}

		if err := tx.Create(&u).Error; err != nil {
			return duplicate(err, "email", emailTaken)
		}

		return s.record(tx, actor, audit.ModelUser, u.ID.String(), audit.ActionCreate,
			map[string]any{"email": u.Email})
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("user created")

	return &u, nil
}

// UpdateUser applies patch and records the diff of the patched fields.
func (s *Service) UpdateUser(ctx context.Context, actor *auth.Principal, id uuid.UUID, patch UserPatch) (*models.User, error) {
	var u *models.User

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error

		u, err = user.Get(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		before, after := map[string]any{}, map[string]any{}
		updates := map[string]any{}

		set := func(field string, old, updated any) {
			before[field], after[field], updates[field] = old, updated, updated
		}

		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			if email == "" {
				return invalid("email", "this field may not be blank")
			}

			taken, err := user.EmailTaken(tx, email, id)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if taken {
				return invalid("email", emailTaken)
			}

			set("email", u.Email, email)
			u.Email = email
		}

		if patch.FirstName != nil {
			set("first_name", u.FirstName, *patch.FirstName)
			u.FirstName = *patch.FirstName
		}

		if patch.LastName != nil {
			set("last_name", u.LastName, *patch.LastName)
			u.LastName = *patch.LastName
		}

		if patch.IsActive != nil {
			set("is_active", u.IsActive, *patch.IsActive)
			u.IsActive = *patch.IsActive
		}

		if patch.IsSuperuser != nil {
			set("is_superuser", u.IsSuperuser, *patch.IsSuperuser)
			u.IsSuperuser = *patch.IsSuperuser
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return duplicate(err, "email", emailTaken)
			}
		}

		return s.record(tx, actor, audit.ModelUser, id.String(), audit.ActionUpdate, audit.Diff(before, after))
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUsers(ctx, id)

	return u, nil
}

// DeleteUser deletes the user with its role edges and records one delete snapshot.
// Audit records the user acted in are kept.
func (s *Service) DeleteUser(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		u, err := user.Get(tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := userrole.DeleteByUser(tx, id); err != nil {
			return err //nolint:wrapcheck
		}

		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return err //nolint:wrapcheck
		}

		return s.record(tx, actor, audit.ModelUser, id.String(), audit.ActionDelete, audit.Snapshot(id, u.String()))
	})
	if err != nil {
		return err
	}

	s.invalidator.InvalidateUsers(ctx, id)

	log.Info().Str("user_id", id.String()).Msg("user deleted")

	return nil
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return user.List(s.db.WithContext(ctx)) //nolint:wrapcheck
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return user.Get(s.db.WithContext(ctx), id) //nolint:wrapcheck
}

// UserRoles lists the roles held by an existing user.
func (s *Service) UserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	db := s.db.WithContext(ctx)

	if _, err := user.Get(db, userID); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return user.Roles(db, userID) //nolint:wrapcheck
}

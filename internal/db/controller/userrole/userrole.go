// Package userrole manages the user to role edges.
package userrole

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/models"
)

// ErrUserRoleNotFound is returned when the user does not hold the role.
var ErrUserRoleNotFound = fmt.Errorf("user role %w", controller.ErrNotFound)

// Ensure creates the edge unless it exists. created is false when the edge was already there.
func Ensure(db *gorm.DB, userID, roleID uuid.UUID) (models.UserRole, bool, error) {
	if db == nil {
		return models.UserRole{}, false, controller.ErrDBNil
	}

	edge := models.UserRole{UserID: userID, RoleID: roleID}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&edge)
	if res.Error != nil {
		return models.UserRole{}, false, res.Error
	}

	if res.RowsAffected == 1 {
		return edge, true, nil
	}

	// a locking read sees the latest committed row, a plain read may use an older snapshot
	var existing models.UserRole
	if err := lockedLookup(db, userID, roleID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserRole{}, false, ErrUserRoleNotFound
		}

		return models.UserRole{}, false, err
	}

	return existing, false, nil
}

func lockedLookup(db *gorm.DB, userID, roleID uuid.UUID) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("user_id = ? AND role_id = ?", userID, roleID)
}

// Get retrieves the edge between user and role.
func Get(db *gorm.DB, userID, roleID uuid.UUID) (*models.UserRole, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var edge models.UserRole
	if err := db.Where("user_id = ? AND role_id = ?", userID, roleID).First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserRoleNotFound
		}

		return nil, err
	}

	return &edge, nil
}

// GetByID retrieves an edge by its own ID.
func GetByID(db *gorm.DB, id uuid.UUID) (*models.UserRole, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var edge models.UserRole
	if err := db.First(&edge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserRoleNotFound
		}

		return nil, err
	}

	return &edge, nil
}

// List returns all edges, optionally limited to one user.
func List(db *gorm.DB, userID *uuid.UUID) ([]models.UserRole, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	q := db.Model(&models.UserRole{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var edges []models.UserRole
	if err := q.Order("user_id, role_id").Find(&edges).Error; err != nil {
		return nil, err
	}

	return edges, nil
}

// Delete removes the edge and returns it. It returns ErrUserRoleNotFound when there was none.
func Delete(db *gorm.DB, userID, roleID uuid.UUID) (*models.UserRole, error) {
	edge, err := Get(db, userID, roleID)
	if err != nil {
		return nil, err
	}

	res := db.Where("id = ?", edge.ID).Delete(&models.UserRole{})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, ErrUserRoleNotFound
	}

	return edge, nil
}

// UserIDsByRole returns the users holding the role.
func UserIDsByRole(db *gorm.DB, roleID uuid.UUID) ([]uuid.UUID, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var ids []uuid.UUID
	err := db.Model(&models.UserRole{}).Where("role_id = ?", roleID).Pluck("user_id", &ids).Error

	return ids, err
}

// DeleteByRole removes every edge of a role.
func DeleteByRole(db *gorm.DB, roleID uuid.UUID) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	res := db.Where("role_id = ?", roleID).Delete(&models.UserRole{})

	return res.RowsAffected, res.Error
}

// DeleteByUser removes every edge of a user.
func DeleteByUser(db *gorm.DB, userID uuid.UUID) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	res := db.Where("user_id = ?", userID).Delete(&models.UserRole{})

	return res.RowsAffected, res.Error
}

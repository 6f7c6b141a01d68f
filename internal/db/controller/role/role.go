// Package role provides store operations for roles.
package role

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/models"
)

// ErrRoleNotFound is returned when a role id or name does not exist.
var ErrRoleNotFound = fmt.Errorf("role %w", controller.ErrNotFound)

// Get retrieves a role by its ID.
func Get(db *gorm.DB, id uuid.UUID) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var role models.Role
	if err := db.First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, err
	}

	return &role, nil
}

// GetByName retrieves a role by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, err
	}

	return &role, nil
}

// NameTaken reports whether another role than exclude already uses name.
func NameTaken(db *gorm.DB, name string, exclude uuid.UUID) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var count int64

	err := db.Model(&models.Role{}).
		Where("name = ? AND id <> ?", name, exclude).
		Count(&count).Error

	return count > 0, err
}

// List returns all roles ordered by name.
func List(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var roles []models.Role
	if err := db.Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Permissions returns the permissions granted to the role, ordered by name.
func Permissions(db *gorm.DB, roleID uuid.UUID) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var perms []models.Permission

	err := db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name").
		Find(&perms).Error
	if err != nil {
		return nil, err
	}

	return perms, nil
}

// Package user provides store operations for users.
package user

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/models"
)

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = fmt.Errorf("user %w", controller.ErrNotFound)

// Get retrieves a user by its ID.
func Get(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// EmailTaken reports whether another user than exclude already uses email.
func EmailTaken(db *gorm.DB, email string, exclude uuid.UUID) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var count int64

	err := db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exclude).
		Count(&count).Error

	return count > 0, err
}

// List returns all users ordered by email.
func List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var users []models.User
	if err := db.Order("email").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Roles returns the roles held by the user, ordered by name.
func Roles(db *gorm.DB, userID uuid.UUID) ([]models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var roles []models.Role

	err := db.Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}

	return roles, nil
}

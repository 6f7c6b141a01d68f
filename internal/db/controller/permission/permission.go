// Package permission provides store operations for permissions.
package permission

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/models"
)

// ErrPermissionNotFound is returned when a permission id or name does not exist.
var ErrPermissionNotFound = fmt.Errorf("permission %w", controller.ErrNotFound)

// Get retrieves a permission by its ID.
func Get(db *gorm.DB, id uuid.UUID) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var perm models.Permission
	if err := db.First(&perm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}

		return nil, err
	}

	return &perm, nil
}

// GetByName retrieves a permission by its code.
func GetByName(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var perm models.Permission
	if err := db.Where("name = ?", name).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}

		return nil, err
	}

	return &perm, nil
}

// NameTaken reports whether another permission than exclude already uses name.
func NameTaken(db *gorm.DB, name string, exclude uuid.UUID) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var count int64

	err := db.Model(&models.Permission{}).
		Where("name = ? AND id <> ?", name, exclude).
		Count(&count).Error

	return count > 0, err
}

// List returns all permissions ordered by name.
func List(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var perms []models.Permission
	if err := db.Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// Names returns every permission code.
func Names(db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var names []string
	if err := db.Model(&models.Permission{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}

	return names, nil
}

// Missing returns the ids from ids that are not stored as permissions, in input order.
func Missing(db *gorm.DB, ids []uuid.UUID) ([]uuid.UUID, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var found []uuid.UUID
	if err := db.Model(&models.Permission{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var missing []uuid.UUID

	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing, nil
}

// Referenced reports whether any role holds the permission.
func Referenced(db *gorm.DB, id uuid.UUID) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var count int64
	err := db.Model(&models.RolePermission{}).Where("permission_id = ?", id).Count(&count).Error

	return count > 0, err
}

// Ensure returns the permission named name, creating it with description if absent.
func Ensure(db *gorm.DB, name, description string) (*models.Permission, bool, error) {
	if db == nil {
		return nil, false, controller.ErrDBNil
	}

	perm := models.Permission{}

	res := db.Where(models.Permission{Name: name}).
		Attrs(models.Permission{Description: description}).
		FirstOrCreate(&perm)
	if res.Error != nil {
		return nil, false, res.Error
	}

	return &perm, res.RowsAffected > 0, nil
}

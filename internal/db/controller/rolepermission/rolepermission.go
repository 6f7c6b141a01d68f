// Package rolepermission manages the role to permission edges.
package rolepermission

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/models"
)

// Ensure creates the edge unless it exists. created is false when the edge was already there,
// including when a concurrent transaction inserted it first. The existing edge is not read back,
// its ID is left zero: under a snapshot isolation level the committed row of a concurrent
// winner may not be visible to this transaction.
func Ensure(db *gorm.DB, roleID, permissionID uuid.UUID) (models.RolePermission, bool, error) {
	if db == nil {
		return models.RolePermission{}, false, controller.ErrDBNil
	}

	edge := models.RolePermission{RoleID: roleID, PermissionID: permissionID}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&edge)
	if res.Error != nil {
		return models.RolePermission{}, false, res.Error
	}

	if res.RowsAffected == 1 {
		return edge, true, nil
	}

	return models.RolePermission{RoleID: roleID, PermissionID: permissionID}, false, nil
}

// Delete removes the role's edges to the given permissions and returns the removed edges.
// Edges that are absent, or removed concurrently, are not reported.
func Delete(db *gorm.DB, roleID uuid.UUID, permissionIDs []uuid.UUID) ([]models.RolePermission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if len(permissionIDs) == 0 {
		return nil, nil
	}

	var edges []models.RolePermission

	err := db.Where("role_id = ? AND permission_id IN ?", roleID, permissionIDs).
		Order("permission_id").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	removed := make([]models.RolePermission, 0, len(edges))

	for _, edge := range edges {
		res := db.Where("id = ?", edge.ID).Delete(&models.RolePermission{})
		if res.Error != nil {
			return nil, res.Error
		}

		if res.RowsAffected == 1 {
			removed = append(removed, edge)
		}
	}

	return removed, nil
}

// DeleteByRole removes every edge of a role and returns how many were removed.
func DeleteByRole(db *gorm.DB, roleID uuid.UUID) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	res := db.Where("role_id = ?", roleID).Delete(&models.RolePermission{})

	return res.RowsAffected, res.Error
}

// DeleteByPermission removes every edge of a permission and returns how many were removed.
func DeleteByPermission(db *gorm.DB, permissionID uuid.UUID) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	res := db.Where("permission_id = ?", permissionID).Delete(&models.RolePermission{})

	return res.RowsAffected, res.Error
}

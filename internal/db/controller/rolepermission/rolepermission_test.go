package rolepermission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/db/testdb"
)

func seed(t *testing.T, db *gorm.DB) (models.Role, []models.Permission) {
	t.Helper()

	role := models.Role{Name: "editor"}
	require.NoError(t, db.Create(&role).Error)

	perms := []models.Permission{{Name: "role.view"}, {Name: "role.change"}, {Name: "role.add"}}
	require.NoError(t, db.Create(&perms).Error)

	return role, perms
}

func count(t *testing.T, db *gorm.DB, roleID uuid.UUID) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.RolePermission{}).Where("role_id = ?", roleID).Count(&n).Error)

	return n
}

func TestEnsureIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	role, perms := seed(t, db)

	first, created, err := Ensure(db, role.ID, perms[0].ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := Ensure(db, role.ID, perms[0].ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uuid.Nil, second.ID, "existing edge is not read back")
	assert.Equal(t, role.ID, second.RoleID)
	assert.Equal(t, perms[0].ID, second.PermissionID)

	assert.EqualValues(t, 1, count(t, db, role.ID))

	var stored models.RolePermission
	require.NoError(t, db.First(&stored, "role_id = ?", role.ID).Error)
	assert.Equal(t, first.ID, stored.ID)
}

func TestEnsureInsideTransaction(t *testing.T) {
	db := testdb.New(t)
	role, perms := seed(t, db)

	_, _, err := Ensure(db, role.ID, perms[0].ID)
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, created, err := Ensure(tx, role.ID, perms[0].ID)
		if err != nil {
			return err
		}

		assert.False(t, created)

		_, created, err = Ensure(tx, role.ID, perms[1].ID)
		assert.True(t, created)

		return err
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count(t, db, role.ID))
}

func TestDelete(t *testing.T) {
	db := testdb.New(t)
	role, perms := seed(t, db)

	for _, p := range perms[:2] {
		_, _, err := Ensure(db, role.ID, p.ID)
		require.NoError(t, err)
	}

	testCases := []struct {
		name         string
		ids          []uuid.UUID
		expectedGone int
		expectedLeft int64
	}{
		{name: "empty list", ids: nil, expectedGone: 0, expectedLeft: 2},
		{name: "not held", ids: []uuid.UUID{perms[2].ID}, expectedGone: 0, expectedLeft: 2},
		{name: "one held", ids: []uuid.UUID{perms[0].ID, perms[2].ID}, expectedGone: 1, expectedLeft: 1},
		{name: "already removed", ids: []uuid.UUID{perms[0].ID}, expectedGone: 0, expectedLeft: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			removed, err := Delete(db, role.ID, tc.ids)
			require.NoError(t, err)
			assert.Len(t, removed, tc.expectedGone)
			assert.Equal(t, tc.expectedLeft, count(t, db, role.ID))
		})
	}
}

func TestDeleteByRoleAndPermission(t *testing.T) {
	db := testdb.New(t)
	role, perms := seed(t, db)

	for _, p := range perms {
		_, _, err := Ensure(db, role.ID, p.ID)
		require.NoError(t, err)
	}

	n, err := DeleteByPermission(db, perms[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = DeleteByRole(db, role.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

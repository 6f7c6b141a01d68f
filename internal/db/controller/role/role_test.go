package role

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/db/testdb"
)

func TestGet(t *testing.T) {
	db := testdb.New(t)

	admin := models.Role{Name: "admin", Description: "everything"}
	require.NoError(t, db.Create(&admin).Error)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            uuid.UUID
		expectedError error
		expectedName  string
	}{
		{
			name:          "nil database",
			id:            admin.ID,
			expectedError: controller.ErrDBNil,
		},
		{
			name:          "role not found",
			dbParam:       db,
			id:            uuid.New(),
			expectedError: ErrRoleNotFound,
		},
		{
			name:         "successful get",
			dbParam:      db,
			id:           admin.ID,
			expectedName: "admin",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := Get(tc.dbParam, tc.id)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, role)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, role.Name)
		})
	}
}

func TestNotFoundWrapsShared(t *testing.T) {
	db := testdb.New(t)

	_, err := GetByName(db, "ghost")
	require.ErrorIs(t, err, controller.ErrNotFound)
}

func TestListAndNameTaken(t *testing.T) {
	db := testdb.New(t)

	for _, name := range []string{"viewer", "admin", "editor"} {
		require.NoError(t, db.Create(&models.Role{Name: name}).Error)
	}

	roles, err := List(db)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, "viewer", roles[2].Name)

	taken, err := NameTaken(db, "admin", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = NameTaken(db, "admin", roles[0].ID)
	require.NoError(t, err)
	assert.False(t, taken, "a role does not conflict with itself")
}

func TestPermissions(t *testing.T) {
	db := testdb.New(t)

	role := models.Role{Name: "viewer"}
	other := models.Role{Name: "other"}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Create(&other).Error)

	view := models.Permission{Name: "role.view"}
	add := models.Permission{Name: "role.add"}
	require.NoError(t, db.Create(&view).Error)
	require.NoError(t, db.Create(&add).Error)

	require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: view.ID}).Error)
	require.NoError(t, db.Create(&models.RolePermission{RoleID: other.ID, PermissionID: add.ID}).Error)

	perms, err := Permissions(db, role.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "role.view", perms[0].Name)
}

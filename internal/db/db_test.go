package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/db/testdb"
)

func TestOpenUnsupportedEngine(t *testing.T) {
	_, err := db.Open(&config.DB{GormEngine: "oracle"})
	require.ErrorIs(t, err, config.ErrUnsupportedEngine)
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	gdb, err := db.Open(&config.DB{
		GormEngine: config.EngineSQLite,
		Path:       filepath.Join(t.TempDir(), "authcore.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, db.Migrate(gdb))
	// migrating twice is a no-op
	require.NoError(t, db.Migrate(gdb))

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}
}

func TestCascadeOnRoleDelete(t *testing.T) {
	gdb := testdb.New(t)

	perm := models.Permission{Name: "role.view"}
	role := models.Role{Name: "viewer"}
	user := models.User{Email: "a@example.com", IsActive: true}

	require.NoError(t, gdb.Create(&perm).Error)
	require.NoError(t, gdb.Create(&role).Error)
	require.NoError(t, gdb.Create(&user).Error)
	require.NoError(t, gdb.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	require.NoError(t, gdb.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)

	require.NoError(t, gdb.Delete(&role).Error)

	var edges int64

	require.NoError(t, gdb.Model(&models.RolePermission{}).Count(&edges).Error)
	assert.Zero(t, edges)

	require.NoError(t, gdb.Model(&models.UserRole{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestUniqueEdge(t *testing.T) {
	gdb := testdb.New(t)

	perm := models.Permission{Name: "role.view"}
	role := models.Role{Name: "viewer"}

	require.NoError(t, gdb.Create(&perm).Error)
	require.NoError(t, gdb.Create(&role).Error)
	require.NoError(t, gdb.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)

	err := gdb.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error
	require.Error(t, err)
}

func TestAuditLogImmutable(t *testing.T) {
	gdb := testdb.New(t)

	entry := models.AuditLog{ModelName: "Role", ObjectID: "x", Action: "create"}
	require.NoError(t, gdb.Create(&entry).Error)

	err := gdb.Model(&entry).Update("action", "delete").Error
	require.ErrorIs(t, err, models.ErrAuditLogImmutable)

	err = gdb.Delete(&entry).Error
	require.ErrorIs(t, err, models.ErrAuditLogImmutable)
}

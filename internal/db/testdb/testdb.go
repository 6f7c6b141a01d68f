// Package testdb provides a migrated sqlite database for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
)

// New opens a fresh sqlite database file below t.TempDir and migrates it.
// The pool has one connection, so code under test must use the transaction handle inside transactions.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(&config.DB{
		GormEngine: config.EngineSQLite,
		Path:       filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})

	return gdb
}

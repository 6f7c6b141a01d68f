package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
	"github.com/authcore/authcore/internal/db/models"
)

const testConfig = `Title = "authcore"

[Webserver]
Port = 8080
URL = "http://localhost:8080"

[DB]
GormEngine = "sqlite"
Path = "%DB%"

[Log]
LogLevel = "warn"
AppName = "authcore"
ServiceName = "authcore"
`

func writeConfig(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")

	content := bytes.ReplaceAll([]byte(testConfig), []byte("%DB%"), []byte(filepath.ToSlash(dbPath)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), content, 0o600))

	return dir + string(filepath.Separator), dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestPolicyCommand(t *testing.T) {
	out, err := run(t, "policy")
	require.NoError(t, err)

	assert.Contains(t, out, "RESOURCE")

	for _, code := range auth.MustDefaultPolicy().Codes() {
		assert.Contains(t, out, code)
	}
}

func TestConfigDumpCommand(t *testing.T) {
	dir, _ := writeConfig(t)

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{name: "toml", format: "toml", want: "sqlite"},
		{name: "json", format: "json", want: `"GormEngine": "sqlite"`},
		{name: "unknown", format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "--config", dir, "config", "dump", "--format", tt.format)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestMigrateAndCheckCommands(t *testing.T) {
	dir, dbPath := writeConfig(t)

	_, err := run(t, "--config", dir, "migrate")
	require.NoError(t, err)

	gdb, err := db.Open(&config.DB{GormEngine: config.EngineSQLite, Path: dbPath})
	require.NoError(t, err)

	admin := models.User{Email: "admin@example.com", IsActive: true, IsSuperuser: true}
	plain := models.User{Email: "plain@example.com", IsActive: true}
	require.NoError(t, gdb.Create(&admin).Error)
	require.NoError(t, gdb.Create(&plain).Error)

	var count int64
	require.NoError(t, gdb.Model(&models.Permission{}).Count(&count).Error)
	assert.Zero(t, count, "migrate creates no permissions")
	require.NoError(t, db.Close(gdb))

	codes := auth.MustDefaultPolicy().Codes()

	out, err := run(t, "--config", dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("%d permissions created", len(codes)))

	out, err = run(t, "--config", dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "0 permissions created")

	gdb, err = db.Open(&config.DB{GormEngine: config.EngineSQLite, Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&models.Permission{}).Count(&count).Error)
	assert.EqualValues(t, len(codes), count)
	require.NoError(t, gdb.Model(&models.AuditLog{}).Where("model_name = ? AND user_id IS NULL", "Permission").
		Count(&count).Error)
	assert.EqualValues(t, len(codes), count)
	require.NoError(t, db.Close(gdb))

	out, err = run(t, "--config", dir, "check", "--user", admin.ID.String(), "--permission", auth.PermRoleView)
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com holds role.view")

	out, err = run(t, "--config", dir, "check", "--user", plain.ID.String(), "--permission", auth.PermRoleView)
	require.ErrorIs(t, err, ErrDenied)
	assert.Contains(t, out, "does not hold")

	_, err = run(t, "--config", dir, "check", "--user", "nope", "--permission", auth.PermRoleView)
	require.Error(t, err)
}

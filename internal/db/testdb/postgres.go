//go:build integration

package testdb

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
)

// NewPostgres starts a postgres container and returns a migrated connection to it.
// The test is skipped when no container runtime is available.
func NewPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("docker not available, skipping integration test")
	}

	_ = provider.Close()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("authcore"),
		postgres.WithUsername("authcore"),
		postgres.WithPassword("authcore"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := ctr.Terminate(cleanupCtx); err != nil {
			t.Errorf("terminate container: %v", err)
		}
	})

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	u, err := url.Parse(connStr)
	require.NoError(t, err)

	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	password, _ := u.User.Password()

	gdb, err := db.Open(&config.DB{
		GormEngine: config.EnginePostgres,
		Host:       u.Hostname(),
		Port:       port,
		User:       u.User.Username(),
		Password:   password,
		Name:       "authcore",
		Extras:     "sslmode=disable",
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})

	return gdb
}

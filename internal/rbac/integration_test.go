//go:build integration

package rbac

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/db/testdb"
)

func TestPostgresConcurrentGrants(t *testing.T) {
	db := testdb.NewPostgres(t)
	ctx := context.Background()
	svc := NewService(db, audit.NewRecorder(), nil)

	r, err := svc.CreateRole(ctx, nil, RoleInput{Name: "R"})
	require.NoError(t, err)

	u, err := svc.CreateUser(ctx, nil, UserInput{Email: "u@example.com", IsActive: true})
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, 3)

	for _, name := range []string{"a", "b", "c"} {
		p, err := svc.CreatePermission(ctx, nil, PermissionInput{Name: name})
		require.NoError(t, err)

		ids = append(ids, p.ID)
	}

	const workers = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		granted int
	)

	for i := range workers {
		wg.Add(2)

		go func() {
			defer wg.Done()

			res, err := svc.AssignPermissionsToRole(ctx, nil, r.ID, ids)
			assert.NoError(t, err)

			mu.Lock()
			created += len(res.Created)
			mu.Unlock()
		}()

		go func(i int) {
			defer wg.Done()

			_, ok, err := svc.AssignRoleToUser(ctx, nil, u.ID, r.ID)
			assert.NoError(t, err, "worker %d", i)

			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, len(ids), created, "each edge is created exactly once")
	assert.Equal(t, 1, granted)

	var edges int64
	require.NoError(t, db.Model(&models.RolePermission{}).Where("role_id = ?", r.ID).Count(&edges).Error)
	assert.EqualValues(t, len(ids), edges)

	resolver := auth.NewService(db)
	codes, err := resolver.Permissions(ctx, auth.FromUser(u))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, codes)
}

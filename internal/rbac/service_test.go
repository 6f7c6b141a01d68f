package rbac

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/db/testdb"
)

var errAuditDown = errors.New("audit store down")

// failingRecorder fails every audit write.
type failingRecorder struct{}

func (failingRecorder) Record(*gorm.DB, audit.Entry) error { return errAuditDown }

// spyInvalidator remembers invalidations.
type spyInvalidator struct {
	mu    sync.Mutex
	users []uuid.UUID
	all   int
}

func (s *spyInvalidator) InvalidateUsers(_ context.Context, ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append(s.users, ids...)
}

func (s *spyInvalidator) InvalidateAll(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.all++
}

type env struct {
	db    *gorm.DB
	svc   *Service
	spy   *spyInvalidator
	actor *auth.Principal
	perms map[string]models.Permission
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testdb.New(t)

	admin := models.User{Email: "root@example.com", IsActive: true, IsSuperuser: true}
	require.NoError(t, db.Create(&admin).Error)

	e := &env{
		db:    db,
		spy:   &spyInvalidator{},
		actor: auth.FromUser(&admin),
		perms: map[string]models.Permission{},
	}
	e.svc = NewService(db, audit.NewRecorder(), e.spy)

	for _, name := range []string{"p1", "p2", "p3", auth.PermRoleView} {
		p := models.Permission{Name: name}
		require.NoError(t, db.Create(&p).Error)
		e.perms[name] = p
	}

	return e
}

func (e *env) ids(names ...string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(names))
	for _, n := range names {
		out = append(out, e.perms[n].ID)
	}

	return out
}

func (e *env) role(t *testing.T, name string) *models.Role {
	t.Helper()

	r, err := e.svc.CreateRole(context.Background(), e.actor, RoleInput{Name: name})
	require.NoError(t, err)

	return r
}

func (e *env) permissionNames(t *testing.T, roleID uuid.UUID) []string {
	t.Helper()

	perms, err := e.svc.RolePermissions(context.Background(), roleID)
	require.NoError(t, err)

	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	return names
}

func (e *env) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64

	q := e.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}

	require.NoError(t, q.Count(&n).Error)

	return n
}

func TestAssignIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.role(t, "R")

	res, err := e.svc.AssignPermissionsToRole(ctx, e.actor, r.ID, e.ids("p1"))
	require.NoError(t, err)
	assert.Equal(t, e.ids("p1"), res.Created)

	res, err = e.svc.AssignPermissionsToRole(ctx, e.actor, r.ID, e.ids("p1"))
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, e.ids("p1"), res.Existing)

	assert.EqualValues(t, 1, e.count(t, &models.RolePermission{}, "role_id = ?", r.ID))
	assert.EqualValues(t, 1, e.count(t, &models.AuditLog{}, "model_name = ?", audit.ModelRolePermission),
		"only the created edge is audited")
}

func TestAssignDeduplicatesInput(t *testing.T) {
	e := newEnv(t)
	r := e.role(t, "R")

	res, err := e.svc.AssignPermissionsToRole(context.Background(), e.actor, r.ID, e.ids("p1", "p1", "p2", "p1"))
	require.NoError(t, err)
	assert.Equal(t, e.ids("p1", "p2"), res.Created)
	assert.EqualValues(t, 2, e.count(t, &models.RolePermission{}, "role_id = ?", r.ID))
}

func TestAssignBatchAllOrNothing(t *testing.T) {
	e := newEnv(t)
	r := e.role(t, "R")
	unknown := uuid.New()

	_, err := e.svc.AssignPermissionsToRole(context.Background(), e.actor, r.ID, []uuid.UUID{e.perms["p1"].ID, unknown})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "permissions", verr.Field)
	assert.Equal(t, []uuid.UUID{unknown}, verr.InvalidIDs)

	assert.Empty(t, e.permissionNames(t, r.ID))
	assert.Zero(t, e.count(t, &models.AuditLog{}, "model_name = ?", audit.ModelRolePermission))
}

func TestAssignUnknownRole(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.AssignPermissionsToRole(context.Background(), e.actor, uuid.New(), e.ids("p1"))
	require.ErrorIs(t, err, ErrRoleNotFound)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssignEmptyListIsNoop(t *testing.T) {
	e := newEnv(t)
	r := e.role(t, "R")

	res, err := e.svc.AssignPermissionsToRole(context.Background(), e.actor, r.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Empty(t, res.Existing)
}

func TestRolePermissionScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.role(t, "R")

	assert.Empty(t, e.permissionNames(t, r.ID))

	_, err := e.svc.AssignPermissionsToRole(ctx, e.actor, r.ID, e.ids("p1", "p2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, e.permissionNames(t, r.ID))
	assert.EqualValues(t, 2, e.count(t, &models.RolePermission{}, "role_id = ?", r.ID))
	assert.EqualValues(t, 2, e.count(t, &models.AuditLog{}, "model_name = ? AND action = ?",
		audit.ModelRolePermission, audit.ActionCreate))

	removed, err := e.svc.RemovePermissionsFromRole(ctx, e.actor, r.ID, e.ids("p1"))
	require.NoError(t, err)
	assert.Equal(t, e.ids("p1"), removed)
	assert.Equal(t, []string{"p2"}, e.permissionNames(t, r.ID))

	removed, err = e.svc.RemovePermissionsFromRole(ctx, e.actor, r.ID, e.ids("p1"))
	require.NoError(t, err, "removing an absent permission succeeds")
	assert.Empty(t, removed)
	assert.Equal(t, []string{"p2"}, e.permissionNames(t, r.ID))

	assert.EqualValues(t, 1, e.count(t, &models.AuditLog{}, "model_name = ? AND action = ?",
		audit.ModelRolePermission, audit.ActionDelete))
}

func TestRemoveRejectsUnknownIDs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.role(t, "R")

	_, err := e.svc.AssignPermissionsToRole(ctx, e.actor, r.ID, e.ids("p1", "p2"))
	require.NoError(t, err)

	_, err = e.svc.RemovePermissionsFromRole(ctx, e.actor, r.ID, append(e.ids("p1"), uuid.New()))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"p1", "p2"}, e.permissionNames(t, r.ID), "edges untouched")

	removed, err := e.svc.RemovePermissionsFromRole(ctx, e.actor, r.ID, []uuid.UUID{})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestAtomicityOnAuditFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.role(t, "R")

	u := models.User{Email: "u@example.com", IsActive: true}
	require.NoError(t, e.db.Create(&u).Error)

	broken := NewService(e.db, failingRecorder{}, nil)

	_, err := broken.AssignPermissionsToRole(ctx, e.actor, r.ID, e.ids("p1"))
	require.ErrorIs(t, err, errAuditDown)
	assert.Zero(t, e.count(t, &models.RolePermission{}, ""))

	_, err = broken.CreateRole(ctx, e.actor, RoleInput{Name: "ghost"})
	require.ErrorIs(t, err, errAuditDown)
	assert.Zero(t, e.count(t, &models.Role{}, "name = ?", "ghost"))

	_, _, err = broken.AssignRoleToUser(ctx, e.actor, u.ID, r.ID)
	require.ErrorIs(t, err, errAuditDown)
	assert.Zero(t, e.count(t, &models.UserRole{}, ""))

	require.ErrorIs(t, broken.DeleteRole(ctx, e.actor, r.ID), errAuditDown)
	assert.EqualValues(t, 1, e.count(t, &models.Role{}, "id = ?", r.ID))

	first := "B"
	_, err = broken.UpdateUser(ctx, e.actor, u.ID, UserPatch{FirstName: &first})
	require.ErrorIs(t, err, errAuditDown)

	var reloaded models.User
	require.NoError(t, e.db.First(&reloaded, "id = ?", u.ID).Error)
	assert.Empty(t, reloaded.FirstName)
}

func TestCascadeIntegrity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.role(t, "Admin")

	u := models.User{Email: "u@example.com", IsActive: true}
	require.NoError(t, e.db.Create(&u).Error)

	_, err := e.svc.AssignPermissionsToRole(ctx, e.actor, r.ID, e.ids(auth.PermRoleView))
	require.NoError(t, err)

	_, _, err = e.svc.AssignRoleToUser(ctx, e.actor, u.ID, r.ID)
	require.NoError(t, err)

	resolver := auth.NewService(e.db)

	ok, err := resolver.HasPermission(ctx, auth.FromUser(&u), auth.PermRoleView)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, e.svc.DeleteRole(ctx, e.actor, r.ID))

	assert.Zero(t, e.count(t, &models.RolePermission{}, "role_id = ?", r.ID))
	assert.Zero(t, e.count(t, &models.UserRole{}, "role_id = ?", r.ID))
	assert.Contains(t, e.spy.users, u.ID)

	ok, err = resolver.HasPermission(ctx, auth.FromUser(&u), auth.PermRoleView)
	require.NoError(t, err)
	assert.False(t, ok)

	var deletes []models.AuditLog
	require.NoError(t, e.db.Where("model_name = ? AND action = ?", audit.ModelRole, audit.ActionDelete).Find(&deletes).Error)
	require.Len(t, deletes, 1, "cascaded edges are not audited separately")
	assert.Equal(t, "Admin", deletes[0].Changes["repr"])
	assert.Equal(t, r.ID.String(), deletes[0].Changes["id"])
}

func TestDiffCorrectness(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.svc.CreateUser(ctx, e.actor, UserInput{Email: "u@example.com", FirstName: "A", IsActive: true})
	require.NoError(t, err)

	first, last := "B", ""
	_, err = e.svc.UpdateUser(ctx, e.actor, u.ID, UserPatch{FirstName: &first, LastName: &last})
	require.NoError(t, err)

	var row models.AuditLog
	require.NoError(t, e.db.Where("model_name = ? AND action = ?", audit.ModelUser, audit.ActionUpdate).First(&row).Error)

	assert.Equal(t, map[string]any{"first_name": map[string]any{"from": "A", "to": "B"}}, map[string]any(row.Changes))
	require.NotNil(t, row.UserID)
	assert.Equal(t, e.actor.ID, *row.UserID)
	assert.Equal(t, u.ID.String(), row.ObjectID)
}

func TestSystemActorIsRecordedAsNull(t *testing.T) {
	e := newEnv(t)

	r, err := e.svc.CreateRole(context.Background(), nil, RoleInput{Name: "system"})
	require.NoError(t, err)

	var row models.AuditLog
	require.NoError(t, e.db.Where("object_id = ?", r.ID.String()).First(&row).Error)
	assert.Nil(t, row.UserID)
	assert.Equal(t, map[string]any{"name": "system"}, map[string]any(row.Changes))
}

func TestConcurrentAssignKeepsOneEdge(t *testing.T) {
	e := newEnv(t)
	r := e.role(t, "R")

	const workers = 8

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := e.svc.AssignPermissionsToRole(context.Background(), e.actor, r.ID, e.ids("p1", "p2"))
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.EqualValues(t, 2, e.count(t, &models.RolePermission{}, "role_id = ?", r.ID))
	assert.EqualValues(t, 2, e.count(t, &models.AuditLog{}, "model_name = ?", audit.ModelRolePermission))
}

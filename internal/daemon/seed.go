package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller/permission"
	"github.com/authcore/authcore/internal/rbac"
)

// Seed creates every permission code the policy references that is not stored yet.
// Each permission goes through the mutation service and gets a create record without actor.
// Existing permissions are kept as they are.
func Seed(ctx context.Context, gdb *gorm.DB, policy *auth.Policy) (int, error) {
	names, err := permission.Names(gdb.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("list permissions: %w", err)
	}

	stored := make(map[string]bool, len(names))
	for _, name := range names {
		stored[name] = true
	}

	svc := rbac.NewService(gdb, audit.NewRecorder(), nil)
	created := 0

	for _, code := range policy.Codes() {
		if stored[code] {
			continue
		}

		_, err := svc.CreatePermission(ctx, nil, rbac.PermissionInput{Name: code, Description: auth.Descriptions[code]})

		var verr *rbac.ValidationError
		if errors.As(err, &verr) {
			// created concurrently by another seed
			log.Debug().Str("permission", code).Msg("permission already seeded")

			continue
		}

		if err != nil {
			return created, fmt.Errorf("seed permission %s: %w", code, err)
		}

		created++
	}

	log.Info().Int("created", created).Int("total", len(policy.Codes())).Msg("built-in permissions seeded")

	return created, nil
}

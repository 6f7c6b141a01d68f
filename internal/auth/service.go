package auth

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/controller/permission"
)

// Service resolves permissions against the database.
type Service struct {
	db    *gorm.DB
	cache Cache

	fills singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables per-user caching of resolved permissions.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// HasPermission reports whether the principal holds the permission code.
// It fails closed for nil, unauthenticated or inactive principals and allows superusers everything.
func (s *Service) HasPermission(ctx context.Context, p *Principal, code string) (allowed bool, err error) {
	defer func() { countDecision(allowed, err) }()

	if !p.Usable() {
		return false, nil
	}

	if p.Superuser {
		return true, nil
	}

	if s.cache != nil {
		codes, err := s.cachedCodes(ctx, p.ID)
		if err != nil {
			return false, err
		}

		return contains(codes, code), nil
	}

	var count int64

	err = s.db.WithContext(ctx).Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.name = ?", p.ID, code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission %s: %w", code, err)
	}

	return count > 0, nil
}

// HasAnyPermission checks if the principal has at least one of the given permissions.
func (s *Service) HasAnyPermission(ctx context.Context, p *Principal, codes []string) (bool, error) {
	for _, code := range codes {
		has, err := s.HasPermission(ctx, p, code)
		if err != nil || has {
			return has, err
		}
	}

	return false, nil
}

// HasAllPermissions checks if the principal has all the given permissions.
func (s *Service) HasAllPermissions(ctx context.Context, p *Principal, codes []string) (bool, error) {
	for _, code := range codes {
		has, err := s.HasPermission(ctx, p, code)
		if err != nil || !has {
			return false, err
		}
	}

	return true, nil
}

// Permissions returns the effective permission codes of the principal, sorted.
// A superuser gets every stored code.
func (s *Service) Permissions(ctx context.Context, p *Principal) ([]string, error) {
	if !p.Usable() {
		return []string{}, nil
	}

	if p.Superuser {
		codes, err := permission.Names(s.db.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list permissions: %w", err)
		}

		sort.Strings(codes)

		return codes, nil
	}

	if s.cache != nil {
		return s.cachedCodes(ctx, p.ID)
	}

	return s.loadCodes(ctx, p.ID)
}

// Authorize returns ErrUnauthenticated or ErrForbidden unless the principal holds code.
func (s *Service) Authorize(ctx context.Context, p *Principal, code string) error {
	if !p.Usable() {
		return ErrUnauthenticated
	}

	ok, err := s.HasPermission(ctx, p, code)
	if err != nil {
		return err
	}

	if !ok {
		log.Debug().Str("user_id", p.ID.String()).Str("permission", code).Msg("permission denied")

		return ErrForbidden
	}

	return nil
}

// InvalidateUsers drops cached permissions of the given users.
func (s *Service) InvalidateUsers(ctx context.Context, userIDs ...uuid.UUID) {
	if s.cache == nil || len(userIDs) == 0 {
		return
	}

	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		log.Error().Err(err).Int("users", len(userIDs)).Msg("failed to invalidate permission cache")
	}
}

// InvalidateAll drops every cached permission set.
func (s *Service) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Purge(ctx); err != nil {
		log.Error().Err(err).Msg("failed to purge permission cache")
	}
}

func (s *Service) cachedCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	codes, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		// a broken cache degrades to database reads
		cacheRequests.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("permission cache read failed")
	}

	if ok {
		cacheRequests.WithLabelValues("hit").Inc()

		return codes, nil
	}

	cacheRequests.WithLabelValues("miss").Inc()

	v, err, _ := s.fills.Do(userID.String(), func() (any, error) {
		// the version is read before the load, a fill that races an invalidation is not stored
		version, verErr := s.cache.Version(ctx, userID)

		loaded, err := s.loadCodes(ctx, userID)
		if err != nil {
			return nil, err
		}

		if verErr != nil {
			log.Warn().Err(verErr).Str("user_id", userID.String()).Msg("permission cache version read failed")

			return loaded, nil
		}

		if err := s.cache.Set(ctx, userID, version, loaded); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("permission cache write failed")
		}

		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]string), nil //nolint:forcetypeassert
}

func (s *Service) loadCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var codes []string

	err := s.db.WithContext(ctx).Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("permissions.name", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	if codes == nil {
		codes = []string{}
	}

	// collations differ per engine, contains relies on byte order
	sort.Strings(codes)

	return codes, nil
}

func contains(codes []string, code string) bool {
	i := sort.SearchStrings(codes, code)

	return i < len(codes) && codes[i] == code
}

package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/db/models"
)

// Paging defaults for List.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
	// MaxPage keeps the offset far from integer overflow.
	MaxPage = 1_000_000
)

// View is the read projection of an audit row.
type View struct {
	ID            uuid.UUID         `json:"id"`
	User          *uuid.UUID        `json:"user"`
	UserEmail     string            `json:"user_email"`
	ModelName     string            `json:"model_name"`
	ModelDisplay  string            `json:"model_display"`
	ObjectID      string            `json:"object_id"`
	Action        string            `json:"action"`
	ActionDisplay string            `json:"action_display"`
	Timestamp     time.Time         `json:"timestamp"`
	Changes       datatypes.JSONMap `json:"changes"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	ModelName string
	Action    string
	UserID    *uuid.UUID
	ObjectID  string
	Since     *time.Time
	Until     *time.Time
	Page      int
	PageSize  int
}

// Page is one page of audit views, newest first.
type Page struct {
	Count    int64  `json:"count"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Results  []View `json:"results"`
}

// Service reads the audit trail. It exposes no way to change it.
type Service struct {
	db *gorm.DB
}

// NewService creates a read service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type row struct {
	models.AuditLog
	UserEmail string
}

func (s *Service) base(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Select("audit_logs.*, COALESCE(users.email, '') AS user_email").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id")
}

// List returns a page of records matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	f = normalize(f)

	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	q = apply(q, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page{}, fmt.Errorf("count audit logs: %w", err)
	}

	var rows []row

	err := apply(s.base(ctx), f).
		Order("audit_logs.timestamp DESC, audit_logs.id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Scan(&rows).Error
	if err != nil {
		return Page{}, fmt.Errorf("list audit logs: %w", err)
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, toView(&rows[i]))
	}

	return Page{Count: total, Page: f.Page, PageSize: f.PageSize, Results: views}, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (View, error) {
	var r row

	res := s.base(ctx).Where("audit_logs.id = ?", id).Limit(1).Scan(&r)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return View{}, ErrAuditLogNotFound
		}

		return View{}, fmt.Errorf("get audit log: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return View{}, ErrAuditLogNotFound
	}

	return toView(&r), nil
}

func normalize(f Filter) Filter {
	switch {
	case f.Page < 1:
		f.Page = 1
	case f.Page > MaxPage:
		f.Page = MaxPage
	}

	switch {
	case f.PageSize < 1:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}

	return f
}

func apply(q *gorm.DB, f Filter) *gorm.DB {
	if f.ModelName != "" {
		q = q.Where("audit_logs.model_name = ?", f.ModelName)
	}

	if f.Action != "" {
		q = q.Where("audit_logs.action = ?", f.Action)
	}

	if f.UserID != nil {
		q = q.Where("audit_logs.user_id = ?", *f.UserID)
	}

	if f.ObjectID != "" {
		q = q.Where("audit_logs.object_id = ?", f.ObjectID)
	}

	if f.Since != nil {
		q = q.Where("audit_logs.timestamp >= ?", *f.Since)
	}

	if f.Until != nil {
		q = q.Where("audit_logs.timestamp < ?", *f.Until)
	}

	return q
}

func toView(r *row) View {
	changes := r.Changes
	if changes == nil {
		changes = datatypes.JSONMap{}
	}

	return View{
		ID:            r.ID,
		User:          r.UserID,
		UserEmail:     r.UserEmail,
		ModelName:     r.ModelName,
		ModelDisplay:  ModelDisplay(r.ModelName),
		ObjectID:      r.ObjectID,
		Action:        r.Action,
		ActionDisplay: ActionDisplay(r.Action),
		Timestamp:     r.Timestamp,
		Changes:       changes,
	}
}

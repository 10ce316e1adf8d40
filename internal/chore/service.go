// Package chore manages recurring chore templates and the weekly instances
// materialized from them.
package chore

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
)

// Store is the persistence the chore service needs. *store.ChoreStore
// satisfies it.
type Store interface {
	CreateTemplate(ctx context.Context, t *model.ChoreTemplate) (*model.ChoreTemplate, error)
	GetTemplate(ctx context.Context, id string) (*model.ChoreTemplate, error)
	UpdateTemplate(ctx context.Context, t *model.ChoreTemplate) (*model.ChoreTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	ListTemplates(ctx context.Context, familyID string) ([]model.TemplateWithAssignee, error)
	ListActiveTemplates(ctx context.Context, familyID string) ([]model.ChoreTemplate, error)

	InstanceTemplateIDs(ctx context.Context, familyID string, start, end time.Time) (map[string]struct{}, error)
	InsertInstance(ctx context.Context, i *model.ChoreInstance) (bool, error)
	GetInstance(ctx context.Context, id string) (*model.ChoreInstance, error)
	CompleteInstance(ctx context.Context, id, familyID, kidID string, from []model.ChoreStatus, to model.ChoreStatus, at time.Time) (bool, error)
	DecideInstance(ctx context.Context, id, familyID string, from []model.ChoreStatus, to model.ChoreStatus, approverID string, reason *string, at time.Time) (bool, error)
	WeekChores(ctx context.Context, familyID, kidID string, start, end time.Time) ([]model.WeeklyChore, error)
	PendingChores(ctx context.Context, familyID string) ([]model.PendingApproval, error)
}

// Users looks up family members.
type Users interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type Service struct {
	store   Store
	users   Users
	weeks   *week.Calculator
	metrics *metrics.Metrics
	logger  *slog.Logger

	ids func() string
	now func() time.Time
}

func NewService(store Store, users Users, weeks *week.Calculator, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		users:   users,
		weeks:   weeks,
		metrics: m,
		logger:  logger,
		ids:     uuid.NewString,
		now:     time.Now,
	}
}

// Weeks exposes the calculator the service normalizes week starts with.
func (s *Service) Weeks() *week.Calculator {
	return s.weeks
}

// Package family owns parent accounts, login sessions and the children a
// parent manages.
package family

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/model"
)

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetFamily(ctx context.Context, id, familyID string) error
	UpdateChild(ctx context.Context, id, name string, allowance decimal.Decimal) (*model.User, error)
	ListChildren(ctx context.Context, familyID string) ([]model.User, error)
	DeleteChild(ctx context.Context, id string) (bool, error)
}

type Families interface {
	Create(ctx context.Context, id, name string) (*model.Family, error)
	GetByID(ctx context.Context, id string) (*model.Family, error)
}

type Sessions interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*model.Session, error)
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type Service struct {
	users      Users
	families   Families
	sessions   Sessions
	sessionTTL time.Duration
	logger     *slog.Logger

	ids func() string
}

func NewService(users Users, families Families, sessions Sessions, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		families:   families,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		ids:        uuid.NewString,
	}
}

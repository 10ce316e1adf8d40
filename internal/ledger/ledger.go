// Package ledger derives each child's balance and history from approved
// work plus the append-only transaction table, and records payouts,
// allowance and adjustments.
//
// Approving a chore or job writes nothing here: earnings are read straight
// from approved records every time a balance is computed.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
)

type Chores interface {
	ApprovedChores(ctx context.Context, kidID string) ([]model.ApprovedChore, error)
}

type Jobs interface {
	ApprovedJobs(ctx context.Context, kidID string) ([]model.Job, error)
}

type Transactions interface {
	Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]model.Transaction, error)
}

type Users interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListChildren(ctx context.Context, familyID string) ([]model.User, error)
}

type Service struct {
	chores  Chores
	jobs    Jobs
	txs     Transactions
	users   Users
	weeks   *week.Calculator
	metrics *metrics.Metrics
	logger  *slog.Logger

	ids func() string
	now func() time.Time
}

func NewService(chores Chores, jobs Jobs, txs Transactions, users Users, weeks *week.Calculator, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		chores:  chores,
		jobs:    jobs,
		txs:     txs,
		users:   users,
		weeks:   weeks,
		metrics: m,
		logger:  logger,
		ids:     uuid.NewString,
		now:     time.Now,
	}
}

const (
	defaultPayoutDescription     = "Cash payout"
	allowanceDescription         = "Weekly Allowance"
	historyAdjustmentDescription = "Adjustment"
	historyPayoutDescription     = "Payout"
)

// records is everything a balance or history is derived from.
type records struct {
	chores []model.ApprovedChore
	jobs   []model.Job
	txs    []model.Transaction
}

func (s *Service) load(ctx context.Context, kidID string) (records, error) {
	var r records
	var err error
	if r.chores, err = s.chores.ApprovedChores(ctx, kidID); err != nil {
		return r, fmt.Errorf("load ledger: %w", err)
	}
	if r.jobs, err = s.jobs.ApprovedJobs(ctx, kidID); err != nil {
		return r, fmt.Errorf("load ledger: %w", err)
	}
	if r.txs, err = s.txs.ListByUser(ctx, kidID); err != nil {
		return r, fmt.Errorf("load ledger: %w", err)
	}
	return r, nil
}

// compute applies
//
//	balance = chores + jobs + allowance + adjustments - |payouts|
//
// Rejected work never reaches the inputs, so it contributes nothing.
func compute(userID string, r records) model.Balance {
	b := model.Balance{
		UserID:            userID,
		ChoreEarnings:     decimal.Zero,
		JobEarnings:       decimal.Zero,
		AllowanceEarnings: decimal.Zero,
		Adjustments:       decimal.Zero,
		TotalPayouts:      decimal.Zero,
	}
	for _, c := range r.chores {
		b.ChoreEarnings = b.ChoreEarnings.Add(c.Value)
	}
	for _, j := range r.jobs {
		b.JobEarnings = b.JobEarnings.Add(j.PaymentAmount)
	}
	for _, t := range r.txs {
		switch t.Type {
		case model.TxWeeklyAllowance:
			b.AllowanceEarnings = b.AllowanceEarnings.Add(t.Amount)
		case model.TxAdjustment:
			b.Adjustments = b.Adjustments.Add(t.Amount)
		case model.TxPayout:
			b.TotalPayouts = b.TotalPayouts.Add(t.Amount.Abs())
		}
	}
	b.Balance = b.ChoreEarnings.
		Add(b.JobEarnings).
		Add(b.AllowanceEarnings).
		Add(b.Adjustments).
		Sub(b.TotalPayouts)
	return b
}

// kid resolves kidID to a child the caller may see.
func (s *Service) kid(ctx context.Context, caller auth.Caller, kidID string) (*model.User, error) {
	kid, err := s.users.GetByID(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if !kid.IsChild() || !caller.ActsFor(kid) {
		return nil, fmt.Errorf("kid %s: %w", kidID, model.ErrNotFound)
	}
	return kid, nil
}

func (s *Service) Balance(ctx context.Context, caller auth.Caller, kidID string) (*model.Balance, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	if _, err := s.kid(ctx, caller, kidID); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, kidID)
	if err != nil {
		return nil, err
	}
	b := compute(kidID, r)
	return &b, nil
}

// FamilyBalances returns every child in the caller's family with their
// balance, ordered by name.
func (s *Service) FamilyBalances(ctx context.Context, caller auth.Caller) ([]model.KidBalance, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	kids, err := s.users.ListChildren(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	out := make([]model.KidBalance, 0, len(kids))
	for _, k := range kids {
		r, err := s.load(ctx, k.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.KidBalance{User: k, Balance: compute(k.ID, r)})
	}
	return out, nil
}

// TotalOwed sums the positive balances; a child in the red owes nothing back
// to the total.
func TotalOwed(balances []model.KidBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		if b.Balance.Balance.IsPositive() {
			total = total.Add(b.Balance.Balance)
		}
	}
	return total
}

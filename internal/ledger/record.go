package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

// RecordPayout stores a cash payout as a negative, already-paid row. The
// balance is not checked: paying out more than is owed drives it negative.
func (s *Service) RecordPayout(ctx context.Context, caller auth.Caller, kidID string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, model.Invalid("amount", "must be greater than zero")
	}
	if _, err := s.kid(ctx, caller, kidID); err != nil {
		return nil, err
	}
	if description = strings.TrimSpace(description); description == "" {
		description = defaultPayoutDescription
	}
	now := s.now()
	return s.record(ctx, &model.Transaction{
		UserID:      kidID,
		Amount:      amount.Abs().Neg(),
		Type:        model.TxPayout,
		Description: description,
		IsPaid:      true,
		PaidAt:      &now,
		CreatedAt:   now,
	})
}

// RecordAllowance credits one week of allowance. A nil amount falls back to
// the child's configured weekly allowance.
func (s *Service) RecordAllowance(ctx context.Context, caller auth.Caller, kidID string, amount *decimal.Decimal) (*model.Transaction, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if amount != nil && !amount.IsPositive() {
		return nil, model.Invalid("amount", "must be greater than zero")
	}
	kid, err := s.kid(ctx, caller, kidID)
	if err != nil {
		return nil, err
	}
	credit := kid.WeeklyAllowance
	if amount != nil {
		credit = *amount
	}
	if !credit.IsPositive() {
		return nil, model.ErrNoAllowanceConfigured
	}
	ws := s.weeks.Current()
	return s.record(ctx, &model.Transaction{
		UserID:           kidID,
		Amount:           credit,
		Type:             model.TxWeeklyAllowance,
		Description:      allowanceDescription,
		RelatedWeekStart: &ws,
		CreatedAt:        s.now(),
	})
}

// RecordAdjustment adds a signed manual correction. The description is
// required so the history explains it.
func (s *Service) RecordAdjustment(ctx context.Context, caller auth.Caller, kidID string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if description = strings.TrimSpace(description); description == "" {
		return nil, model.Invalid("description", "must not be empty")
	}
	if _, err := s.kid(ctx, caller, kidID); err != nil {
		return nil, err
	}
	return s.record(ctx, &model.Transaction{
		UserID:      kidID,
		Amount:      amount,
		Type:        model.TxAdjustment,
		Description: description,
		CreatedAt:   s.now(),
	})
}

func (s *Service) record(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	t.ID = s.ids()
	created, err := s.txs.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.metrics.LedgerEntry(string(t.Type))
	s.logger.Info("ledger entry recorded", "user_id", t.UserID, "type", string(t.Type), "amount", t.Amount.String())
	return created, nil
}

package chore

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
)

// WeekForKid materializes the week and returns one child's chores for it.
func (s *Service) WeekForKid(ctx context.Context, caller auth.Caller, kidID string, weekStart time.Time) ([]model.WeeklyChore, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	kid, err := s.users.GetByID(ctx, kidID)
	if err != nil {
		return nil, err
	}
	if !kid.IsChild() || !caller.ActsFor(kid) {
		return nil, fmt.Errorf("kid %s: %w", kidID, model.ErrNotFound)
	}
	return s.week(ctx, caller.FamilyID, kidID, weekStart)
}

// WeekForFamily materializes the week and returns every child's chores,
// ordered by child then chore name.
func (s *Service) WeekForFamily(ctx context.Context, caller auth.Caller, weekStart time.Time) ([]model.WeeklyChore, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.week(ctx, caller.FamilyID, "", weekStart)
}

func (s *Service) week(ctx context.Context, familyID, kidID string, weekStart time.Time) ([]model.WeeklyChore, error) {
	ws := s.weeks.Normalize(weekStart)
	if _, err := s.EnsureWeek(ctx, familyID, ws); err != nil {
		return nil, err
	}
	return s.store.WeekChores(ctx, familyID, kidID, ws, week.End(ws))
}

// PendingApprovals lists the family's chores awaiting a decision, oldest
// completion first.
func (s *Service) PendingApprovals(ctx context.Context, caller auth.Caller) ([]model.PendingApproval, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.store.PendingChores(ctx, caller.FamilyID)
}

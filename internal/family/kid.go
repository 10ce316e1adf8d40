package family

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

type KidInput struct {
	Name            string
	WeeklyAllowance decimal.Decimal
}

// KidPatch changes only the non-nil fields.
type KidPatch struct {
	Name            *string
	WeeklyAllowance *decimal.Decimal
}

// CreateKid adds a child to the caller's family, creating the family on
// first use. Kids get a placeholder email and no password.
func (s *Service) CreateKid(ctx context.Context, caller auth.Caller, in KidInput) (*model.User, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, model.Invalid("name", "must not be empty")
	}
	if in.WeeklyAllowance.IsNegative() {
		return nil, model.Invalid("weekly_allowance", "must not be negative")
	}

	familyID, err := s.ensureFamily(ctx, caller)
	if err != nil {
		return nil, err
	}
	id := s.ids()
	kid, err := s.users.Create(ctx, &model.User{
		ID:              id,
		Name:            name,
		Email:           id + "@kid.local",
		Role:            model.RoleChild,
		FamilyID:        &familyID,
		WeeklyAllowance: in.WeeklyAllowance,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("kid created", "family_id", familyID, "kid_id", kid.ID)
	return kid, nil
}

func (s *Service) ensureFamily(ctx context.Context, caller auth.Caller) (string, error) {
	if caller.FamilyID != "" {
		return caller.FamilyID, nil
	}
	parent, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return "", err
	}
	if parent == nil {
		return "", model.ErrUnauthenticated
	}
	if parent.FamilyID != nil {
		return *parent.FamilyID, nil
	}
	fam, err := s.families.Create(ctx, s.ids(), parent.Name+"'s Family")
	if err != nil {
		return "", err
	}
	if err := s.users.SetFamily(ctx, parent.ID, fam.ID); err != nil {
		return "", err
	}
	s.logger.Info("family created", "family_id", fam.ID, "parent_id", parent.ID)
	return fam.ID, nil
}

func (s *Service) UpdateKid(ctx context.Context, caller auth.Caller, kidID string, p KidPatch) (*model.User, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	kid, err := s.GetKid(ctx, caller, kidID)
	if err != nil {
		return nil, err
	}
	name, allowance := kid.Name, kid.WeeklyAllowance
	if p.Name != nil {
		if name = strings.TrimSpace(*p.Name); name == "" {
			return nil, model.Invalid("name", "must not be empty")
		}
	}
	if p.WeeklyAllowance != nil {
		if allowance = *p.WeeklyAllowance; allowance.IsNegative() {
			return nil, model.Invalid("weekly_allowance", "must not be negative")
		}
	}
	return s.users.UpdateChild(ctx, kid.ID, name, allowance)
}

// DeleteKid removes the child with their chores, transactions and sessions.
// Jobs they had claimed but not finished return to the board.
func (s *Service) DeleteKid(ctx context.Context, caller auth.Caller, kidID string) error {
	if err := auth.RequireParent(caller); err != nil {
		return err
	}
	if _, err := s.GetKid(ctx, caller, kidID); err != nil {
		return err
	}
	ok, err := s.users.DeleteChild(ctx, kidID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("kid %s: %w", kidID, model.ErrNotFound)
	}
	s.logger.Info("kid deleted", "family_id", caller.FamilyID, "kid_id", kidID)
	return nil
}

func (s *Service) ListKids(ctx context.Context, caller auth.Caller) ([]model.User, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	kids, err := s.users.ListChildren(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	if caller.IsParent() {
		return kids, nil
	}
	for _, k := range kids {
		if k.ID == caller.UserID {
			return []model.User{k}, nil
		}
	}
	return nil, nil
}

// GetKid returns a child the caller may act for; anything else is
// ErrNotFound.
func (s *Service) GetKid(ctx context.Context, caller auth.Caller, kidID string) (*model.User, error) {
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
	return kid, nil
}

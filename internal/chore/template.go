package chore

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

type TemplateInput struct {
	Name         string
	Description  string
	Value        decimal.Decimal
	AssignedToID string
	DaysOfWeek   model.Weekdays
}

// TemplatePatch changes only the non-nil fields. A non-nil DaysOfWeek that
// points at a nil or empty set clears the restriction.
type TemplatePatch struct {
	Name         *string
	Description  *string
	Value        *decimal.Decimal
	AssignedToID *string
	DaysOfWeek   *model.Weekdays
	IsActive     *bool
}

func (s *Service) CreateTemplate(ctx context.Context, caller auth.Caller, in TemplateInput) (*model.ChoreTemplate, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	t := &model.ChoreTemplate{
		ID:           s.ids(),
		FamilyID:     caller.FamilyID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Value:        in.Value,
		DaysOfWeek:   normalizeDays(in.DaysOfWeek),
		AssignedToID: in.AssignedToID,
		CreatedByID:  caller.UserID,
		IsActive:     true,
	}
	if err := s.validate(ctx, caller, t); err != nil {
		return nil, err
	}
	created, err := s.store.CreateTemplate(ctx, t)
	if err != nil {
		return nil, err
	}
	s.logger.Info("template created", "template_id", created.ID, "family_id", created.FamilyID)
	return created, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, caller auth.Caller, id string, p TemplatePatch) (*model.ChoreTemplate, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	t, err := s.template(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Value != nil {
		t.Value = *p.Value
	}
	if p.AssignedToID != nil {
		t.AssignedToID = *p.AssignedToID
	}
	if p.DaysOfWeek != nil {
		t.DaysOfWeek = normalizeDays(*p.DaysOfWeek)
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
	if err := s.validate(ctx, caller, t); err != nil {
		return nil, err
	}
	return s.store.UpdateTemplate(ctx, t)
}

// DeleteTemplate removes the template and every instance made from it.
func (s *Service) DeleteTemplate(ctx context.Context, caller auth.Caller, id string) error {
	if err := auth.RequireParent(caller); err != nil {
		return err
	}
	if _, err := s.template(ctx, caller, id); err != nil {
		return err
	}
	return s.store.DeleteTemplate(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, caller auth.Caller) ([]model.TemplateWithAssignee, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.store.ListTemplates(ctx, caller.FamilyID)
}

func (s *Service) template(ctx context.Context, caller auth.Caller, id string) (*model.ChoreTemplate, error) {
	t, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.FamilyID != caller.FamilyID {
		return nil, fmt.Errorf("template %s: %w", id, model.ErrNotFound)
	}
	return t, nil
}

func (s *Service) validate(ctx context.Context, caller auth.Caller, t *model.ChoreTemplate) error {
	if t.Name == "" {
		return model.Invalid("name", "must not be empty")
	}
	if t.Value.IsNegative() {
		return model.Invalid("value", "must not be negative")
	}
	if err := t.DaysOfWeek.Validate(); err != nil {
		return err
	}
	if t.AssignedToID == "" {
		return model.Invalid("assigned_to_id", "must not be empty")
	}
	kid, err := s.users.GetByID(ctx, t.AssignedToID)
	if err != nil {
		return err
	}
	if !kid.IsChild() || !kid.InFamily(caller.FamilyID) {
		return fmt.Errorf("assignee %s: %w", t.AssignedToID, model.ErrNotFound)
	}
	return nil
}

// normalizeDays sorts and dedupes; an empty set means any day.
func normalizeDays(w model.Weekdays) model.Weekdays {
	if len(w) == 0 {
		return nil
	}
	return w.Normalize()
}

package chore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/choreboard/internal/approval"
	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

// Complete moves a pending instance to awaiting_approval. Children may only
// complete their own chores, and a sibling's chore reads as not found.
// Parents may complete any chore in the family.
func (s *Service) Complete(ctx context.Context, caller auth.Caller, instanceID string) (*model.ChoreInstance, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	kidID := ""
	if !caller.IsParent() {
		kidID = caller.UserID
	}
	return s.transition(ctx, caller, instanceID, approval.Complete, func(i *model.ChoreInstance) (bool, error) {
		if kidID != "" && i.AssignedToID != kidID {
			return false, fmt.Errorf("chore %s: %w", i.ID, model.ErrNotFound)
		}
		return s.store.CompleteInstance(ctx, i.ID, caller.FamilyID, kidID,
			approval.ChoreFrom(approval.Complete), approval.ChoreTo(approval.Complete), s.now())
	})
}

func (s *Service) Approve(ctx context.Context, caller auth.Caller, instanceID string) (*model.ChoreInstance, error) {
	return s.decide(ctx, caller, instanceID, approval.Approve, nil)
}

// Reject marks the instance rejected. It earns nothing and is not
// re-materialized for the same week.
func (s *Service) Reject(ctx context.Context, caller auth.Caller, instanceID string, reason string) (*model.ChoreInstance, error) {
	var r *string
	if reason = strings.TrimSpace(reason); reason != "" {
		r = &reason
	}
	return s.decide(ctx, caller, instanceID, approval.Reject, r)
}

func (s *Service) decide(ctx context.Context, caller auth.Caller, instanceID string, a approval.Action, reason *string) (*model.ChoreInstance, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	return s.transition(ctx, caller, instanceID, a, func(i *model.ChoreInstance) (bool, error) {
		return s.store.DecideInstance(ctx, i.ID, caller.FamilyID,
			approval.ChoreFrom(a), approval.ChoreTo(a), caller.UserID, reason, s.now())
	})
}

// transition loads the instance, checks the rule table, runs apply as a
// conditional update and returns the stored result. If apply matches no row
// the instance changed underneath us and the fresh state is reported.
func (s *Service) transition(ctx context.Context, caller auth.Caller, id string, a approval.Action, apply func(*model.ChoreInstance) (bool, error)) (*model.ChoreInstance, error) {
	inst, err := s.instance(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := approval.CheckChore(a, inst.Status); err != nil {
		return nil, err
	}
	ok, err := apply(inst)
	if err != nil {
		return nil, err
	}
	after, err := s.instance(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := approval.CheckChore(a, after.Status); err != nil {
			return nil, err
		}
		return nil, &model.StateError{Entity: "chore", Action: string(a), From: string(after.Status)}
	}
	s.metrics.ChoreTransition(string(a))
	s.logger.Info("chore transition", "instance_id", id, "action", string(a), "status", string(after.Status))
	return after, nil
}

func (s *Service) instance(ctx context.Context, caller auth.Caller, id string) (*model.ChoreInstance, error) {
	inst, err := s.store.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil || inst.FamilyID != caller.FamilyID {
		return nil, fmt.Errorf("chore %s: %w", id, model.ErrNotFound)
	}
	return inst, nil
}

package job

import (
	"context"
	"fmt"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

// ListAll returns every job in the caller's family, newest first.
func (s *Service) ListAll(ctx context.Context, caller auth.Caller) ([]model.JobListing, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.store.List(ctx, caller.FamilyID)
}

// ListAvailable returns the jobs still open for claiming.
func (s *Service) ListAvailable(ctx context.Context, caller auth.Caller) ([]model.JobListing, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.store.List(ctx, caller.FamilyID, model.JobAvailable)
}

// ListForKid returns the jobs a child has claimed, in any state.
func (s *Service) ListForKid(ctx context.Context, caller auth.Caller, kidID string) ([]model.JobListing, error) {
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
	return s.store.ListForKid(ctx, kidID)
}

func (s *Service) PendingApprovals(ctx context.Context, caller auth.Caller) ([]model.PendingApproval, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.store.PendingJobs(ctx, caller.FamilyID)
}

// Package job manages one-off paid jobs and arbitrates which child gets to
// claim each one.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/approval"
	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
)

// Store is satisfied by *store.JobStore.
type Store interface {
	Create(ctx context.Context, j *model.Job) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, id, familyID, name, description string, amount decimal.Decimal) (bool, error)
	Delete(ctx context.Context, id string) error
	Claim(ctx context.Context, id, familyID, childID string, from []model.JobStatus, to model.JobStatus, at time.Time) (bool, error)
	Complete(ctx context.Context, id, familyID, claimantID string, from []model.JobStatus, to model.JobStatus, at time.Time) (bool, error)
	Decide(ctx context.Context, id, familyID string, from []model.JobStatus, to model.JobStatus, approverID string, reason *string, at time.Time) (bool, error)
	List(ctx context.Context, familyID string, statuses ...model.JobStatus) ([]model.JobListing, error)
	ListForKid(ctx context.Context, kidID string) ([]model.JobListing, error)
	PendingJobs(ctx context.Context, familyID string) ([]model.PendingApproval, error)
}

type Users interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type Service struct {
	store   Store
	users   Users
	metrics *metrics.Metrics
	logger  *slog.Logger

	ids func() string
	now func() time.Time
}

func NewService(store Store, users Users, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		users:   users,
		metrics: m,
		logger:  logger,
		ids:     uuid.NewString,
		now:     time.Now,
	}
}

type Input struct {
	Name          string
	Description   string
	PaymentAmount decimal.Decimal
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return model.Invalid("name", "must not be empty")
	}
	if in.PaymentAmount.IsNegative() {
		return model.Invalid("payment_amount", "must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, caller auth.Caller, in Input) (*model.Job, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, model.Invalid("family", "add a kid before posting jobs")
	}
	j, err := s.store.Create(ctx, &model.Job{
		ID:            s.ids(),
		FamilyID:      caller.FamilyID,
		Name:          in.Name,
		Description:   in.Description,
		PaymentAmount: in.PaymentAmount,
		CreatedByID:   caller.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job created", "job_id", j.ID, "family_id", j.FamilyID)
	return j, nil
}

// Patch changes only the non-nil fields of a job.
type Patch struct {
	Name          *string
	Description   *string
	PaymentAmount *decimal.Decimal
}

// Update edits an available job. Claimed and decided jobs are frozen.
func (s *Service) Update(ctx context.Context, caller auth.Caller, id string, p Patch) (*model.Job, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	j, err := s.job(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	in := Input{Name: j.Name, Description: j.Description, PaymentAmount: j.PaymentAmount}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.PaymentAmount != nil {
		in.PaymentAmount = *p.PaymentAmount
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	ok, err := s.store.Update(ctx, id, caller.FamilyID, in.Name, in.Description, in.PaymentAmount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, caller, id, "update")
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := auth.RequireParent(caller); err != nil {
		return err
	}
	if _, err := s.job(ctx, caller, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Claim gives the job to childID if it is still available. The availability
// check and the write are a single conditional update; when two children
// race, the loser gets model.ErrJobAlreadyClaimed.
func (s *Service) Claim(ctx context.Context, caller auth.Caller, jobID, childID string) (*model.Job, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	kid, err := s.users.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if !kid.IsChild() || !caller.ActsFor(kid) {
		return nil, fmt.Errorf("kid %s: %w", childID, model.ErrNotFound)
	}
	j, err := s.job(ctx, caller, jobID)
	if err != nil {
		return nil, err
	}
	if err := approval.CheckJob(approval.Claim, j.Status); err != nil {
		s.metrics.JobClaim(false)
		return nil, fmt.Errorf("job %s: %w", jobID, model.ErrJobAlreadyClaimed)
	}

	ok, err := s.store.Claim(ctx, jobID, caller.FamilyID, childID,
		approval.JobFrom(approval.Claim), approval.JobTo(approval.Claim), s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.JobClaim(ok)
	if !ok {
		s.logger.Info("job claim lost", "job_id", jobID, "kid_id", childID)
		if _, err := s.job(ctx, caller, jobID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("job %s: %w", jobID, model.ErrJobAlreadyClaimed)
	}
	s.logger.Info("job claimed", "job_id", jobID, "kid_id", childID)
	return s.store.GetByID(ctx, jobID)
}

// Complete moves a claimed job to awaiting_approval. A child may only
// complete a job it claimed; anyone else's job reads as not found.
func (s *Service) Complete(ctx context.Context, caller auth.Caller, jobID string) (*model.Job, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	claimant := ""
	if !caller.IsParent() {
		claimant = caller.UserID
	}
	return s.transition(ctx, caller, jobID, approval.Complete, func(j *model.Job) (bool, error) {
		if claimant != "" && (j.ClaimedByID == nil || *j.ClaimedByID != claimant) {
			return false, fmt.Errorf("job %s: %w", jobID, model.ErrNotFound)
		}
		return s.store.Complete(ctx, jobID, caller.FamilyID, claimant,
			approval.JobFrom(approval.Complete), approval.JobTo(approval.Complete), s.now())
	})
}

func (s *Service) Approve(ctx context.Context, caller auth.Caller, jobID string) (*model.Job, error) {
	return s.decide(ctx, caller, jobID, approval.Approve, nil)
}

func (s *Service) Reject(ctx context.Context, caller auth.Caller, jobID, reason string) (*model.Job, error) {
	var r *string
	if reason = strings.TrimSpace(reason); reason != "" {
		r = &reason
	}
	return s.decide(ctx, caller, jobID, approval.Reject, r)
}

func (s *Service) decide(ctx context.Context, caller auth.Caller, jobID string, a approval.Action, reason *string) (*model.Job, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	return s.transition(ctx, caller, jobID, a, func(*model.Job) (bool, error) {
		return s.store.Decide(ctx, jobID, caller.FamilyID,
			approval.JobFrom(a), approval.JobTo(a), caller.UserID, reason, s.now())
	})
}

func (s *Service) transition(ctx context.Context, caller auth.Caller, id string, a approval.Action, apply func(*model.Job) (bool, error)) (*model.Job, error) {
	j, err := s.job(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := approval.CheckJob(a, j.Status); err != nil {
		return nil, err
	}
	ok, err := apply(j)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, caller, id, string(a))
	}
	s.metrics.JobTransition(string(a))
	s.logger.Info("job transition", "job_id", id, "action", string(a))
	return s.store.GetByID(ctx, id)
}

// conflict explains a conditional update that matched nothing: the job is
// gone, or it moved to a state the action does not allow.
func (s *Service) conflict(ctx context.Context, caller auth.Caller, id, action string) error {
	j, err := s.job(ctx, caller, id)
	if err != nil {
		return err
	}
	return &model.StateError{Entity: "job", Action: action, From: string(j.Status)}
}

func (s *Service) job(ctx context.Context, caller auth.Caller, id string) (*model.Job, error) {
	j, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil || j.FamilyID != caller.FamilyID {
		return nil, fmt.Errorf("job %s: %w", id, model.ErrNotFound)
	}
	return j, nil
}

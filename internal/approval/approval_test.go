package approval

import (
	"errors"
	"testing"

	"github.com/dukerupert/choreboard/internal/model"
)

func TestChoreTransitions(t *testing.T) {
	tests := []struct {
		action Action
		from   model.ChoreStatus
		ok     bool
	}{
		{Complete, model.ChorePending, true},
		{Complete, model.ChoreAwaitingApproval, false},
		{Complete, model.ChoreApproved, false},
		{Complete, model.ChoreRejected, false},
		{Approve, model.ChoreAwaitingApproval, true},
		{Approve, model.ChorePending, false},
		{Approve, model.ChoreRejected, false},
		{Reject, model.ChoreAwaitingApproval, true},
		{Reject, model.ChoreApproved, false},
		{Claim, model.ChorePending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.action)+"/"+string(tt.from), func(t *testing.T) {
			err := CheckChore(tt.action, tt.from)
			if tt.ok && err != nil {
				t.Fatalf("CheckChore = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, model.ErrInvalidState) {
				t.Fatalf("CheckChore = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestJobTransitions(t *testing.T) {
	tests := []struct {
		action Action
		from   model.JobStatus
		ok     bool
	}{
		{Claim, model.JobAvailable, true},
		{Claim, model.JobClaimed, false},
		{Complete, model.JobClaimed, true},
		{Complete, model.JobAvailable, false},
		{Complete, model.JobApproved, false},
		{Approve, model.JobAwaitingApproval, true},
		{Approve, model.JobClaimed, false},
		{Reject, model.JobAwaitingApproval, true},
		{Reject, model.JobRejected, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.action)+"/"+string(tt.from), func(t *testing.T) {
			err := CheckJob(tt.action, tt.from)
			if tt.ok && err != nil {
				t.Fatalf("CheckJob = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, model.ErrInvalidState) {
				t.Fatalf("CheckJob = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestTargets(t *testing.T) {
	if got := ChoreTo(Complete); got != model.ChoreAwaitingApproval {
		t.Errorf("ChoreTo(complete) = %q", got)
	}
	if got := ChoreTo(Reject); got != model.ChoreRejected {
		t.Errorf("ChoreTo(reject) = %q", got)
	}
	if got := JobTo(Claim); got != model.JobClaimed {
		t.Errorf("JobTo(claim) = %q", got)
	}
	if got := JobTo(Approve); got != model.JobApproved {
		t.Errorf("JobTo(approve) = %q", got)
	}
	if len(ChoreFrom(Claim)) != 0 {
		t.Error("chores cannot be claimed")
	}
}

func TestTerminal(t *testing.T) {
	if !ChoreTerminal(model.ChoreApproved) || !ChoreTerminal(model.ChoreRejected) {
		t.Error("approved and rejected chores are terminal")
	}
	if ChoreTerminal(model.ChorePending) || ChoreTerminal(model.ChoreAwaitingApproval) {
		t.Error("pending and awaiting chores are not terminal")
	}
	if !JobTerminal(model.JobRejected) || JobTerminal(model.JobClaimed) {
		t.Error("job terminal states misreported")
	}
}

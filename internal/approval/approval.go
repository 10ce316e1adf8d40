// Package approval holds the lifecycle rules shared by chore instances and
// jobs:
//
//	job:   available -> claimed -> awaiting_approval -> approved | rejected
//	chore: pending             -> awaiting_approval -> approved | rejected
//
// Stores execute each transition as a conditional update restricted to the
// source states returned by From, so a concurrent change is observed as zero
// affected rows rather than silently overwritten.
package approval

import (
	"github.com/dukerupert/choreboard/internal/model"
)

type Action string

const (
	Claim    Action = "claim"
	Complete Action = "complete"
	Approve  Action = "approve"
	Reject   Action = "reject"
)

var choreRules = map[Action]struct {
	from []model.ChoreStatus
	to   model.ChoreStatus
}{
	Complete: {from: []model.ChoreStatus{model.ChorePending}, to: model.ChoreAwaitingApproval},
	Approve:  {from: []model.ChoreStatus{model.ChoreAwaitingApproval}, to: model.ChoreApproved},
	Reject:   {from: []model.ChoreStatus{model.ChoreAwaitingApproval}, to: model.ChoreRejected},
}

var jobRules = map[Action]struct {
	from []model.JobStatus
	to   model.JobStatus
}{
	Claim:    {from: []model.JobStatus{model.JobAvailable}, to: model.JobClaimed},
	Complete: {from: []model.JobStatus{model.JobClaimed}, to: model.JobAwaitingApproval},
	Approve:  {from: []model.JobStatus{model.JobAwaitingApproval}, to: model.JobApproved},
	Reject:   {from: []model.JobStatus{model.JobAwaitingApproval}, to: model.JobRejected},
}

// ChoreFrom returns the states a chore instance may leave via a. It is empty
// for actions chores do not support.
func ChoreFrom(a Action) []model.ChoreStatus {
	return choreRules[a].from
}

// ChoreTo returns the state a chore instance enters via a.
func ChoreTo(a Action) model.ChoreStatus {
	return choreRules[a].to
}

// JobFrom returns the states a job may leave via a.
func JobFrom(a Action) []model.JobStatus {
	return jobRules[a].from
}

// JobTo returns the state a job enters via a.
func JobTo(a Action) model.JobStatus {
	return jobRules[a].to
}

// CheckChore returns a *model.StateError unless a is allowed from cur.
func CheckChore(a Action, cur model.ChoreStatus) error {
	for _, s := range ChoreFrom(a) {
		if s == cur {
			return nil
		}
	}
	return &model.StateError{Entity: "chore", Action: string(a), From: string(cur)}
}

// CheckJob returns a *model.StateError unless a is allowed from cur.
func CheckJob(a Action, cur model.JobStatus) error {
	for _, s := range JobFrom(a) {
		if s == cur {
			return nil
		}
	}
	return &model.StateError{Entity: "job", Action: string(a), From: string(cur)}
}

// ChoreTerminal reports whether no further transition leaves s.
func ChoreTerminal(s model.ChoreStatus) bool {
	return s == model.ChoreApproved || s == model.ChoreRejected
}

// JobTerminal reports whether no further transition leaves s.
func JobTerminal(s model.JobStatus) bool {
	return s == model.JobApproved || s == model.JobRejected
}

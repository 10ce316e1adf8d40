package approval

import (
	"slices"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

// Merge combines chore and job approvals into one queue ordered by
// completion time, oldest first. Items without a completion time go last.
func Merge(chores, jobs []model.PendingApproval) []model.PendingApproval {
	out := make([]model.PendingApproval, 0, len(chores)+len(jobs))
	out = append(out, chores...)
	out = append(out, jobs...)
	slices.SortStableFunc(out, func(a, b model.PendingApproval) int {
		return completed(a).Compare(completed(b))
	})
	return out
}

var never = time.Unix(1<<62, 0)

func completed(p model.PendingApproval) time.Time {
	if p.CompletedAt == nil {
		return never
	}
	return *p.CompletedAt
}

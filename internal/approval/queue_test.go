package approval

import (
	"testing"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

func TestMerge(t *testing.T) {
	at := func(h int) *time.Time {
		v := time.Date(2024, 1, 9, h, 0, 0, 0, time.UTC)
		return &v
	}
	chores := []model.PendingApproval{
		{ID: "c1", Kind: model.ApprovalKindChore, CompletedAt: at(9)},
		{ID: "c2", Kind: model.ApprovalKindChore, CompletedAt: at(14)},
	}
	jobs := []model.PendingApproval{
		{ID: "j1", Kind: model.ApprovalKindJob, CompletedAt: at(11)},
		{ID: "j2", Kind: model.ApprovalKindJob},
		{ID: "j3", Kind: model.ApprovalKindJob, CompletedAt: at(9)},
	}

	got := Merge(chores, jobs)
	want := []string{"c1", "j3", "j1", "c2", "j2"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("item %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", got)
	}
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/model"
)

func TestTransactionCreateAndList(t *testing.T) {
	f := seedFamily(t)
	ts := NewTransactionStore(f.db)
	ctx := context.Background()

	paid := monday.Add(time.Hour)
	week := monday
	rows := []*model.Transaction{
		{ID: "t1", UserID: f.kid.ID, Amount: decimal.NewFromInt(5), Type: model.TxWeeklyAllowance,
			Description: "Weekly Allowance", RelatedWeekStart: &week, CreatedAt: monday},
		{ID: "t2", UserID: f.kid.ID, Amount: decimal.NewFromInt(-3), Type: model.TxPayout,
			Description: "Cash payout", IsPaid: true, PaidAt: &paid, CreatedAt: paid},
	}
	for _, r := range rows {
		if _, err := ts.Create(ctx, r); err != nil {
			t.Fatalf("create %s: %v", r.ID, err)
		}
	}

	list, err := ts.ListByUser(ctx, f.kid.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d transactions, want 2", len(list))
	}
	if list[0].ID != "t2" {
		t.Errorf("first = %s, want newest t2", list[0].ID)
	}
	if !list[0].IsPaid || list[0].PaidAt == nil || !list[0].PaidAt.Equal(paid) {
		t.Errorf("payout = %+v", list[0])
	}
	if !list[0].Amount.Equal(decimal.NewFromInt(-3)) {
		t.Errorf("amount = %s, want -3", list[0].Amount)
	}
	if list[1].RelatedWeekStart == nil || !list[1].RelatedWeekStart.Equal(monday) {
		t.Errorf("related week = %v, want %v", list[1].RelatedWeekStart, monday)
	}
}

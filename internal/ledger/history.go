package ledger

import (
	"cmp"
	"context"
	"slices"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

// History lists every credit and debit for a child, newest first. Approved
// chores and jobs appear as derived entries next to the stored rows. Entries
// with equal dates keep their relative order; undated entries sort last.
func (s *Service) History(ctx context.Context, caller auth.Caller, kidID string) ([]model.LedgerEntry, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	if _, err := s.kid(ctx, caller, kidID); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, kidID)
	if err != nil {
		return nil, err
	}
	return entries(r), nil
}

func entries(r records) []model.LedgerEntry {
	out := make([]model.LedgerEntry, 0, len(r.chores)+len(r.jobs)+len(r.txs))
	for _, c := range r.chores {
		out = append(out, model.LedgerEntry{
			ID:          "chore-" + c.InstanceID,
			Kind:        model.EntryChore,
			Description: c.Name,
			Amount:      c.Value,
			Date:        c.ApprovedAt,
		})
	}
	for _, j := range r.jobs {
		out = append(out, model.LedgerEntry{
			ID:          "job-" + j.ID,
			Kind:        model.EntryJob,
			Description: j.Name,
			Amount:      j.PaymentAmount,
			Date:        j.ApprovedAt,
		})
	}
	for _, t := range r.txs {
		kind, fallback, ok := entryKind(t.Type)
		if !ok {
			continue
		}
		desc := t.Description
		if desc == "" {
			desc = fallback
		}
		created := t.CreatedAt
		out = append(out, model.LedgerEntry{
			ID:          kind + "-" + t.ID,
			Kind:        kind,
			Description: desc,
			Amount:      t.Amount,
			Date:        &created,
		})
	}

	slices.SortStableFunc(out, func(a, b model.LedgerEntry) int {
		return cmp.Compare(millis(b), millis(a))
	})
	return out
}

func millis(e model.LedgerEntry) int64 {
	if e.Date == nil {
		return 0
	}
	return e.Date.UnixMilli()
}

func entryKind(t model.TransactionType) (kind, fallback string, ok bool) {
	switch t {
	case model.TxWeeklyAllowance:
		return model.EntryAllowance, allowanceDescription, true
	case model.TxAdjustment:
		return model.EntryAdjustment, historyAdjustmentDescription, true
	case model.TxPayout:
		return model.EntryPayout, historyPayoutDescription, true
	}
	return "", "", false
}

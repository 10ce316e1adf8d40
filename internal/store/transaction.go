package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/choreboard/internal/model"
)

// TransactionStore is append-only: rows are inserted and read, never
// updated.
type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func scanTransaction(sc scanner) (*model.Transaction, error) {
	var t model.Transaction
	var jobID sql.NullString
	var week sql.NullInt64
	var paidAt sql.NullTime
	err := sc.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description,
		&jobID, &week, &t.IsPaid, &paidAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.RelatedJobID = stringPtr(jobID)
	if week.Valid {
		ws := fromWeekKey(week.Int64)
		t.RelatedWeekStart = &ws
	}
	t.PaidAt = timePtr(paidAt)
	return &t, nil
}

const transactionCols = `id, user_id, amount, type, description, related_job_id, related_week_start, is_paid, paid_at, created_at`

func (s *TransactionStore) Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	var week sql.NullInt64
	if t.RelatedWeekStart != nil {
		week = sql.NullInt64{Int64: weekKey(*t.RelatedWeekStart), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Amount.String(), string(t.Type), t.Description,
		nullString(t.RelatedJobID), week, t.IsPaid, nullTime(t.PaidAt), t.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return s.GetByID(ctx, t.ID)
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionCols+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListByUser returns the user's transactions, newest first.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE user_id = ? ORDER BY created_at DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxWeeklyAllowance TransactionType = "weekly_allowance"
	TxJobPayment      TransactionType = "job_payment"
	TxPayout          TransactionType = "payout"
	TxAdjustment      TransactionType = "adjustment"
)

// Transaction is an append-only ledger row. Payout amounts are negative.
type Transaction struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	Type             TransactionType `json:"type"`
	Description      string          `json:"description"`
	RelatedJobID     *string         `json:"related_job_id"`
	RelatedWeekStart *time.Time      `json:"related_week_start"`
	IsPaid           bool            `json:"is_paid"`
	PaidAt           *time.Time      `json:"paid_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Entry kinds shown in a kid's history.
const (
	EntryChore      = "chore"
	EntryJob        = "job"
	EntryAllowance  = "allowance"
	EntryAdjustment = "adjustment"
	EntryPayout     = "payout"
)

// LedgerEntry is one line of a kid's history. Chore and job entries are
// derived from approved records; the rest mirror Transaction rows.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Kind        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
}

type Balance struct {
	UserID            string          `json:"user_id"`
	Balance           decimal.Decimal `json:"balance"`
	ChoreEarnings     decimal.Decimal `json:"chore_earnings"`
	JobEarnings       decimal.Decimal `json:"job_earnings"`
	AllowanceEarnings decimal.Decimal `json:"allowance_earnings"`
	Adjustments       decimal.Decimal `json:"adjustments"`
	TotalPayouts      decimal.Decimal `json:"total_payouts"`
}

// KidBalance pairs a child with their balance for the family overview.
type KidBalance struct {
	User
	Balance
}

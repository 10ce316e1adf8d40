package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Job struct {
	ID              string          `json:"id"`
	FamilyID        string          `json:"family_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	CreatedByID     string          `json:"created_by_id"`
	ClaimedByID     *string         `json:"claimed_by_id"`
	ClaimedAt       *time.Time      `json:"claimed_at"`
	Status          JobStatus       `json:"status"`
	CompletedAt     *time.Time      `json:"completed_at"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	ApprovedByID    *string         `json:"approved_by_id"`
	RejectionReason *string         `json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
}

// JobListing is a job joined with the names of its creator and claimant.
type JobListing struct {
	Job
	CreatedByName string  `json:"created_by_name"`
	ClaimedByName *string `json:"claimed_by_name"`
}

// PendingApproval is a chore or job waiting on a parent decision.
type PendingApproval struct {
	ID          string          `json:"id"`
	Kind        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	CompletedAt *time.Time      `json:"completed_at"`
	KidID       string          `json:"kid_id"`
	KidName     string          `json:"kid_name"`
}

const (
	ApprovalKindChore = "chore"
	ApprovalKindJob   = "job"
)

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/model"
)

type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

func scanJob(sc scanner, extra ...any) (*model.Job, error) {
	var j model.Job
	var claimedBy, approvedBy, reason sql.NullString
	var claimed, completed, approved sql.NullTime
	dest := append([]any{
		&j.ID, &j.FamilyID, &j.Name, &j.Description, &j.PaymentAmount, &j.CreatedByID,
		&claimedBy, &claimed, &j.Status, &completed, &approved, &approvedBy, &reason, &j.CreatedAt,
	}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	j.ClaimedByID = stringPtr(claimedBy)
	j.ClaimedAt = timePtr(claimed)
	j.CompletedAt = timePtr(completed)
	j.ApprovedAt = timePtr(approved)
	j.ApprovedByID = stringPtr(approvedBy)
	j.RejectionReason = stringPtr(reason)
	return &j, nil
}

const jobCols = `j.id, j.family_id, j.name, j.description, j.payment_amount, j.created_by_id, j.claimed_by_id, j.claimed_at, j.status, j.completed_at, j.approved_at, j.approved_by_id, j.rejection_reason, j.created_at`

func (s *JobStore) Create(ctx context.Context, j *model.Job) (*model.Job, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, family_id, name, description, payment_amount, created_by_id, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.FamilyID, j.Name, j.Description, j.PaymentAmount.String(), j.CreatedByID, string(model.JobAvailable),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.GetByID(ctx, j.ID)
}

func (s *JobStore) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobCols+` FROM jobs j WHERE j.id = ?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// Update edits a job's description fields while it is still available.
func (s *JobStore) Update(ctx context.Context, id, familyID, name, description string, amount decimal.Decimal) (bool, error) {
	return s.execOne(ctx, "update job",
		`UPDATE jobs SET name = ?, description = ?, payment_amount = ? WHERE id = ? AND family_id = ? AND status = 'available'`,
		name, description, amount.String(), id, familyID,
	)
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// Claim assigns the job to childID only if it is still in one of the from
// states. The whole check happens inside one UPDATE, so of two concurrent
// claims exactly one matches a row.
func (s *JobStore) Claim(ctx context.Context, id, familyID, childID string, from []model.JobStatus, to model.JobStatus, at time.Time) (bool, error) {
	in, inArgs := statusIn("status", from)
	args := append([]any{string(to), childID, at.UTC(), id, familyID}, inArgs...)
	return s.execOne(ctx, "claim job",
		`UPDATE jobs SET status = ?, claimed_by_id = ?, claimed_at = ? WHERE id = ? AND family_id = ? AND `+in,
		args...,
	)
}

// Complete marks a claimed job done. A non-empty claimantID restricts the
// update to that child.
func (s *JobStore) Complete(ctx context.Context, id, familyID, claimantID string, from []model.JobStatus, to model.JobStatus, at time.Time) (bool, error) {
	in, inArgs := statusIn("status", from)
	query := `UPDATE jobs SET status = ?, completed_at = ? WHERE id = ? AND family_id = ? AND ` + in
	args := append([]any{string(to), at.UTC(), id, familyID}, inArgs...)
	if claimantID != "" {
		query += ` AND claimed_by_id = ?`
		args = append(args, claimantID)
	}
	return s.execOne(ctx, "complete job", query, args...)
}

func (s *JobStore) Decide(ctx context.Context, id, familyID string, from []model.JobStatus, to model.JobStatus, approverID string, reason *string, at time.Time) (bool, error) {
	in, inArgs := statusIn("status", from)
	args := append([]any{string(to), at.UTC(), approverID, nullString(reason), id, familyID}, inArgs...)
	return s.execOne(ctx, "decide job",
		`UPDATE jobs SET status = ?, approved_at = ?, approved_by_id = ?, rejection_reason = ? WHERE id = ? AND family_id = ? AND `+in,
		args...,
	)
}

func (s *JobStore) execOne(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

const listingFrom = ` FROM jobs j
	JOIN users c ON c.id = j.created_by_id
	LEFT JOIN users k ON k.id = j.claimed_by_id`

func (s *JobStore) listings(ctx context.Context, op, where string, args ...any) ([]model.JobListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobCols+`, c.name, k.name`+listingFrom+` WHERE `+where+` ORDER BY j.created_at DESC, j.id ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []model.JobListing
	for rows.Next() {
		var creator string
		var claimant sql.NullString
		j, err := scanJob(rows, &creator, &claimant)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, model.JobListing{Job: *j, CreatedByName: creator, ClaimedByName: stringPtr(claimant)})
	}
	return out, rows.Err()
}

// List returns the family's jobs, optionally restricted to statuses.
func (s *JobStore) List(ctx context.Context, familyID string, statuses ...model.JobStatus) ([]model.JobListing, error) {
	where := `j.family_id = ?`
	args := []any{familyID}
	if len(statuses) > 0 {
		in, inArgs := statusIn("j.status", statuses)
		where += ` AND ` + in
		args = append(args, inArgs...)
	}
	return s.listings(ctx, "list jobs", where, args...)
}

// ListForKid returns every job kidID has claimed, in any state.
func (s *JobStore) ListForKid(ctx context.Context, kidID string) ([]model.JobListing, error) {
	return s.listings(ctx, "list kid jobs", `j.claimed_by_id = ?`, kidID)
}

// ApprovedJobs returns approved jobs claimed by kidID.
func (s *JobStore) ApprovedJobs(ctx context.Context, kidID string) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobCols+` FROM jobs j WHERE j.claimed_by_id = ? AND j.status = 'approved' ORDER BY j.approved_at DESC, j.id ASC`,
		kidID,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved jobs: %w", err)
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// PendingJobs lists the family's jobs awaiting a parent decision.
func (s *JobStore) PendingJobs(ctx context.Context, familyID string) ([]model.PendingApproval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT j.id, j.name, j.description, j.payment_amount, j.completed_at, j.claimed_by_id, k.name
		 FROM jobs j JOIN users k ON k.id = j.claimed_by_id
		 WHERE j.family_id = ? AND j.status = 'awaiting_approval'
		 ORDER BY j.completed_at ASC, j.id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	defer rows.Close()

	var out []model.PendingApproval
	for rows.Next() {
		p := model.PendingApproval{Kind: model.ApprovalKindJob}
		var completed sql.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Value, &completed, &p.KidID, &p.KidName); err != nil {
			return nil, fmt.Errorf("scan pending job: %w", err)
		}
		p.CompletedAt = timePtr(completed)
		out = append(out, p)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

// --- Template methods ---

func scanTemplate(sc scanner, extra ...any) (*model.ChoreTemplate, error) {
	var t model.ChoreTemplate
	var days sql.NullString
	dest := append([]any{
		&t.ID, &t.FamilyID, &t.Name, &t.Description, &t.Value, &days,
		&t.AssignedToID, &t.CreatedByID, &t.IsActive, &t.CreatedAt,
	}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	w, err := decodeWeekdays(days)
	if err != nil {
		return nil, err
	}
	t.DaysOfWeek = w
	return &t, nil
}

const templateCols = `t.id, t.family_id, t.name, t.description, t.value, t.days_of_week, t.assigned_to_id, t.created_by_id, t.is_active, t.created_at`

func (s *ChoreStore) CreateTemplate(ctx context.Context, t *model.ChoreTemplate) (*model.ChoreTemplate, error) {
	days, err := encodeWeekdays(t.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chore_templates (id, family_id, name, description, value, days_of_week, assigned_to_id, created_by_id, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.FamilyID, t.Name, t.Description, t.Value.String(), days, t.AssignedToID, t.CreatedByID, t.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return s.GetTemplate(ctx, t.ID)
}

func (s *ChoreStore) GetTemplate(ctx context.Context, id string) (*model.ChoreTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateCols+` FROM chore_templates t WHERE t.id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// UpdateTemplate overwrites every mutable column of t.
func (s *ChoreStore) UpdateTemplate(ctx context.Context, t *model.ChoreTemplate) (*model.ChoreTemplate, error) {
	days, err := encodeWeekdays(t.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE chore_templates SET name = ?, description = ?, value = ?, days_of_week = ?, assigned_to_id = ?, is_active = ?
		 WHERE id = ? AND family_id = ?`,
		t.Name, t.Description, t.Value.String(), days, t.AssignedToID, t.IsActive, t.ID, t.FamilyID,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetTemplate(ctx, t.ID)
}

func (s *ChoreStore) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chore_templates WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// ListTemplates returns all of a family's templates with assignee names.
func (s *ChoreStore) ListTemplates(ctx context.Context, familyID string) ([]model.TemplateWithAssignee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateCols+`, u.name FROM chore_templates t
		 JOIN users u ON u.id = t.assigned_to_id
		 WHERE t.family_id = ? ORDER BY u.name ASC, t.name ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []model.TemplateWithAssignee
	for rows.Next() {
		var name string
		t, err := scanTemplate(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, model.TemplateWithAssignee{ChoreTemplate: *t, AssignedToName: name})
	}
	return out, rows.Err()
}

func (s *ChoreStore) ListActiveTemplates(ctx context.Context, familyID string) ([]model.ChoreTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateCols+` FROM chore_templates t WHERE t.family_id = ? AND t.is_active = 1 ORDER BY t.created_at ASC, t.id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	defer rows.Close()

	var out []model.ChoreTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// --- Instance methods ---

func scanInstance(sc scanner) (*model.ChoreInstance, error) {
	var i model.ChoreInstance
	var week int64
	var completed, approved sql.NullTime
	var approvedBy, reason sql.NullString
	err := sc.Scan(
		&i.ID, &i.FamilyID, &i.TemplateID, &i.AssignedToID, &week, &i.Status,
		&completed, &approved, &approvedBy, &reason, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.WeekStart = fromWeekKey(week)
	i.CompletedAt = timePtr(completed)
	i.ApprovedAt = timePtr(approved)
	i.ApprovedByID = stringPtr(approvedBy)
	i.RejectionReason = stringPtr(reason)
	return &i, nil
}

const instanceCols = `id, family_id, template_id, assigned_to_id, week_start, status, completed_at, approved_at, approved_by_id, rejection_reason, created_at`

// InstanceTemplateIDs returns the template ids that already have an
// instance with a week start inside [start, end].
func (s *ChoreStore) InstanceTemplateIDs(ctx context.Context, familyID string, start, end time.Time) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT template_id FROM chore_instances WHERE family_id = ? AND week_start >= ? AND week_start <= ?`,
		familyID, weekKey(start), weekKey(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list instance templates: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan template id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// InsertInstance adds i unless the (template, week) pair already exists.
// It reports whether a row was written.
func (s *ChoreStore) InsertInstance(ctx context.Context, i *model.ChoreInstance) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chore_instances (id, family_id, template_id, assigned_to_id, week_start, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (template_id, week_start) DO NOTHING`,
		i.ID, i.FamilyID, i.TemplateID, i.AssignedToID, weekKey(i.WeekStart), string(i.Status), i.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("insert instance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *ChoreStore) GetInstance(ctx context.Context, id string) (*model.ChoreInstance, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+instanceCols+` FROM chore_instances WHERE id = ?`, id)
	i, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	return i, nil
}

// CompleteInstance moves an instance in one of the from states to `to` and
// stamps its completion time. A non-empty kidID restricts the update to that
// assignee.
func (s *ChoreStore) CompleteInstance(ctx context.Context, id, familyID, kidID string, from []model.ChoreStatus, to model.ChoreStatus, at time.Time) (bool, error) {
	in, inArgs := statusIn("status", from)
	query := `UPDATE chore_instances SET status = ?, completed_at = ? WHERE id = ? AND family_id = ? AND ` + in
	args := append([]any{string(to), at.UTC(), id, familyID}, inArgs...)
	if kidID != "" {
		query += ` AND assigned_to_id = ?`
		args = append(args, kidID)
	}
	return s.execOne(ctx, "complete instance", query, args...)
}

// DecideInstance records a parent's approval or rejection.
func (s *ChoreStore) DecideInstance(ctx context.Context, id, familyID string, from []model.ChoreStatus, to model.ChoreStatus, approverID string, reason *string, at time.Time) (bool, error) {
	in, inArgs := statusIn("status", from)
	query := `UPDATE chore_instances SET status = ?, approved_at = ?, approved_by_id = ?, rejection_reason = ?
		 WHERE id = ? AND family_id = ? AND ` + in
	args := append([]any{string(to), at.UTC(), approverID, nullString(reason), id, familyID}, inArgs...)
	return s.execOne(ctx, "decide instance", query, args...)
}

func (s *ChoreStore) execOne(ctx context.Context, op, query string, args ...any) (bool, error) {
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

// WeekChores lists a family's instances with a week start inside
// [start, end] joined with template and assignee. A non-empty kidID
// restricts the list to that child.
func (s *ChoreStore) WeekChores(ctx context.Context, familyID, kidID string, start, end time.Time) ([]model.WeeklyChore, error) {
	query := `SELECT i.id, i.template_id, t.name, t.description, t.value, i.status, t.days_of_week,
		i.week_start, i.completed_at, i.approved_at, i.rejection_reason, i.assigned_to_id, u.name
		FROM chore_instances i
		JOIN chore_templates t ON t.id = i.template_id
		JOIN users u ON u.id = i.assigned_to_id
		WHERE i.family_id = ? AND i.week_start >= ? AND i.week_start <= ?`
	args := []any{familyID, weekKey(start), weekKey(end)}
	if kidID != "" {
		query += ` AND i.assigned_to_id = ?`
		args = append(args, kidID)
	}
	query += ` ORDER BY u.name ASC, t.name ASC, i.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list week chores: %w", err)
	}
	defer rows.Close()

	var out []model.WeeklyChore
	for rows.Next() {
		var c model.WeeklyChore
		var days, reason sql.NullString
		var week int64
		var completed, approved sql.NullTime
		err := rows.Scan(
			&c.ID, &c.TemplateID, &c.Name, &c.Description, &c.Value, &c.Status, &days,
			&week, &completed, &approved, &reason, &c.KidID, &c.KidName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan week chore: %w", err)
		}
		if c.DaysOfWeek, err = decodeWeekdays(days); err != nil {
			return nil, err
		}
		c.WeekStart = fromWeekKey(week)
		c.CompletedAt = timePtr(completed)
		c.ApprovedAt = timePtr(approved)
		c.RejectionReason = stringPtr(reason)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ApprovedChores returns every approved instance assigned to kidID with the
// template value it earned.
func (s *ChoreStore) ApprovedChores(ctx context.Context, kidID string) ([]model.ApprovedChore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, t.name, t.value, i.approved_at FROM chore_instances i
		 JOIN chore_templates t ON t.id = i.template_id
		 WHERE i.assigned_to_id = ? AND i.status = 'approved'
		 ORDER BY i.approved_at DESC, i.id ASC`,
		kidID,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved chores: %w", err)
	}
	defer rows.Close()

	var out []model.ApprovedChore
	for rows.Next() {
		var c model.ApprovedChore
		var approved sql.NullTime
		if err := rows.Scan(&c.InstanceID, &c.Name, &c.Value, &approved); err != nil {
			return nil, fmt.Errorf("scan approved chore: %w", err)
		}
		c.ApprovedAt = timePtr(approved)
		out = append(out, c)
	}
	return out, rows.Err()
}

// PendingChores lists the family's instances awaiting a parent decision.
func (s *ChoreStore) PendingChores(ctx context.Context, familyID string) ([]model.PendingApproval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, t.name, t.description, t.value, i.completed_at, i.assigned_to_id, u.name
		 FROM chore_instances i
		 JOIN chore_templates t ON t.id = i.template_id
		 JOIN users u ON u.id = i.assigned_to_id
		 WHERE i.family_id = ? AND i.status = 'awaiting_approval'
		 ORDER BY i.completed_at ASC, i.id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending chores: %w", err)
	}
	defer rows.Close()

	var out []model.PendingApproval
	for rows.Next() {
		p := model.PendingApproval{Kind: model.ApprovalKindChore}
		var completed sql.NullTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Value, &completed, &p.KidID, &p.KidName); err != nil {
			return nil, fmt.Errorf("scan pending chore: %w", err)
		}
		p.CompletedAt = timePtr(completed)
		out = append(out, p)
	}
	return out, rows.Err()
}

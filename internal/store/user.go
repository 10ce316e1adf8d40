package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(sc scanner) (*model.User, error) {
	var u model.User
	var familyID, hash sql.NullString
	err := sc.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &familyID,
		&u.WeeklyAllowance, &hash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.FamilyID = stringPtr(familyID)
	u.PasswordHash = hash.String
	return &u, nil
}

const userCols = `id, name, email, role, family_id, weekly_allowance, password_hash, created_at, updated_at`

func (s *UserStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	var hash sql.NullString
	if u.PasswordHash != "" {
		hash = sql.NullString{String: u.PasswordHash, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, family_id, weekly_allowance, password_hash) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, string(u.Role), nullString(u.FamilyID), u.WeeklyAllowance.String(), hash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByID(ctx, u.ID)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetFamily(ctx context.Context, id, familyID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET family_id = ?, updated_at = ? WHERE id = ?`,
		familyID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set user family: %w", err)
	}
	return nil
}

func (s *UserStore) UpdateChild(ctx context.Context, id, name string, allowance decimal.Decimal) (*model.User, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, weekly_allowance = ?, updated_at = ? WHERE id = ? AND role = 'child'`,
		name, allowance.String(), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}
	return s.GetByID(ctx, id)
}

// ListChildren returns the family's children ordered by name.
func (s *UserStore) ListChildren(ctx context.Context, familyID string) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users WHERE family_id = ? AND role = 'child' ORDER BY name ASC, id ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// DeleteChild removes a child and everything they own. Undecided jobs the
// child claimed go back to available; decided ones are removed. Templates,
// instances, transactions and sessions go with the user row.
func (s *UserStore) DeleteChild(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET status = 'available', claimed_by_id = NULL, claimed_at = NULL, completed_at = NULL
		 WHERE claimed_by_id = ? AND status IN ('claimed', 'awaiting_approval')`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("release claimed jobs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE claimed_by_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete decided jobs: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ? AND role = 'child'`, id)
	if err != nil {
		return false, fmt.Errorf("delete child: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	return true, tx.Commit()
}

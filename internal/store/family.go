package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/choreboard/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func scanFamily(sc scanner) (*model.Family, error) {
	var f model.Family
	if err := sc.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FamilyStore) Create(ctx context.Context, id, name string) (*model.Family, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO families (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *FamilyStore) GetByID(ctx context.Context, id string) (*model.Family, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

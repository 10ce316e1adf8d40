// Package store persists choreboard records in SQLite. Lookups return
// (nil, nil) when the row does not exist; conditional updates report whether
// a row matched so callers can tell a lost race from success.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

type scanner interface{ Scan(...any) error }

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

// weekKey is the stored form of a week start: unix milliseconds.
func weekKey(t time.Time) int64 {
	return t.UnixMilli()
}

func fromWeekKey(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func encodeWeekdays(w model.Weekdays) (sql.NullString, error) {
	if w == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal([]int(w))
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode weekdays: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeWeekdays(ns sql.NullString) (model.Weekdays, error) {
	if !ns.Valid {
		return nil, nil
	}
	w := model.Weekdays{}
	if err := json.Unmarshal([]byte(ns.String), &w); err != nil {
		return nil, fmt.Errorf("decode weekdays: %w", err)
	}
	return w, nil
}

// statusIn renders "status IN (?, ?)" for the given states.
func statusIn[S ~string](col string, states []S) (string, []any) {
	if len(states) == 0 {
		return "0", nil
	}
	args := make([]any, len(states))
	for i, s := range states {
		args[i] = string(s)
	}
	return col + " IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(states)), ", ") + ")", args
}

package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Weekdays is an ordered set of Monday-first weekday indices (0 = Monday,
// 6 = Sunday). A nil set means the chore may be done on any day.
type Weekdays []int

// Normalize returns a sorted copy with duplicates removed. Nil stays nil.
func (w Weekdays) Normalize() Weekdays {
	if w == nil {
		return nil
	}
	out := slices.Clone(w)
	slices.Sort(out)
	return slices.Compact(out)
}

// Validate rejects indices outside 0..6.
func (w Weekdays) Validate() error {
	for _, d := range w {
		if d < 0 || d > 6 {
			return Invalid("days_of_week", "weekday index %d out of range 0..6", d)
		}
	}
	return nil
}

// Contains reports whether day is in the set. A nil set contains every day.
func (w Weekdays) Contains(day int) bool {
	if w == nil {
		return true
	}
	return slices.Contains(w, day)
}

type ChoreTemplate struct {
	ID           string          `json:"id"`
	FamilyID     string          `json:"family_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Value        decimal.Decimal `json:"value"`
	DaysOfWeek   Weekdays        `json:"days_of_week"`
	AssignedToID string          `json:"assigned_to_id"`
	CreatedByID  string          `json:"created_by_id"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ChoreInstance struct {
	ID              string      `json:"id"`
	FamilyID        string      `json:"family_id"`
	TemplateID      string      `json:"template_id"`
	AssignedToID    string      `json:"assigned_to_id"`
	WeekStart       time.Time   `json:"week_start"`
	Status          ChoreStatus `json:"status"`
	CompletedAt     *time.Time  `json:"completed_at"`
	ApprovedAt      *time.Time  `json:"approved_at"`
	ApprovedByID    *string     `json:"approved_by_id"`
	RejectionReason *string     `json:"rejection_reason"`
	CreatedAt       time.Time   `json:"created_at"`
}

// TemplateWithAssignee is a template joined with its assignee's display name.
type TemplateWithAssignee struct {
	ChoreTemplate
	AssignedToName string `json:"assigned_to_name"`
}

// WeeklyChore is one materialized instance joined with its template and kid.
type WeeklyChore struct {
	ID              string          `json:"id"`
	TemplateID      string          `json:"template_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Value           decimal.Decimal `json:"value"`
	Status          ChoreStatus     `json:"status"`
	DaysOfWeek      Weekdays        `json:"days_of_week"`
	WeekStart       time.Time       `json:"week_start"`
	CompletedAt     *time.Time      `json:"completed_at"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	KidID           string          `json:"kid_id"`
	KidName         string          `json:"kid_name"`
}

// ApprovedChore is the slice of an approved instance the ledger needs.
type ApprovedChore struct {
	InstanceID string
	Name       string
	Value      decimal.Decimal
	ApprovedAt *time.Time
}

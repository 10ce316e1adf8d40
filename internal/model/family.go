package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Role            Role            `json:"role"`
	FamilyID        *string         `json:"family_id"`
	WeeklyAllowance decimal.Decimal `json:"weekly_allowance"`
	PasswordHash    string          `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// InFamily reports whether the user belongs to familyID.
func (u *User) InFamily(familyID string) bool {
	return u != nil && u.FamilyID != nil && *u.FamilyID == familyID && familyID != ""
}

// IsChild reports whether the user has the child role.
func (u *User) IsChild() bool {
	return u != nil && u.Role == RoleChild
}

// Package auth carries the identity of the caller through a request and
// gates operations by role.
package auth

import (
	"context"

	"github.com/dukerupert/choreboard/internal/model"
)

type contextKey struct{}

// Caller is the authenticated identity an operation runs on behalf of. The
// zero value is an anonymous caller.
type Caller struct {
	UserID    string
	FamilyID  string
	Role      model.Role
	SessionID int64
}

func (c Caller) Authenticated() bool { return c.UserID != "" }

func (c Caller) IsParent() bool { return c.Authenticated() && c.Role == model.RoleParent }

// RequireParent returns model.ErrUnauthenticated for an anonymous caller and
// model.ErrForbidden for a caller that is not a parent.
func RequireParent(c Caller) error {
	if !c.Authenticated() {
		return model.ErrUnauthenticated
	}
	if c.Role != model.RoleParent {
		return model.ErrForbidden
	}
	return nil
}

// RequireMember returns model.ErrUnauthenticated for an anonymous caller.
func RequireMember(c Caller) error {
	if !c.Authenticated() {
		return model.ErrUnauthenticated
	}
	return nil
}

// ActsFor reports whether c may act on a child's behalf: a parent of the
// same family, or the child itself.
func (c Caller) ActsFor(kid *model.User) bool {
	if kid == nil || !kid.InFamily(c.FamilyID) {
		return false
	}
	return c.Role == model.RoleParent || c.UserID == kid.ID
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok
}

// CallerFrom returns the caller in ctx or the anonymous caller.
func CallerFrom(ctx context.Context) Caller {
	c, _ := FromContext(ctx)
	return c
}

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/choreboard/internal/model"
)

func TestWithCallerAndFromContext(t *testing.T) {
	c := Caller{UserID: "u1", FamilyID: "f1", Role: model.RoleParent, SessionID: 3}

	ctx := WithCaller(context.Background(), c)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Caller in context")
	}
	if got != c {
		t.Errorf("caller = %+v, want %+v", got, c)
	}
}

func TestCallerFromMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected false for missing Caller")
	}
	if c := CallerFrom(context.Background()); c.Authenticated() {
		t.Errorf("CallerFrom = %+v, want anonymous", c)
	}
}

func TestRequireParent(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		want   error
	}{
		{"anonymous", Caller{}, model.ErrUnauthenticated},
		{"child", Caller{UserID: "k", Role: model.RoleChild}, model.ErrForbidden},
		{"parent", Caller{UserID: "p", Role: model.RoleParent}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RequireParent(tt.caller); !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("RequireParent = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRequireMember(t *testing.T) {
	if err := RequireMember(Caller{}); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("anonymous = %v, want ErrUnauthenticated", err)
	}
	if err := RequireMember(Caller{UserID: "k", Role: model.RoleChild}); err != nil {
		t.Errorf("child = %v, want nil", err)
	}
}

func TestActsFor(t *testing.T) {
	fam, other := "f1", "f2"
	kid := &model.User{ID: "k1", FamilyID: &fam, Role: model.RoleChild}
	stranger := &model.User{ID: "k2", FamilyID: &other, Role: model.RoleChild}

	parent := Caller{UserID: "p", FamilyID: fam, Role: model.RoleParent}
	if !parent.ActsFor(kid) {
		t.Error("parent should act for own kid")
	}
	if parent.ActsFor(stranger) {
		t.Error("parent acted for another family's kid")
	}

	self := Caller{UserID: "k1", FamilyID: fam, Role: model.RoleChild}
	if !self.ActsFor(kid) {
		t.Error("kid should act for itself")
	}
	sibling := Caller{UserID: "k3", FamilyID: fam, Role: model.RoleChild}
	if sibling.ActsFor(kid) {
		t.Error("sibling acted for kid")
	}
	if parent.ActsFor(nil) {
		t.Error("acted for nil kid")
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

const cookie = "choreboard_session"

type fakeAuth map[string]auth.Caller

func (f fakeAuth) Authenticate(_ context.Context, token string) (auth.Caller, error) {
	if token == "broken" {
		return auth.Caller{}, errors.New("db down")
	}
	c, ok := f[token]
	if !ok {
		return auth.Caller{}, model.ErrUnauthenticated
	}
	return c, nil
}

var callers = fakeAuth{
	"parent-token": {UserID: "parent-1", FamilyID: "fam-1", Role: model.RoleParent, SessionID: 1},
	"kid-token":    {UserID: "kid-1", FamilyID: "fam-1", Role: model.RoleChild, SessionID: 2},
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		user   string
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"bad cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookie, Value: "nope"}) }, http.StatusUnauthorized, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookie, Value: "parent-token"}) }, http.StatusOK, "parent-1"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer kid-token") }, http.StatusOK, "kid-1"},
		{"store error", func(r *http.Request) { r.Header.Set("Authorization", "Bearer broken") }, http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got auth.Caller
			handler := RequireAuth(callers, cookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.CallerFrom(r.Context())
			}))
			req := httptest.NewRequest("GET", "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got.UserID != tt.user {
				t.Errorf("caller = %q, want %q", got.UserID, tt.user)
			}
			if tt.status != http.StatusOK && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("error Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequireParent(t *testing.T) {
	chain := RequireAuth(callers, cookie)(RequireParent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	for token, want := range map[string]int{"parent-token": http.StatusNoContent, "kid-token": http.StatusForbidden} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", token, rec.Code, want)
		}
	}
}

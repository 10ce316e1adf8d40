package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

// Authenticator resolves a session token. *family.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Caller, error)
}

// Token returns the session token from the named cookie, or from an
// "Authorization: Bearer" header when there is no cookie.
func Token(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireAuth validates the session and stores the auth.Caller in the
// request context. Failures get a JSON 401.
func RequireAuth(a Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := a.Authenticate(r.Context(), Token(r, cookieName))
			if err != nil {
				if errors.Is(err, model.ErrUnauthenticated) {
					jsonError(w, http.StatusUnauthorized, "not authenticated")
				} else {
					jsonError(w, http.StatusInternalServerError, "internal error")
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
		})
	}
}

// RequireParent rejects callers without the parent role. It must run after
// RequireAuth.
func RequireParent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.CallerFrom(r.Context()).IsParent() {
			jsonError(w, http.StatusForbidden, "parent role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

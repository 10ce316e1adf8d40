package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/family"
	"github.com/dukerupert/choreboard/internal/middleware"
	"github.com/dukerupert/choreboard/internal/model"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	base
	family *family.Service
	cookie CookieConfig
}

func NewAuthHandler(fs *family.Service, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{base: base{logger: logger}, family: fs, cookie: cookie}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Signup registers a parent and logs them in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.family.Signup(r.Context(), family.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password}); err != nil {
		h.fail(w, r, err)
		return
	}
	h.login(w, r, req.Email, req.Password, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.login(w, r, req.Email, req.Password, http.StatusOK)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, email, password string, status int) {
	sess, user, err := h.family.Login(r.Context(), email, password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setCookie(w, sess)
	writeJSON(w, status, sessionResponse{User: user, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.Token(r, h.cookie.Name); token != "" {
		if err := h.family.Logout(r.Context(), token); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	UserID   string        `json:"user_id"`
	Role     model.Role    `json:"role"`
	FamilyID string        `json:"family_id,omitempty"`
	Family   *model.Family `json:"family"`
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	fam, err := h.family.Family(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{UserID: caller.UserID, Role: caller.Role, FamilyID: caller.FamilyID, Family: fam})
}

// KidSession hands a shared device to a child: the response carries a
// token for a session acting as that kid.
func (h *AuthHandler) KidSession(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	sess, err := h.family.KidSession(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	kid, err := h.family.GetKid(r.Context(), caller, sess.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: kid, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, sess *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

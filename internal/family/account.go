package family

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a parent. The family is created with the first child.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, model.Invalid("name", "must not be empty")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, model.Invalid("password", "must be at least %d characters", auth.MinPasswordLength)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.Invalid("email", "already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           s.ids(),
		Name:         name,
		Email:        email,
		Role:         model.RoleParent,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("parent signed up", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and opens a session. Unknown emails and wrong
// passwords both report ErrUnauthenticated.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, nil, fmt.Errorf("login %s: %w", email, model.ErrUnauthenticated)
	}
	sess, err := s.sessions.Create(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to the caller it belongs to.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Caller, error) {
	if token == "" {
		return auth.Caller{}, model.ErrUnauthenticated
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return auth.Caller{}, err
	}
	if sess == nil {
		return auth.Caller{}, model.ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return auth.Caller{}, err
	}
	if u == nil {
		return auth.Caller{}, model.ErrUnauthenticated
	}
	c := auth.Caller{UserID: u.ID, Role: u.Role, SessionID: sess.ID}
	if u.FamilyID != nil {
		c.FamilyID = *u.FamilyID
	}
	return c, nil
}

// KidSession opens a session acting as one of the caller's children, for a
// shared device handed to the kid.
func (s *Service) KidSession(ctx context.Context, caller auth.Caller, kidID string) (*model.Session, error) {
	if err := auth.RequireParent(caller); err != nil {
		return nil, err
	}
	kid, err := s.GetKid(ctx, caller, kidID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, kid.ID, s.sessionTTL)
}

func (s *Service) PurgeSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

// Family returns the caller's family, or nil before the first child exists.
func (s *Service) Family(ctx context.Context, caller auth.Caller) (*model.Family, error) {
	if err := auth.RequireMember(caller); err != nil {
		return nil, err
	}
	if caller.FamilyID == "" {
		return nil, nil
	}
	return s.families.GetByID(ctx, caller.FamilyID)
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.Invalid("email", "must not be empty")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", model.Invalid("email", "is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}

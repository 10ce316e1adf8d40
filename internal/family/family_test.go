package family

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/database"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/store"
)

type env struct {
	svc   *Service
	users *store.UserStore
	jobs  *store.JobStore
}

func setup(t *testing.T) env {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	svc := NewService(users, store.NewFamilyStore(db), store.NewSessionStore(db), time.Hour, slog.New(slog.DiscardHandler))
	n := 0
	svc.ids = func() string { n++; return fmt.Sprintf("id-%d", n) }
	return env{svc: svc, users: users, jobs: store.NewJobStore(db)}
}

// parent signs up and logs in, returning the authenticated caller.
func (e env) parent(t *testing.T, name, email string) auth.Caller {
	t.Helper()
	ctx := context.Background()
	if _, err := e.svc.Signup(ctx, SignupInput{Name: name, Email: email, Password: "correct horse"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	sess, _, err := e.svc.Login(ctx, email, "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	c, err := e.svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	return c
}

func TestSignupValidation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.parent(t, "Pat", "pat@example.com")

	tests := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"empty name", SignupInput{Email: "a@example.com", Password: "long enough"}, "name"},
		{"bad email", SignupInput{Name: "A", Email: "not-an-email", Password: "long enough"}, "email"},
		{"short password", SignupInput{Name: "A", Email: "a@example.com", Password: "short"}, "password"},
		{"duplicate", SignupInput{Name: "A", Email: "PAT@example.com", Password: "long enough"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Signup(ctx, tt.in)
			var ve *model.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	c := e.parent(t, "Pat", "pat@example.com")
	if !c.IsParent() || c.FamilyID != "" {
		t.Errorf("caller = %+v, want parent without family", c)
	}

	if _, _, err := e.svc.Login(ctx, "pat@example.com", "wrong password"); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("wrong password: err = %v, want ErrUnauthenticated", err)
	}
	if _, _, err := e.svc.Login(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("unknown email: err = %v, want ErrUnauthenticated", err)
	}

	sess, _, err := e.svc.Login(ctx, " Pat@Example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := e.svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := e.svc.Authenticate(ctx, sess.Token); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("after logout: err = %v, want ErrUnauthenticated", err)
	}
	if _, err := e.svc.Authenticate(ctx, ""); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("empty token: err = %v, want ErrUnauthenticated", err)
	}
}

func TestCreateKidCreatesFamily(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	c := e.parent(t, "Pat", "pat@example.com")

	kid, err := e.svc.CreateKid(ctx, c, KidInput{Name: "Ava", WeeklyAllowance: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("CreateKid: %v", err)
	}
	if kid.Role != model.RoleChild || kid.FamilyID == nil || kid.Email != kid.ID+"@kid.local" {
		t.Errorf("kid = %+v", kid)
	}

	parent, err := e.users.GetByID(ctx, c.UserID)
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if parent.FamilyID == nil || *parent.FamilyID != *kid.FamilyID {
		t.Fatalf("parent family = %v, want %s", parent.FamilyID, *kid.FamilyID)
	}

	// The stale caller still lands in the same family.
	second, err := e.svc.CreateKid(ctx, c, KidInput{Name: "Ben"})
	if err != nil {
		t.Fatalf("second CreateKid: %v", err)
	}
	if *second.FamilyID != *kid.FamilyID {
		t.Errorf("second kid family = %s, want %s", *second.FamilyID, *kid.FamilyID)
	}

	c.FamilyID = *kid.FamilyID
	fam, err := e.svc.Family(ctx, c)
	if err != nil {
		t.Fatalf("Family: %v", err)
	}
	if fam.Name != "Pat's Family" {
		t.Errorf("family name = %q", fam.Name)
	}

	kids, err := e.svc.ListKids(ctx, c)
	if err != nil {
		t.Fatalf("ListKids: %v", err)
	}
	if len(kids) != 2 || kids[0].Name != "Ava" || kids[1].Name != "Ben" {
		t.Errorf("kids = %+v", kids)
	}
}

func TestKidValidationAndUpdate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	c := e.parent(t, "Pat", "pat@example.com")

	if _, err := e.svc.CreateKid(ctx, c, KidInput{Name: " "}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("empty name: err = %v", err)
	}
	if _, err := e.svc.CreateKid(ctx, c, KidInput{Name: "Ava", WeeklyAllowance: decimal.NewFromInt(-1)}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("negative allowance: err = %v", err)
	}

	kid, err := e.svc.CreateKid(ctx, c, KidInput{Name: "Ava"})
	if err != nil {
		t.Fatalf("CreateKid: %v", err)
	}
	c.FamilyID = *kid.FamilyID

	ten := decimal.NewFromInt(10)
	got, err := e.svc.UpdateKid(ctx, c, kid.ID, KidPatch{WeeklyAllowance: &ten})
	if err != nil {
		t.Fatalf("UpdateKid: %v", err)
	}
	if got.Name != "Ava" || !got.WeeklyAllowance.Equal(ten) {
		t.Errorf("updated kid = %+v", got)
	}
	neg := decimal.NewFromInt(-3)
	if _, err := e.svc.UpdateKid(ctx, c, kid.ID, KidPatch{WeeklyAllowance: &neg}); !errors.Is(err, model.ErrValidation) {
		t.Errorf("negative update: err = %v", err)
	}
}

func TestKidScoping(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	pat := e.parent(t, "Pat", "pat@example.com")
	sam := e.parent(t, "Sam", "sam@example.com")

	kid, err := e.svc.CreateKid(ctx, pat, KidInput{Name: "Ava"})
	if err != nil {
		t.Fatalf("CreateKid: %v", err)
	}
	if _, err := e.svc.CreateKid(ctx, sam, KidInput{Name: "Zed"}); err != nil {
		t.Fatalf("CreateKid: %v", err)
	}
	sam, err = e.svc.Authenticate(ctx, mustLogin(t, e, "sam@example.com"))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if _, err := e.svc.GetKid(ctx, sam, kid.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("foreign GetKid: err = %v, want ErrNotFound", err)
	}
	if err := e.svc.DeleteKid(ctx, sam, kid.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("foreign DeleteKid: err = %v, want ErrNotFound", err)
	}
}

func mustLogin(t *testing.T, e env, email string) string {
	t.Helper()
	sess, _, err := e.svc.Login(context.Background(), email, "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return sess.Token
}

func TestKidSession(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	c := e.parent(t, "Pat", "pat@example.com")
	kid, err := e.svc.CreateKid(ctx, c, KidInput{Name: "Ava"})
	if err != nil {
		t.Fatalf("CreateKid: %v", err)
	}
	c.FamilyID = *kid.FamilyID

	sess, err := e.svc.KidSession(ctx, c, kid.ID)
	if err != nil {
		t.Fatalf("KidSession: %v", err)
	}
	kc, err := e.svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if kc.UserID != kid.ID || kc.Role != model.RoleChild || kc.FamilyID != c.FamilyID {
		t.Errorf("kid caller = %+v", kc)
	}

	if _, err := e.svc.KidSession(ctx, kc, kid.ID); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("kid opening session: err = %v, want ErrForbidden", err)
	}
	kids, err := e.svc.ListKids(ctx, kc)
	if err != nil || len(kids) != 1 || kids[0].ID != kid.ID {
		t.Errorf("kid ListKids = %+v, %v", kids, err)
	}
}

func TestDeleteKidReleasesJobs(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	c := e.parent(t, "Pat", "pat@example.com")
	kid, err := e.svc.CreateKid(ctx, c, KidInput{Name: "Ava"})
	if err != nil {
		t.Fatalf("CreateKid: %v", err)
	}
	c.FamilyID = *kid.FamilyID

	j, err := e.jobs.Create(ctx, &model.Job{
		ID: "job-1", FamilyID: c.FamilyID, Name: "Rake", PaymentAmount: decimal.NewFromInt(3), CreatedByID: c.UserID,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	ok, err := e.jobs.Claim(ctx, j.ID, c.FamilyID, kid.ID, []model.JobStatus{model.JobAvailable}, model.JobClaimed, time.Now())
	if err != nil || !ok {
		t.Fatalf("claim: %v %v", ok, err)
	}

	if err := e.svc.DeleteKid(ctx, c, kid.ID); err != nil {
		t.Fatalf("DeleteKid: %v", err)
	}
	if _, err := e.svc.GetKid(ctx, c, kid.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("deleted kid: err = %v, want ErrNotFound", err)
	}
	got, err := e.jobs.GetByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != model.JobAvailable || got.ClaimedByID != nil {
		t.Errorf("job after delete = %+v, want available", got)
	}
}

package store

import (
	"context"
	"testing"
	"time"
)

func TestSessionCreateAndGet(t *testing.T) {
	f := seedFamily(t)
	ss := NewSessionStore(f.db)
	ctx := context.Background()

	sess, err := ss.Create(ctx, f.parent.ID, time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != f.parent.ID {
		t.Errorf("user_id = %q, want %q", sess.UserID, f.parent.ID)
	}

	got, err := ss.GetByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Fatalf("got %+v, want session %d", got, sess.ID)
	}

	missing, err := ss.GetByToken(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for nonexistent token")
	}
}

func TestSessionExpiry(t *testing.T) {
	f := seedFamily(t)
	ss := NewSessionStore(f.db)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	sess, err := ss.Create(ctx, f.parent.ID, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(2 * time.Hour)
	got, err := ss.GetByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("get expired: %v", err)
	}
	if got != nil {
		t.Error("expired session still returned")
	}

	n, err := ss.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
}

func TestSessionDelete(t *testing.T) {
	f := seedFamily(t)
	ss := NewSessionStore(f.db)
	ctx := context.Background()

	sess, _ := ss.Create(ctx, f.parent.ID, time.Hour)
	if err := ss.Delete(ctx, sess.Token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := ss.GetByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
)

func withCaller(c auth.Caller, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), c)))
	})
}

func TestHandlerRejectsAnonymous(t *testing.T) {
	hub := NewHub(nil, discard)
	rec := httptest.NewRecorder()
	Handler(hub, nil).ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandlerDeliversFamilyMessages(t *testing.T) {
	hub := NewHub(nil, discard)
	caller := auth.Caller{UserID: "parent-1", FamilyID: "fam-1", Role: model.RoleParent}
	srv := httptest.NewServer(withCaller(caller, Handler(hub, nil)))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+srv.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount("fam-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast("fam-1", NewMessage("chore", "approved", "c1", nil))
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"type":"chore_approved","entity":"chore","action":"approved","id":"c1"}` {
		t.Errorf("message = %s", data)
	}
}

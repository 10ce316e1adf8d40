package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dukerupert/choreboard/internal/metrics"
)

var discard = slog.New(slog.DiscardHandler)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, familyID string) *Client {
	return &Client{
		hub:      hub,
		familyID: familyID,
		send:     make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	hub := NewHub(m, discard)

	c1 := mockClient(hub, "fam-1")
	c2 := mockClient(hub, "fam-2")
	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(""); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}
	if got := hub.ClientCount("fam-1"); got != 1 {
		t.Fatalf("expected 1 fam-1 client, got %d", got)
	}
	if got := testutil.ToFloat64(m.WebsocketClients); got != 2 {
		t.Errorf("gauge = %v, want 2", got)
	}

	hub.Unregister(c1)
	hub.Unregister(c1)
	hub.Unregister(c2)

	if got := hub.ClientCount(""); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
	if got := testutil.ToFloat64(m.WebsocketClients); got != 0 {
		t.Errorf("gauge = %v, want 0", got)
	}
}

func TestBroadcastStaysInFamily(t *testing.T) {
	hub := NewHub(nil, discard)

	mine := mockClient(hub, "fam-1")
	sibling := mockClient(hub, "fam-1")
	other := mockClient(hub, "fam-2")
	for _, c := range []*Client{mine, sibling, other} {
		hub.Register(c)
	}

	hub.Broadcast("fam-1", NewMessage("job", "claimed", "job-7", map[string]any{"kid_id": "kid-1"}))

	for _, c := range []*Client{mine, sibling} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "job_claimed" || got.ID != "job-7" {
				t.Errorf("got %+v", got)
			}
			if got.Extra["kid_id"] != "kid-1" {
				t.Errorf("extra = %v", got.Extra)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}
	select {
	case data := <-other.send:
		t.Errorf("other family received %s", data)
	default:
	}
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(nil, discard)
	hub.Broadcast("fam-1", NewMessage("chore", "completed", "c1", nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(nil, discard)
	c := mockClient(hub, "fam-1")
	hub.Register(c)

	for i := 0; i < sendBufferSize+1; i++ {
		hub.Broadcast("fam-1", NewMessage("test", "fill", "", nil))
	}

	count := 0
	for len(c.send) > 0 {
		<-c.send
		count++
	}
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}
	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("ledger", "payout", "kid-1", nil)
	if msg.Type != "ledger_payout" || msg.Entity != "ledger" || msg.Action != "payout" || msg.ID != "kid-1" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(nil, discard)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub, "fam-1")
			hub.Register(c)
			hub.Broadcast("fam-1", NewMessage("test", "concurrent", "", nil))
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(""); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

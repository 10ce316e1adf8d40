// Package websocket pushes change notifications to connected family
// members so boards refresh without polling.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/choreboard/internal/metrics"
)

// Message tells clients which record changed; they refetch the details.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id string, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// Hub groups clients by family; a broadcast only reaches its own family.
type Hub struct {
	mu       sync.RWMutex
	families map[string]map[*Client]struct{}
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewHub(m *metrics.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		families: make(map[string]map[*Client]struct{}),
		metrics:  m,
		logger:   logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.families[c.familyID]
	if !ok {
		set = make(map[*Client]struct{})
		h.families[c.familyID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.ClientConnected()
}

// Unregister removes a client and closes its send channel. Repeat calls are
// no-ops.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set := h.families[c.familyID]
	_, ok := set[c]
	if ok {
		delete(set, c)
		close(c.send)
		if len(set) == 0 {
			delete(h.families, c.familyID)
		}
	}
	h.mu.Unlock()
	if ok {
		h.metrics.ClientDisconnected()
	}
}

// Broadcast queues msg for every client in familyID. Clients whose buffer
// is full miss the message.
func (h *Hub) Broadcast(familyID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.families[familyID] {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("dropped broadcast", "family_id", familyID, "type", msg.Type)
		}
	}
}

// ClientCount returns the number of clients connected for familyID, or for
// every family when familyID is empty.
func (h *Hub) ClientCount(familyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if familyID != "" {
		return len(h.families[familyID])
	}
	n := 0
	for _, set := range h.families {
		n += len(set)
	}
	return n
}

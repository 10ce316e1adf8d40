// Package handler exposes the choreboard services as a JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/websocket"
)

// Broadcaster fans a change out to a family's connected clients.
// *websocket.Hub satisfies it.
type Broadcaster interface {
	Broadcast(familyID string, msg websocket.Message)
}

// base carries what every handler needs: change notifications and logging.
type base struct {
	hub    Broadcaster
	logger *slog.Logger
}

func (b base) broadcast(familyID string, msg websocket.Message) {
	if b.hub != nil && familyID != "" {
		b.hub.Broadcast(familyID, msg)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// fail maps service errors onto status codes. Anything unrecognized is
// logged and reported as a 500 without detail.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Msg, Field: ve.Field})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, model.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "not authenticated"})
	case errors.Is(err, model.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, model.ErrJobAlreadyClaimed):
		writeJSON(w, http.StatusConflict, errorBody{Error: "job already claimed"})
	case errors.Is(err, model.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, model.ErrNoAllowanceConfigured):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: model.ErrNoAllowanceConfigured.Error()})
	default:
		b.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return model.Invalid("body", "invalid JSON")
}

// list keeps empty results encoding as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

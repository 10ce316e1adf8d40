package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/family"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type KidHandler struct {
	base
	family *family.Service
}

func NewKidHandler(fs *family.Service, hub Broadcaster, logger *slog.Logger) *KidHandler {
	return &KidHandler{base: base{hub: hub, logger: logger}, family: fs}
}

type kidRequest struct {
	Name            *string          `json:"name"`
	WeeklyAllowance *decimal.Decimal `json:"weekly_allowance"`
}

func (h *KidHandler) List(w http.ResponseWriter, r *http.Request) {
	kids, err := h.family.ListKids(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(kids))
}

func (h *KidHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req kidRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in := family.KidInput{WeeklyAllowance: decimal.Zero}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.WeeklyAllowance != nil {
		in.WeeklyAllowance = *req.WeeklyAllowance
	}

	kid, err := h.family.CreateKid(r.Context(), auth.CallerFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(*kid.FamilyID, websocket.NewMessage("kid", "created", kid.ID, nil))
	writeJSON(w, http.StatusCreated, kid)
}

func (h *KidHandler) Get(w http.ResponseWriter, r *http.Request) {
	kid, err := h.family.GetKid(r.Context(), auth.CallerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

func (h *KidHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req kidRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	kid, err := h.family.UpdateKid(r.Context(), caller, r.PathValue("id"), family.KidPatch{
		Name:            req.Name,
		WeeklyAllowance: req.WeeklyAllowance,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("kid", "updated", kid.ID, nil))
	writeJSON(w, http.StatusOK, kid)
}

func (h *KidHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	id := r.PathValue("id")
	if err := h.family.DeleteKid(r.Context(), caller, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("kid", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

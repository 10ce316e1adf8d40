package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/chore"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type ChoreHandler struct {
	base
	chores *chore.Service
}

func NewChoreHandler(cs *chore.Service, hub Broadcaster, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{base: base{hub: hub, logger: logger}, chores: cs}
}

type templateRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Value        *decimal.Decimal `json:"value"`
	AssignedToID *string          `json:"assigned_to_id"`
	DaysOfWeek   *model.Weekdays  `json:"days_of_week"`
	IsActive     *bool            `json:"is_active"`
}

func (h *ChoreHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := h.chores.ListTemplates(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(tpls))
}

func (h *ChoreHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in := chore.TemplateInput{Value: decimal.Zero}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Value != nil {
		in.Value = *req.Value
	}
	if req.AssignedToID != nil {
		in.AssignedToID = *req.AssignedToID
	}
	if req.DaysOfWeek != nil {
		in.DaysOfWeek = *req.DaysOfWeek
	}

	caller := auth.CallerFrom(r.Context())
	tpl, err := h.chores.CreateTemplate(r.Context(), caller, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("chore_template", "created", tpl.ID, nil))
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *ChoreHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	tpl, err := h.chores.UpdateTemplate(r.Context(), caller, r.PathValue("id"), chore.TemplatePatch{
		Name:         req.Name,
		Description:  req.Description,
		Value:        req.Value,
		AssignedToID: req.AssignedToID,
		DaysOfWeek:   req.DaysOfWeek,
		IsActive:     req.IsActive,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("chore_template", "updated", tpl.ID, nil))
	writeJSON(w, http.StatusOK, tpl)
}

func (h *ChoreHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	id := r.PathValue("id")
	if err := h.chores.DeleteTemplate(r.Context(), caller, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("chore_template", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

type weekResponse struct {
	WeekStart time.Time           `json:"week_start"`
	Label     string              `json:"label"`
	IsCurrent bool                `json:"is_current"`
	Summary   chore.Summary       `json:"summary"`
	Chores    []model.WeeklyChore `json:"chores"`
}

// weekStart reads ?week=YYYY-MM-DD, defaulting to the current week.
func (h *ChoreHandler) weekStart(r *http.Request) (time.Time, error) {
	ws, err := h.chores.Weeks().Parse(r.URL.Query().Get("week"))
	if err != nil {
		return time.Time{}, model.Invalid("week", "must be a YYYY-MM-DD date")
	}
	return ws, nil
}

func (h *ChoreHandler) respondWeek(w http.ResponseWriter, ws time.Time, chores []model.WeeklyChore) {
	writeJSON(w, http.StatusOK, weekResponse{
		WeekStart: ws,
		Label:     week.FormatRange(ws),
		IsCurrent: h.chores.Weeks().IsCurrent(ws),
		Summary:   chore.Summarize(chores),
		Chores:    list(chores),
	})
}

// FamilyWeek lists every child's chores for one week.
func (h *ChoreHandler) FamilyWeek(w http.ResponseWriter, r *http.Request) {
	ws, err := h.weekStart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chores, err := h.chores.WeekForFamily(r.Context(), auth.CallerFrom(r.Context()), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondWeek(w, ws, chores)
}

func (h *ChoreHandler) KidWeek(w http.ResponseWriter, r *http.Request) {
	ws, err := h.weekStart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chores, err := h.chores.WeekForKid(r.Context(), auth.CallerFrom(r.Context()), r.PathValue("id"), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondWeek(w, ws, chores)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	inst, err := h.chores.Complete(r.Context(), caller, r.PathValue("id"))
	h.respondInstance(w, r, caller, inst, "completed", err)
}

func (h *ChoreHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	inst, err := h.chores.Approve(r.Context(), caller, r.PathValue("id"))
	h.respondInstance(w, r, caller, inst, "approved", err)
}

func (h *ChoreHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	inst, err := h.chores.Reject(r.Context(), caller, r.PathValue("id"), req.Reason)
	h.respondInstance(w, r, caller, inst, "rejected", err)
}

func (h *ChoreHandler) respondInstance(w http.ResponseWriter, r *http.Request, caller auth.Caller, inst *model.ChoreInstance, action string, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("chore", action, inst.ID, map[string]any{"kid_id": inst.AssignedToID}))
	writeJSON(w, http.StatusOK, inst)
}

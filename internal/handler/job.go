package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/job"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type JobHandler struct {
	base
	jobs *job.Service
}

func NewJobHandler(js *job.Service, hub Broadcaster, logger *slog.Logger) *JobHandler {
	return &JobHandler{base: base{hub: hub, logger: logger}, jobs: js}
}

type jobRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
}

type jobPatchRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	PaymentAmount *decimal.Decimal `json:"payment_amount"`
}

type claimRequest struct {
	KidID string `json:"kid_id"`
}

// List returns every job for a parent and only open jobs for a child.
// ?status=available narrows a parent's view the same way.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	var (
		jobs []model.JobListing
		err  error
	)
	if caller.IsParent() && r.URL.Query().Get("status") != string(model.JobAvailable) {
		jobs, err = h.jobs.ListAll(r.Context(), caller)
	} else {
		jobs, err = h.jobs.ListAvailable(r.Context(), caller)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(jobs))
}

func (h *JobHandler) KidJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListForKid(r.Context(), auth.CallerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(jobs))
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	j, err := h.jobs.Create(r.Context(), caller, job.Input(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("job", "created", j.ID, nil))
	writeJSON(w, http.StatusCreated, j)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req jobPatchRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	j, err := h.jobs.Update(r.Context(), caller, r.PathValue("id"), job.Patch(req))
	h.respond(w, r, caller, j, "updated", err)
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	id := r.PathValue("id")
	if err := h.jobs.Delete(r.Context(), caller, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("job", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Claim assigns the job to kid_id, or to the caller when a child claims
// without naming anyone.
func (h *JobHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	if req.KidID == "" && !caller.IsParent() {
		req.KidID = caller.UserID
	}
	if req.KidID == "" {
		h.fail(w, r, model.Invalid("kid_id", "must not be empty"))
		return
	}
	j, err := h.jobs.Claim(r.Context(), caller, r.PathValue("id"), req.KidID)
	h.respond(w, r, caller, j, "claimed", err)
}

func (h *JobHandler) Complete(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	j, err := h.jobs.Complete(r.Context(), caller, r.PathValue("id"))
	h.respond(w, r, caller, j, "completed", err)
}

func (h *JobHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	j, err := h.jobs.Approve(r.Context(), caller, r.PathValue("id"))
	h.respond(w, r, caller, j, "approved", err)
}

func (h *JobHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	j, err := h.jobs.Reject(r.Context(), caller, r.PathValue("id"), req.Reason)
	h.respond(w, r, caller, j, "rejected", err)
}

func (h *JobHandler) respond(w http.ResponseWriter, r *http.Request, caller auth.Caller, j *model.Job, action string, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var extra map[string]any
	if j.ClaimedByID != nil {
		extra = map[string]any{"kid_id": *j.ClaimedByID}
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("job", action, j.ID, extra))
	writeJSON(w, http.StatusOK, j)
}

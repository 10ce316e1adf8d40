package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/approval"
	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/chore"
	"github.com/dukerupert/choreboard/internal/job"
	"github.com/dukerupert/choreboard/internal/ledger"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/week"
)

// DashboardHandler serves the parent overview and the merged approval
// queue.
type DashboardHandler struct {
	base
	chores *chore.Service
	jobs   *job.Service
	ledger *ledger.Service
}

func NewDashboardHandler(cs *chore.Service, js *job.Service, ls *ledger.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{base: base{logger: logger}, chores: cs, jobs: js, ledger: ls}
}

func (h *DashboardHandler) Approvals(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())
	queue, err := h.pending(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(queue))
}

func (h *DashboardHandler) pending(r *http.Request, caller auth.Caller) ([]model.PendingApproval, error) {
	chores, err := h.chores.PendingApprovals(r.Context(), caller)
	if err != nil {
		return nil, err
	}
	jobs, err := h.jobs.PendingApprovals(r.Context(), caller)
	if err != nil {
		return nil, err
	}
	return approval.Merge(chores, jobs), nil
}

type kidOverview struct {
	Kid      model.User          `json:"kid"`
	Balance  decimal.Decimal     `json:"balance"`
	Week     chore.Summary       `json:"week"`
	DueToday []model.WeeklyChore `json:"due_today"`
}

type dashboardResponse struct {
	WeekStart        time.Time       `json:"week_start"`
	WeekLabel        string          `json:"week_label"`
	Kids             []kidOverview   `json:"kids"`
	PendingApprovals int             `json:"pending_approvals"`
	OpenJobs         int             `json:"open_jobs"`
	TotalOwed        decimal.Decimal `json:"total_owed"`
}

// Dashboard summarizes the current week per child together with balances
// and the size of the approval queue.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := auth.CallerFrom(ctx)
	weeks := h.chores.Weeks()
	ws := weeks.Current()

	chores, err := h.chores.WeekForFamily(ctx, caller, ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	balances, err := h.ledger.FamilyBalances(ctx, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	queue, err := h.pending(r, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	open, err := h.jobs.ListAvailable(ctx, caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	byKid := make(map[string][]model.WeeklyChore)
	for _, c := range chores {
		byKid[c.KidID] = append(byKid[c.KidID], c)
	}
	today := weeks.Today()
	kids := make([]kidOverview, 0, len(balances))
	for _, b := range balances {
		kids = append(kids, kidOverview{
			Kid:      b.User,
			Balance:  b.Balance.Balance,
			Week:     chore.Summarize(byKid[b.ID]),
			DueToday: list(chore.DueToday(byKid[b.ID], today)),
		})
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		WeekStart:        ws,
		WeekLabel:        week.FormatRange(ws),
		Kids:             kids,
		PendingApprovals: len(queue),
		OpenJobs:         len(open),
		TotalOwed:        ledger.TotalOwed(balances),
	})
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/ledger"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type BankHandler struct {
	base
	ledger *ledger.Service
}

func NewBankHandler(ls *ledger.Service, hub Broadcaster, logger *slog.Logger) *BankHandler {
	return &BankHandler{base: base{hub: hub, logger: logger}, ledger: ls}
}

type entryRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
}

type balancesResponse struct {
	Kids      []model.KidBalance `json:"kids"`
	TotalOwed decimal.Decimal    `json:"total_owed"`
}

// Balances lists every child's balance plus what the family owes in total.
func (h *BankHandler) Balances(w http.ResponseWriter, r *http.Request) {
	kids, err := h.ledger.FamilyBalances(r.Context(), auth.CallerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balancesResponse{Kids: list(kids), TotalOwed: ledger.TotalOwed(kids)})
}

func (h *BankHandler) Balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.ledger.Balance(r.Context(), auth.CallerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BankHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.History(r.Context(), auth.CallerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(entries))
}

func (h *BankHandler) Payout(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Amount == nil {
		h.fail(w, r, model.Invalid("amount", "is required"))
		return
	}
	caller := auth.CallerFrom(r.Context())
	tx, err := h.ledger.RecordPayout(r.Context(), caller, r.PathValue("id"), *req.Amount, req.Description)
	h.respond(w, r, caller, tx, err)
}

// Allowance credits a week of allowance; omit amount to use the child's
// configured rate.
func (h *BankHandler) Allowance(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	caller := auth.CallerFrom(r.Context())
	tx, err := h.ledger.RecordAllowance(r.Context(), caller, r.PathValue("id"), req.Amount)
	h.respond(w, r, caller, tx, err)
}

func (h *BankHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Amount == nil {
		h.fail(w, r, model.Invalid("amount", "is required"))
		return
	}
	caller := auth.CallerFrom(r.Context())
	tx, err := h.ledger.RecordAdjustment(r.Context(), caller, r.PathValue("id"), *req.Amount, req.Description)
	h.respond(w, r, caller, tx, err)
}

func (h *BankHandler) respond(w http.ResponseWriter, r *http.Request, caller auth.Caller, tx *model.Transaction, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.broadcast(caller.FamilyID, websocket.NewMessage("ledger", string(tx.Type), tx.UserID, map[string]any{"transaction_id": tx.ID}))
	writeJSON(w, http.StatusCreated, tx)
}

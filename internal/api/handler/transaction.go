package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openpaygo/antifraud/internal/service"
)

// TransactionHandler exposes the transaction commands and queries.
type TransactionHandler struct {
	commands *service.TransactionService
	queries  *service.TransactionQueryService
}

func NewTransactionHandler(commands *service.TransactionService, queries *service.TransactionQueryService) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

type createTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	CardHolder      string          `json:"card_holder"`
	CardNumber      string          `json:"card_number"`
	IPAddress       string          `json:"ip_address"`
	Location        string          `json:"location"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// Create handles POST /v1/transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
		return
	}

	res := h.commands.Create(r.Context(), service.CreateTransactionRequest{
		Amount:          req.Amount,
		CardHolder:      req.CardHolder,
		CardNumber:      req.CardNumber,
		IPAddress:       req.IPAddress,
		Location:        req.Location,
		TransactionDate: req.TransactionDate,
	})
	if !res.IsSuccess() {
		RespondFailure(w, r, res.Kind(), res.Error())
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]string{"id": res.Value().String()})
}

// Get handles GET /v1/transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-id", "invalid transaction id")
		return
	}

	res := h.queries.Get(r.Context(), id)
	if !res.IsSuccess() {
		RespondFailure(w, r, res.Kind(), res.Error())
		return
	}

	RespondJSON(w, http.StatusOK, res.Value())
}

// List handles GET /v1/transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.queries.List(r.Context())
	if !res.IsSuccess() {
		RespondFailure(w, r, res.Kind(), res.Error())
		return
	}

	RespondJSON(w, http.StatusOK, res.Value())
}

type updateTransactionRequest struct {
	Status string `json:"status"`
}

// Update handles PUT /v1/transactions/{id}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-id", "invalid transaction id")
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
		return
	}

	res := h.commands.UpdateStatus(r.Context(), id, req.Status)
	if !res.IsSuccess() {
		RespondFailure(w, r, res.Kind(), res.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/openpaygo/antifraud/internal/service"
)

// BlocklistHandler exposes the block-card command.
type BlocklistHandler struct {
	svc *service.BlocklistService
}

func NewBlocklistHandler(svc *service.BlocklistService) *BlocklistHandler {
	return &BlocklistHandler{svc: svc}
}

type blockCardRequest struct {
	CardNumber string `json:"card_number"`
	Reason     string `json:"reason"`
}

// Block handles POST /v1/blocklist.
func (h *BlocklistHandler) Block(w http.ResponseWriter, r *http.Request) {
	var req blockCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "invalid-body", "invalid request body")
		return
	}

	res := h.svc.BlockCard(r.Context(), service.BlockCardRequest{
		CardNumber: req.CardNumber,
		Reason:     req.Reason,
	})
	if !res.IsSuccess() {
		RespondFailure(w, r, res.Kind(), res.Error())
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]string{"id": res.Value().String()})
}

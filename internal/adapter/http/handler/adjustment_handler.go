package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	"github.com/iho/stockledger/internal/usecase"
)

// AdjustmentHandler handles manual adjustment requests.
type AdjustmentHandler struct {
	adjustmentUC *usecase.AdjustmentUseCase
}

// NewAdjustmentHandler creates a new AdjustmentHandler.
func NewAdjustmentHandler(adjustmentUC *usecase.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentUC: adjustmentUC}
}

// Post posts a manual adjustment.
func (h *AdjustmentHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	movement, err := h.adjustmentUC.PostAdjustment(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post adjustment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

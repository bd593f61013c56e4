package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	"github.com/iho/stockledger/internal/usecase"
)

// ReceiptHandler handles receipt posting requests.
type ReceiptHandler struct {
	receivingUC *usecase.ReceivingUseCase
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receivingUC *usecase.ReceivingUseCase) *ReceiptHandler {
	return &ReceiptHandler{receivingUC: receivingUC}
}

// Post posts a receipt document. Re-posting the same document returns a
// conflict and leaves stock untouched.
func (h *ReceiptHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	movements, err := h.receivingUC.PostReceipt(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post receipt", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementsFromDomain(movements))
}

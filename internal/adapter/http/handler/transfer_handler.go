package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	"github.com/iho/stockledger/internal/usecase"
)

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC *usecase.TransferUseCase
	ledgerUC   *usecase.LedgerUseCase
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC *usecase.TransferUseCase, ledgerUC *usecase.LedgerUseCase) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, ledgerUC: ledgerUC}
}

// Create opens a new transfer in the requested state.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	transfer, err := h.transferUC.Request(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to request transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Dispatch commits the outbound leg at the source warehouse.
func (h *TransferHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	transfer, err := h.transferUC.Dispatch(r.Context(), id, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to dispatch transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Receive commits the inbound leg at the destination warehouse.
func (h *TransferHandler) Receive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	transfer, err := h.transferUC.Receive(r.Context(), id, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to receive transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Cancel aborts a transfer; after dispatch the in-transit quantity is
// returned to the source.
func (h *TransferHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	var req dto.CancelTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	transfer, err := h.transferUC.Cancel(r.Context(), id, actor, req.Reason)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to cancel transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	transfer, err := h.transferUC.Get(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// List lists transfers, optionally filtered by warehouse.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	warehouseID := r.URL.Query().Get("warehouse_id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	transfers, err := h.transferUC.List(r.Context(), warehouseID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}

// Movements lists the journal legs recorded for a transfer.
func (h *TransferHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	movements, err := h.ledgerUC.MovementsByCorrelation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transfer movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/usecase"
)

// ReconciliationHandler exposes journal-versus-projection checks and
// the rebuild repair action.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Run sweeps every cached balance against a journal replay and reports
// any divergence plus unpaired transfer-in legs.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reconciliation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// CheckKey reconciles a single (warehouse, product) key.
func (h *ReconciliationHandler) CheckKey(w http.ResponseWriter, r *http.Request) {
	warehouseID := chi.URLParam(r, "warehouseID")
	productID := chi.URLParam(r, "productID")
	if warehouseID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing warehouse or product ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileKey(r.Context(), warehouseID, productID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "reconciliation failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Repair rebuilds one cached balance from the journal.
func (h *ReconciliationHandler) Repair(w http.ResponseWriter, r *http.Request) {
	warehouseID := chi.URLParam(r, "warehouseID")
	productID := chi.URLParam(r, "productID")
	if warehouseID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing warehouse or product ID", "")
		return
	}

	balance, err := h.reconciliationUC.Repair(r.Context(), warehouseID, productID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "repair failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

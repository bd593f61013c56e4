package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/usecase"
)

// BalanceHandler serves projected balances, stock history and reports.
type BalanceHandler struct {
	projectorUC *usecase.ProjectorUseCase
	ledgerUC    *usecase.LedgerUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(projectorUC *usecase.ProjectorUseCase, ledgerUC *usecase.LedgerUseCase) *BalanceHandler {
	return &BalanceHandler{projectorUC: projectorUC, ledgerUC: ledgerUC}
}

// Get returns the balance for one (warehouse, product) key. Keys that
// never moved read as zero.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	warehouseID := chi.URLParam(r, "warehouseID")
	productID := chi.URLParam(r, "productID")
	if warehouseID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing warehouse or product ID", "")
		return
	}

	// ?at=<movement id> answers the balance as of that watermark,
	// straight from the journal.
	if at := parseInt64Query(r, "at", 0); at > 0 {
		onHand, err := h.projectorUC.BalanceAt(r.Context(), warehouseID, productID, at)
		if err != nil {
			status := mapDomainError(err)
			writeError(w, status, "failed to compute balance", err.Error())

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"warehouse_id": warehouseID,
			"product_id":   productID,
			"on_hand":      onHand,
			"at":           at,
		})

		return
	}

	balance, err := h.projectorUC.GetBalance(r.Context(), warehouseID, productID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// History returns the journal slice for one key, ordered by movement
// ID, restartable from a watermark, with the running on-hand quantity
// after each row.
func (h *BalanceHandler) History(w http.ResponseWriter, r *http.Request) {
	warehouseID := chi.URLParam(r, "warehouseID")
	productID := chi.URLParam(r, "productID")
	if warehouseID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing warehouse or product ID", "")
		return
	}

	entries, err := h.projectorUC.KeyHistory(r.Context(), warehouseID, productID,
		parseInt64Query(r, "since", 0), parseIntQuery(r, "limit", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromUseCase(entries))
}

// List lists projected balances.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	balances, err := h.projectorUC.ListBalances(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// StockReport returns nonzero balances decorated with directory names.
func (h *BalanceHandler) StockReport(w http.ResponseWriter, r *http.Request) {
	warehouseID := r.URL.Query().Get("warehouse_id")
	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	rows, err := h.projectorUC.StockReport(r.Context(), warehouseID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build stock report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// ListWarehouses lists the warehouses known to the directory.
func (h *BalanceHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.projectorUC.ListWarehouses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list warehouses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WarehousesFromDomain(warehouses))
}

// GetMovement retrieves a single journal entry by ID.
func (h *BalanceHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	movementID := chi.URLParam(r, "id")
	if movementID == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	parsed, err := parseMovementID(movementID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid movement ID", err.Error())
		return
	}

	movement, err := h.ledgerUC.GetMovement(r.Context(), parsed)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get movement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

package usecase

import (
	"context"
	"fmt"

	"github.com/iho/stockledger/internal/domain"
)

// ProjectorUseCase serves the cached balance projection and rebuilds it
// from the journal. The journal is the source of truth; any balance row
// this package touches is disposable and recomputable.
type ProjectorUseCase struct {
	txManager    TransactionManager
	movementRepo MovementRepository
	balanceRepo  BalanceRepository
	directory    Directory
}

// NewProjectorUseCase creates a new ProjectorUseCase.
func NewProjectorUseCase(txManager TransactionManager, movementRepo MovementRepository, balanceRepo BalanceRepository, directory Directory) *ProjectorUseCase {
	return &ProjectorUseCase{
		txManager:    txManager,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
		directory:    directory,
	}
}

// GetBalance returns the cached balance for a key. A key that has never
// moved reads as an explicit zero balance, provided the warehouse and
// product actually exist.
func (uc *ProjectorUseCase) GetBalance(ctx context.Context, warehouseID, productID string) (*domain.Balance, error) {
	balance, err := uc.balanceRepo.Get(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}

	if balance != nil {
		return balance, nil
	}

	ok, err := uc.directory.WarehouseExists(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownWarehouse, warehouseID)
	}

	ok, err = uc.directory.ProductExists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProduct, productID)
	}

	return &domain.Balance{
		WarehouseID: warehouseID,
		ProductID:   productID,
	}, nil
}

// BalanceAt recomputes the on-hand quantity for a key as of a movement
// ID watermark, straight from the journal.
func (uc *ProjectorUseCase) BalanceAt(ctx context.Context, warehouseID, productID string, watermark int64) (int64, error) {
	return uc.movementRepo.SumKeyAt(ctx, warehouseID, productID, watermark)
}

// HistoryEntry is one journal row together with the on-hand quantity
// that resulted from applying it.
type HistoryEntry struct {
	Movement    *domain.Movement
	OnHandAfter int64
}

// KeyHistory reads the journal slice for one key and annotates each row
// with the running on-hand quantity. The running total starts from the
// journal sum at the since watermark, so pages are consistent when read
// in sequence.
func (uc *ProjectorUseCase) KeyHistory(ctx context.Context, warehouseID, productID string, since int64, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > HistoryPageSize {
		limit = HistoryPageSize
	}

	running, err := uc.movementRepo.SumKeyAt(ctx, warehouseID, productID, since)
	if err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ReadKeySince(ctx, warehouseID, productID, since, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, len(movements))
	for i, m := range movements {
		running += m.QuantityDelta
		entries[i] = HistoryEntry{Movement: m, OnHandAfter: running}
	}

	return entries, nil
}

// Rebuild discards the cached row for a key and recomputes it from the
// journal. It takes the same balance row lock the append path takes and
// holds it across the journal read and the overwrite, so an append for
// the key waits for the rebuild instead of racing it. Appends to other
// keys proceed in parallel.
func (uc *ProjectorUseCase) Rebuild(ctx context.Context, warehouseID, productID string) (*domain.Balance, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.balanceRepo.GetForUpdate(txCtx, tx, warehouseID, productID); err != nil {
		return nil, err
	}

	// Under the lock no new movement for this key can commit, so the
	// sum is exact as of the row we are about to overwrite.
	total, lastID, err := uc.movementRepo.SumKey(txCtx, warehouseID, productID)
	if err != nil {
		return nil, err
	}

	balance := &domain.Balance{
		WarehouseID:    warehouseID,
		ProductID:      productID,
		OnHand:         total,
		LastMovementID: lastID,
	}

	if err := uc.balanceRepo.Replace(txCtx, tx, balance); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return balance, nil
}

// StockReportRow is one line of the per-warehouse stock report, the
// balance joined with directory names.
type StockReportRow struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	ProductID     string `json:"product_id"`
	ProductSKU    string `json:"product_sku"`
	ProductName   string `json:"product_name"`
	OnHand        int64  `json:"on_hand"`
}

// StockReport lists nonzero balances decorated with warehouse and
// product names, optionally filtered to one warehouse. The store applies
// the filters before pagination so pages are complete and stable.
func (uc *ProjectorUseCase) StockReport(ctx context.Context, warehouseID string, limit, offset int) ([]StockReportRow, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	balances, err := uc.balanceRepo.ListNonZero(ctx, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}

	rows := make([]StockReportRow, 0, len(balances))
	for _, b := range balances {
		row := StockReportRow{
			WarehouseID: b.WarehouseID,
			ProductID:   b.ProductID,
			OnHand:      b.OnHand,
		}

		if w, err := uc.directory.LookupWarehouse(ctx, b.WarehouseID); err == nil && w != nil {
			row.WarehouseName = w.Name
		}
		if p, err := uc.directory.LookupProduct(ctx, b.ProductID); err == nil && p != nil {
			row.ProductSKU = p.SKU
			row.ProductName = p.Name
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// ListBalances returns cached balances without directory decoration.
func (uc *ProjectorUseCase) ListBalances(ctx context.Context, limit, offset int) ([]*domain.Balance, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.balanceRepo.List(ctx, limit, offset)
}

// ListWarehouses exposes the directory's warehouse listing.
func (uc *ProjectorUseCase) ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	return uc.directory.ListWarehouses(ctx)
}

package usecase

import (
	"context"
	"time"

	"github.com/iho/stockledger/internal/domain"
)

// MovementRepository is the append-only stock journal, the source of
// truth. Append assigns the movement ID at commit time so the sequence is
// strictly increasing and usable as a durable watermark.
type MovementRepository interface {
	// Append commits a candidate movement inside tx and returns it with
	// its assigned ID. A previously committed idempotency key fails with
	// domain.ErrDuplicateReference.
	Append(ctx context.Context, tx Transaction, m *domain.Movement) (*domain.Movement, error)
	GetByID(ctx context.Context, id int64) (*domain.Movement, error)
	// ReadSince returns up to limit movements with ID > watermark,
	// ordered by ID. Iteration is restartable from any watermark.
	ReadSince(ctx context.Context, watermark int64, limit int) ([]*domain.Movement, error)
	// ReadKeySince is ReadSince filtered to one (warehouse, product) key.
	ReadKeySince(ctx context.Context, warehouseID, productID string, watermark int64, limit int) ([]*domain.Movement, error)
	// SumKey recomputes the on-hand quantity for a key from the journal
	// and reports the highest movement ID that contributed to it.
	SumKey(ctx context.Context, warehouseID, productID string) (total, lastID int64, err error)
	// SumKeyAt recomputes on-hand for a key considering only movements
	// with ID <= watermark (point-in-time query).
	SumKeyAt(ctx context.Context, warehouseID, productID string, watermark int64) (int64, error)
	GetByCorrelation(ctx context.Context, correlationID string) ([]*domain.Movement, error)
	// CountUnpairedTransferIns counts transfer-in movements whose
	// correlation ID has no matching transfer-out. Anything above zero is
	// an integrity break.
	CountUnpairedTransferIns(ctx context.Context) (int64, error)
}

// BalanceRepository holds the cached projection per (warehouse, product)
// key. Rows are rebuildable from the journal and never authoritative.
type BalanceRepository interface {
	// Get returns the cached row for the key, or (nil, nil) when the key
	// has never moved.
	Get(ctx context.Context, warehouseID, productID string) (*domain.Balance, error)
	// GetForUpdate locks the balance row for the key within tx, creating
	// a zero row first when the key has never moved. The lock serializes
	// all appends for the key.
	GetForUpdate(ctx context.Context, tx Transaction, warehouseID, productID string) (*domain.Balance, error)
	// Apply folds a committed movement into the cached row, guarded by
	// the projection watermark and the expected version. It returns
	// applied=false when the movement was already projected and
	// domain.ErrStaleBalance when the row changed underneath the caller.
	Apply(ctx context.Context, tx Transaction, m *domain.Movement, expectedVersion int64) (applied bool, err error)
	// Replace overwrites the cached row with a rebuilt balance. It runs
	// inside tx so the rebuild holds the key's row lock across its
	// journal read and the write.
	Replace(ctx context.Context, tx Transaction, b *domain.Balance) error
	List(ctx context.Context, limit, offset int) ([]*domain.Balance, error)
	// ListNonZero lists balances with nonzero on-hand, optionally
	// filtered to one warehouse. Filters apply before pagination so
	// report pages are stable.
	ListNonZero(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Balance, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transfer, error)
	UpdateState(ctx context.Context, tx Transaction, id string, state domain.TransferState, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Transfer, error)
}

// Directory is the external product/warehouse reference service. The
// ledger treats it as read-only and eventually consistent; it does not
// own the data behind it.
type Directory interface {
	WarehouseExists(ctx context.Context, id string) (bool, error)
	ProductExists(ctx context.Context, id string) (bool, error)
	LookupWarehouse(ctx context.Context, id string) (*domain.Warehouse, error)
	LookupProduct(ctx context.Context, id string) (*domain.Product, error)
	ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs for transfers, documents and events.
// Movement IDs are assigned by the store, not by this generator.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for the HTTP surface.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

const transferColumns = `id, source_warehouse_id, dest_warehouse_id, product_id, quantity, state, created_at, updated_at, dispatched_at, received_at, cancelled_at`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create inserts a new transfer within a transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transfers (id, source_warehouse_id, dest_warehouse_id, product_id, quantity, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		transfer.ID,
		transfer.SourceWarehouseID,
		transfer.DestWarehouseID,
		transfer.ProductID,
		transfer.Quantity,
		string(transfer.State),
		transfer.CreatedAt,
		transfer.UpdatedAt,
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`

	t, err := scanTransfer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return t, nil
}

// GetByIDForUpdate retrieves a transfer with a FOR UPDATE lock. The lock
// serializes state transitions on one transfer.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`

	t, err := scanTransfer(pgxTx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return t, nil
}

// UpdateState persists a state transition and stamps the matching
// timestamp column.
func (r *TransferRepository) UpdateState(ctx context.Context, tx usecase.Transaction, id string, state domain.TransferState, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE transfers
		SET state = $1,
		    updated_at = $2,
		    dispatched_at = CASE WHEN $1 = 'dispatched' THEN $2 ELSE dispatched_at END,
		    received_at   = CASE WHEN $1 = 'received'   THEN $2 ELSE received_at END,
		    cancelled_at  = CASE WHEN $1 = 'cancelled'  THEN $2 ELSE cancelled_at END
		WHERE id = $3
	`

	tag, err := pgxTx.Exec(ctx, query, string(state), at, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// List lists transfers with pagination, newest first.
func (r *TransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransfers(rows)
}

// ListByWarehouse lists transfers touching a warehouse as either end.
func (r *TransferRepository) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE source_warehouse_id = $1 OR dest_warehouse_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var t domain.Transfer

	err := row.Scan(
		&t.ID,
		&t.SourceWarehouseID,
		&t.DestWarehouseID,
		&t.ProductID,
		&t.Quantity,
		&t.State,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DispatchedAt,
		&t.ReceivedAt,
		&t.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func scanTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

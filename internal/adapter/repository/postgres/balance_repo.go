package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

const pgErrForeignKeyViolation = "23503"

// BalanceRepository implements usecase.BalanceRepository on the balances
// table, one row per (warehouse, product) key. The row lock taken by
// GetForUpdate is what serializes appends per key.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// Get returns the cached row for the key, or (nil, nil) when the key has
// never moved.
func (r *BalanceRepository) Get(ctx context.Context, warehouseID, productID string) (*domain.Balance, error) {
	query := `
		SELECT warehouse_id, product_id, on_hand, last_movement_id, version, updated_at
		FROM balances
		WHERE warehouse_id = $1 AND product_id = $2
	`

	b, err := scanBalance(r.pool.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return b, nil
}

// GetForUpdate locks the balance row inside tx, inserting a zero row
// first for a key that has never moved. The insert races with concurrent
// first appends; ON CONFLICT DO NOTHING makes the loser fall through to
// the lock.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, warehouseID, productID string) (*domain.Balance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	insert := `
		INSERT INTO balances (warehouse_id, product_id, on_hand, last_movement_id, version, updated_at)
		VALUES ($1, $2, 0, 0, 0, NOW())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING
	`
	if _, err := pgxTx.Exec(ctx, insert, warehouseID, productID); err != nil {
		// The zero row references the directory tables, so an unknown
		// key surfaces here as a foreign key violation.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
			if strings.Contains(pgErr.ConstraintName, "warehouse") {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownWarehouse, warehouseID)
			}

			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProduct, productID)
		}

		return nil, err
	}

	query := `
		SELECT warehouse_id, product_id, on_hand, last_movement_id, version, updated_at
		FROM balances
		WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE
	`

	return scanBalance(pgxTx.QueryRow(ctx, query, warehouseID, productID))
}

// Apply folds a committed movement into the cached row. The update is
// guarded by the watermark and the version: zero rows affected means
// either the movement was already projected (skip) or the row changed
// underneath the caller (stale).
func (r *BalanceRepository) Apply(ctx context.Context, tx usecase.Transaction, m *domain.Movement, expectedVersion int64) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	update := `
		UPDATE balances
		SET on_hand = on_hand + $1,
		    last_movement_id = $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE warehouse_id = $3 AND product_id = $4
		  AND last_movement_id < $2
		  AND version = $5
	`

	tag, err := pgxTx.Exec(ctx, update, m.QuantityDelta, m.ID, m.WarehouseID, m.ProductID, expectedVersion)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Distinguish an already-projected movement from a version clash.
	query := `SELECT last_movement_id FROM balances WHERE warehouse_id = $1 AND product_id = $2`

	var watermark int64
	if err := pgxTx.QueryRow(ctx, query, m.WarehouseID, m.ProductID).Scan(&watermark); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrStaleBalance
		}

		return false, err
	}

	if watermark >= m.ID {
		return false, nil
	}

	return false, domain.ErrStaleBalance
}

// Replace overwrites the cached row with a rebuilt balance, inside the
// caller's transaction. The upsert bumps the version so a concurrent
// guarded Apply observes the change.
func (r *BalanceRepository) Replace(ctx context.Context, tx usecase.Transaction, b *domain.Balance) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO balances (warehouse_id, product_id, on_hand, last_movement_id, version, updated_at)
		VALUES ($1, $2, $3, $4, 0, NOW())
		ON CONFLICT (warehouse_id, product_id) DO UPDATE
		SET on_hand = EXCLUDED.on_hand,
		    last_movement_id = EXCLUDED.last_movement_id,
		    version = balances.version + 1,
		    updated_at = NOW()
	`

	_, err := pgxTx.Exec(ctx, query, b.WarehouseID, b.ProductID, b.OnHand, b.LastMovementID)

	return err
}

// List lists cached balances with pagination, in key order.
func (r *BalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.Balance, error) {
	query := `
		SELECT warehouse_id, product_id, on_hand, last_movement_id, version, updated_at
		FROM balances
		ORDER BY warehouse_id, product_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// ListNonZero lists balances with nonzero on-hand, optionally filtered
// to one warehouse. Both filters run in the query, before LIMIT/OFFSET,
// so stock report pages do not shift under the filters.
func (r *BalanceRepository) ListNonZero(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Balance, error) {
	query := `
		SELECT warehouse_id, product_id, on_hand, last_movement_id, version, updated_at
		FROM balances
		WHERE on_hand <> 0
		  AND ($1 = '' OR warehouse_id = $1)
		ORDER BY warehouse_id, product_id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

func scanBalance(row pgx.Row) (*domain.Balance, error) {
	var b domain.Balance
	var updatedAt time.Time

	err := row.Scan(
		&b.WarehouseID,
		&b.ProductID,
		&b.OnHand,
		&b.LastMovementID,
		&b.Version,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.UpdatedAt = updatedAt

	return &b, nil
}

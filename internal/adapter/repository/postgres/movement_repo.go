package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const movementColumns = `id, occurred_at, warehouse_id, product_id, quantity_delta, kind, correlation_id, idempotency_key, actor, note`

// MovementRepository implements usecase.MovementRepository on the
// append-only movements table. IDs come from the table's sequence at
// insert time; committed rows are never updated or deleted.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Append inserts a movement inside tx and returns it with the assigned
// ID. A unique violation on the idempotency key maps to
// domain.ErrDuplicateReference.
func (r *MovementRepository) Append(ctx context.Context, tx usecase.Transaction, m *domain.Movement) (*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO movements (occurred_at, warehouse_id, product_id, quantity_delta, kind, correlation_id, idempotency_key, actor, note)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		RETURNING id
	`

	committed := *m
	err := pgxTx.QueryRow(ctx, query,
		m.OccurredAt,
		m.WarehouseID,
		m.ProductID,
		m.QuantityDelta,
		string(m.Kind),
		m.CorrelationID,
		m.IdempotencyKey,
		m.Actor,
		m.Note,
	).Scan(&committed.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return nil, domain.ErrDuplicateReference
		}

		return nil, err
	}

	return &committed, nil
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`

	m, err := scanMovement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return m, nil
}

// ReadSince returns movements with ID above the watermark, in ID order.
func (r *MovementRepository) ReadSince(ctx context.Context, watermark int64, limit int) ([]*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.pool.Query(ctx, query, watermark, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ReadKeySince returns one key's movements with ID above the watermark.
func (r *MovementRepository) ReadKeySince(ctx context.Context, warehouseID, productID string, watermark int64, limit int) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE warehouse_id = $1 AND product_id = $2 AND id > $3
		ORDER BY id
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, warehouseID, productID, watermark, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// SumKey replays the whole journal for one key.
func (r *MovementRepository) SumKey(ctx context.Context, warehouseID, productID string) (int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_delta), 0), COALESCE(MAX(id), 0)
		FROM movements
		WHERE warehouse_id = $1 AND product_id = $2
	`

	var total, lastID int64
	if err := r.pool.QueryRow(ctx, query, warehouseID, productID).Scan(&total, &lastID); err != nil {
		return 0, 0, err
	}

	return total, lastID, nil
}

// SumKeyAt replays one key's journal up to and including the watermark.
func (r *MovementRepository) SumKeyAt(ctx context.Context, warehouseID, productID string, watermark int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_delta), 0)
		FROM movements
		WHERE warehouse_id = $1 AND product_id = $2 AND id <= $3
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, warehouseID, productID, watermark).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

// GetByCorrelation returns all movements carrying a correlation ID, in
// ID order.
func (r *MovementRepository) GetByCorrelation(ctx context.Context, correlationID string) ([]*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE correlation_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, correlationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// CountUnpairedTransferIns counts transfer-in movements whose correlation
// ID has no transfer-out counterpart.
func (r *MovementRepository) CountUnpairedTransferIns(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM movements m
		WHERE m.kind = 'transfer_in'
		  AND NOT EXISTS (
			SELECT 1 FROM movements o
			WHERE o.kind = 'transfer_out' AND o.correlation_id = m.correlation_id
		  )
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var m domain.Movement
	var correlationID, idempotencyKey *string

	err := row.Scan(
		&m.ID,
		&m.OccurredAt,
		&m.WarehouseID,
		&m.ProductID,
		&m.QuantityDelta,
		&m.Kind,
		&correlationID,
		&idempotencyKey,
		&m.Actor,
		&m.Note,
	)
	if err != nil {
		return nil, err
	}

	if correlationID != nil {
		m.CorrelationID = *correlationID
	}
	if idempotencyKey != nil {
		m.IdempotencyKey = *idempotencyKey
	}

	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

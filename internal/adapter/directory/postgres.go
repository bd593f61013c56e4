// Package directory adapts the external warehouse/product reference data
// to the usecase.Directory interface. The ledger never writes these
// tables; they are replicated from the directory service and may lag it.
package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stockledger/internal/domain"
)

// PostgresDirectory implements usecase.Directory over the replicated
// warehouses and products tables.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new PostgresDirectory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// WarehouseExists reports whether a warehouse ID is known.
func (d *PostgresDirectory) WarehouseExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM warehouses WHERE id = $1)`, id).Scan(&exists)

	return exists, err
}

// ProductExists reports whether a product ID is known.
func (d *PostgresDirectory) ProductExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)

	return exists, err
}

// LookupWarehouse retrieves a warehouse by ID.
func (d *PostgresDirectory) LookupWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	query := `SELECT id, name, location, address FROM warehouses WHERE id = $1`

	var w domain.Warehouse
	err := d.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.Name, &w.Location, &w.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownWarehouse
		}

		return nil, err
	}

	return &w, nil
}

// LookupProduct retrieves a product by ID.
func (d *PostgresDirectory) LookupProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, sku, name, unit FROM products WHERE id = $1`

	var p domain.Product
	err := d.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.Unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownProduct
		}

		return nil, err
	}

	return &p, nil
}

// ListWarehouses lists all known warehouses.
func (d *PostgresDirectory) ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	query := `SELECT id, name, location, address FROM warehouses ORDER BY id`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []*domain.Warehouse
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.Address); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, &w)
	}

	return warehouses, rows.Err()
}

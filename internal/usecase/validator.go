package usecase

import (
	"context"
	"fmt"

	"github.com/iho/stockledger/internal/domain"
)

// Validator admits or rejects candidate movements before they reach the
// journal. Reference checks run against the directory before the ledger
// takes the balance row lock; the insufficient-stock rule is checked by
// the ledger itself under that lock, where it cannot race.
type Validator struct {
	directory Directory
}

// NewValidator creates a new Validator.
func NewValidator(directory Directory) *Validator {
	return &Validator{directory: directory}
}

// CheckReferences verifies the movement's warehouse and product exist in
// the directory. The ledger runs this before taking the balance row
// lock, so an unknown reference never reaches the store.
func (v *Validator) CheckReferences(ctx context.Context, m *domain.Movement) error {
	ok, err := v.directory.WarehouseExists(ctx, m.WarehouseID)
	if err != nil {
		return fmt.Errorf("directory lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownWarehouse, m.WarehouseID)
	}

	ok, err = v.directory.ProductExists(ctx, m.ProductID)
	if err != nil {
		return fmt.Errorf("directory lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownProduct, m.ProductID)
	}

	return nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/iho/stockledger/internal/domain"
)

// AdjustmentUseCase posts manual count corrections. The free-text note is
// mandatory: an adjustment without a justification is not auditable and
// is rejected before it reaches the journal.
type AdjustmentUseCase struct {
	ledger *LedgerUseCase
	idGen  IDGenerator
}

// NewAdjustmentUseCase creates a new AdjustmentUseCase.
func NewAdjustmentUseCase(ledger *LedgerUseCase, idGen IDGenerator) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		ledger: ledger,
		idGen:  idGen,
	}
}

// PostAdjustmentInput represents a manual stock correction.
type PostAdjustmentInput struct {
	WarehouseID string
	ProductID   string
	Note        string
	Actor       string
	// Reference optionally ties the adjustment to an external count
	// document; when set it doubles as the idempotency key.
	Reference string
	Delta     int64
}

// PostAdjustment appends a single adjustment movement, kind chosen by the
// delta sign.
func (uc *AdjustmentUseCase) PostAdjustment(ctx context.Context, input PostAdjustmentInput) (*domain.Movement, error) {
	if input.Delta == 0 {
		return nil, fmt.Errorf("%w: adjustment delta is zero", domain.ErrInvalidQuantity)
	}

	if err := domain.ValidateNote(input.Note); err != nil {
		return nil, err
	}

	kind := domain.KindAdjustmentIncrease
	if input.Delta < 0 {
		kind = domain.KindAdjustmentDecrease
	}

	correlationID := input.Reference
	if correlationID == "" {
		correlationID = "adj-" + uc.idGen.Generate()
	}

	candidate := &domain.Movement{
		WarehouseID:    input.WarehouseID,
		ProductID:      input.ProductID,
		QuantityDelta:  input.Delta,
		Kind:           kind,
		CorrelationID:  correlationID,
		IdempotencyKey: input.Reference,
		Actor:          input.Actor,
		Note:           input.Note,
	}

	return uc.ledger.Append(ctx, candidate)
}

package usecase

import (
	"context"
	"fmt"

	"github.com/iho/stockledger/internal/domain"
)

// ReceivingUseCase turns purchase-order receipt documents into receipt
// movements. The store's idempotency-key rejection makes re-submission of
// the same document safe: each line carries documentID:lineNumber as its
// key, so a duplicate line fails with domain.ErrDuplicateReference
// instead of double-counting stock.
type ReceivingUseCase struct {
	ledger    *LedgerUseCase
	directory Directory
}

// NewReceivingUseCase creates a new ReceivingUseCase.
func NewReceivingUseCase(ledger *LedgerUseCase, directory Directory) *ReceivingUseCase {
	return &ReceivingUseCase{
		ledger:    ledger,
		directory: directory,
	}
}

// ReceiptLine is one line of an external receipt document.
type ReceiptLine struct {
	ProductID   string
	WarehouseID string
	LineNumber  int
	Quantity    int64
}

// PostReceiptInput represents a receipt document to post.
type PostReceiptInput struct {
	DocumentID string
	Actor      string
	Lines      []ReceiptLine
}

// PostReceipt appends one receipt movement per line. All lines are
// validated against the directory before any is committed, so a bad
// reference rejects the document without partial application; conflicts
// on individual lines still surface per line.
func (uc *ReceivingUseCase) PostReceipt(ctx context.Context, input PostReceiptInput) ([]*domain.Movement, error) {
	if input.DocumentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidQuantity)
	}

	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: receipt has no lines", domain.ErrInvalidQuantity)
	}

	for _, line := range input.Lines {
		if err := domain.ValidateQuantity(line.Quantity); err != nil {
			return nil, fmt.Errorf("line %d: %w", line.LineNumber, err)
		}

		if err := uc.checkReferences(ctx, line); err != nil {
			return nil, fmt.Errorf("line %d: %w", line.LineNumber, err)
		}
	}

	movements := make([]*domain.Movement, 0, len(input.Lines))
	for _, line := range input.Lines {
		candidate := &domain.Movement{
			WarehouseID:    line.WarehouseID,
			ProductID:      line.ProductID,
			QuantityDelta:  line.Quantity,
			Kind:           domain.KindReceipt,
			CorrelationID:  input.DocumentID,
			IdempotencyKey: fmt.Sprintf("%s:%d", input.DocumentID, line.LineNumber),
			Actor:          input.Actor,
			Note:           fmt.Sprintf("purchase receipt %s line %d", input.DocumentID, line.LineNumber),
		}

		m, err := uc.ledger.Append(ctx, candidate)
		if err != nil {
			return movements, fmt.Errorf("line %d: %w", line.LineNumber, err)
		}

		movements = append(movements, m)
	}

	return movements, nil
}

func (uc *ReceivingUseCase) checkReferences(ctx context.Context, line ReceiptLine) error {
	ok, err := uc.directory.WarehouseExists(ctx, line.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownWarehouse, line.WarehouseID)
	}

	ok, err = uc.directory.ProductExists(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownProduct, line.ProductID)
	}

	return nil
}

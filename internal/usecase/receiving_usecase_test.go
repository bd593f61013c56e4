package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

func TestReceivingUseCase_PostReceipt(t *testing.T) {
	f := newFixture()

	movements, err := f.receiving.PostReceipt(context.Background(), usecase.PostReceiptInput{
		DocumentID: "po-1001",
		Actor:      "dock-worker",
		Lines: []usecase.ReceiptLine{
			{WarehouseID: "wh-a", ProductID: "prod-1", LineNumber: 1, Quantity: 50},
			{WarehouseID: "wh-b", ProductID: "prod-1", LineNumber: 2, Quantity: 25},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	for _, m := range movements {
		if m.Kind != domain.KindReceipt {
			t.Errorf("expected kind receipt, got %s", m.Kind)
		}
		if m.CorrelationID != "po-1001" {
			t.Errorf("lines must share the document as correlation ID, got %q", m.CorrelationID)
		}
	}

	if got := f.onHand(t, "wh-a", "prod-1"); got != 50 {
		t.Errorf("expected wh-a on-hand 50, got %d", got)
	}
	if got := f.onHand(t, "wh-b", "prod-1"); got != 25 {
		t.Errorf("expected wh-b on-hand 25, got %d", got)
	}
}

func TestReceivingUseCase_DuplicateDocumentIsRejected(t *testing.T) {
	f := newFixture()

	input := usecase.PostReceiptInput{
		DocumentID: "po-1001",
		Actor:      "dock-worker",
		Lines: []usecase.ReceiptLine{
			{WarehouseID: "wh-a", ProductID: "prod-1", LineNumber: 1, Quantity: 50},
		},
	}

	if _, err := f.receiving.PostReceipt(context.Background(), input); err != nil {
		t.Fatalf("first post failed: %v", err)
	}

	_, err := f.receiving.PostReceipt(context.Background(), input)
	if !errors.Is(err, domain.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}

	// The second post must not double-count.
	if got := f.onHand(t, "wh-a", "prod-1"); got != 50 {
		t.Errorf("expected on-hand 50 after duplicate post, got %d", got)
	}
	if got := len(f.movements.All()); got != 1 {
		t.Errorf("expected 1 journal entry, got %d", got)
	}
}

func TestReceivingUseCase_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.PostReceiptInput
		errorType error
	}{
		{
			name:      "missing document id",
			input:     usecase.PostReceiptInput{Lines: []usecase.ReceiptLine{{WarehouseID: "wh-a", ProductID: "prod-1", LineNumber: 1, Quantity: 1}}},
			errorType: domain.ErrInvalidQuantity,
		},
		{
			name:      "no lines",
			input:     usecase.PostReceiptInput{DocumentID: "po-1"},
			errorType: domain.ErrInvalidQuantity,
		},
		{
			name: "negative quantity",
			input: usecase.PostReceiptInput{
				DocumentID: "po-1",
				Lines:      []usecase.ReceiptLine{{WarehouseID: "wh-a", ProductID: "prod-1", LineNumber: 1, Quantity: -5}},
			},
			errorType: domain.ErrInvalidQuantity,
		},
		{
			name: "unknown warehouse",
			input: usecase.PostReceiptInput{
				DocumentID: "po-1",
				Lines:      []usecase.ReceiptLine{{WarehouseID: "wh-x", ProductID: "prod-1", LineNumber: 1, Quantity: 5}},
			},
			errorType: domain.ErrUnknownWarehouse,
		},
		{
			name: "unknown product",
			input: usecase.PostReceiptInput{
				DocumentID: "po-1",
				Lines:      []usecase.ReceiptLine{{WarehouseID: "wh-a", ProductID: "prod-x", LineNumber: 1, Quantity: 5}},
			},
			errorType: domain.ErrUnknownProduct,
		},
		{
			name: "one bad line rejects the whole document",
			input: usecase.PostReceiptInput{
				DocumentID: "po-1",
				Lines: []usecase.ReceiptLine{
					{WarehouseID: "wh-a", ProductID: "prod-1", LineNumber: 1, Quantity: 5},
					{WarehouseID: "wh-x", ProductID: "prod-1", LineNumber: 2, Quantity: 5},
				},
			},
			errorType: domain.ErrUnknownWarehouse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.receiving.PostReceipt(context.Background(), tt.input)
			if !errors.Is(err, tt.errorType) {
				t.Fatalf("expected %v, got %v", tt.errorType, err)
			}
			if len(f.movements.All()) != 0 {
				t.Error("rejected document must not reach the journal")
			}
		})
	}
}

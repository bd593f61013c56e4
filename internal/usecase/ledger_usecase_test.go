package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
	"github.com/iho/stockledger/internal/usecase/mocks"
)

// fixture wires the full use case stack against in-memory mocks. The
// directory knows warehouses wh-a and wh-b and product prod-1.
type fixture struct {
	movements *mocks.MockMovementRepository
	balances  *mocks.MockBalanceRepository
	transfers *mocks.MockTransferRepository
	outbox    *mocks.MockOutboxRepository
	directory *mocks.MockDirectory
	txMgr     *mocks.MockTransactionManager
	idGen     *mocks.MockIDGenerator

	ledger         *usecase.LedgerUseCase
	receiving      *usecase.ReceivingUseCase
	adjustment     *usecase.AdjustmentUseCase
	transfer       *usecase.TransferUseCase
	projector      *usecase.ProjectorUseCase
	reconciliation *usecase.ReconciliationUseCase
}

func newFixture() *fixture {
	f := &fixture{
		movements: mocks.NewMockMovementRepository(),
		balances:  mocks.NewMockBalanceRepository(),
		transfers: mocks.NewMockTransferRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		directory: mocks.NewMockDirectory(),
		txMgr:     mocks.NewMockTransactionManager(),
		idGen:     mocks.NewMockIDGenerator(),
	}

	f.directory.AddWarehouse(&domain.Warehouse{ID: "wh-a", Name: "Central"})
	f.directory.AddWarehouse(&domain.Warehouse{ID: "wh-b", Name: "North"})
	f.directory.AddProduct(&domain.Product{ID: "prod-1", SKU: "SKU-001", Name: "Widget"})

	validator := usecase.NewValidator(f.directory)
	retrier := mocks.NewMockRetrier()

	f.ledger = usecase.NewLedgerUseCase(f.txMgr, f.movements, f.balances, f.outbox, validator, retrier, f.idGen)
	f.receiving = usecase.NewReceivingUseCase(f.ledger, f.directory)
	f.adjustment = usecase.NewAdjustmentUseCase(f.ledger, f.idGen)
	f.transfer = usecase.NewTransferUseCase(f.txMgr, f.transfers, f.movements, f.outbox, f.directory, f.ledger, retrier, f.idGen)
	f.projector = usecase.NewProjectorUseCase(f.txMgr, f.movements, f.balances, f.directory)
	f.reconciliation = usecase.NewReconciliationUseCase(f.movements, f.balances, f.projector)

	return f
}

// receive posts a receipt line and fails the test on error.
func (f *fixture) receive(t *testing.T, warehouseID, productID string, qty int64, docID string) {
	t.Helper()
	_, err := f.receiving.PostReceipt(context.Background(), usecase.PostReceiptInput{
		DocumentID: docID,
		Actor:      "tester",
		Lines: []usecase.ReceiptLine{
			{WarehouseID: warehouseID, ProductID: productID, LineNumber: 1, Quantity: qty},
		},
	})
	if err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
}

// onHand reads the cached balance for a key.
func (f *fixture) onHand(t *testing.T, warehouseID, productID string) int64 {
	t.Helper()
	b, err := f.projector.GetBalance(context.Background(), warehouseID, productID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	return b.OnHand
}

func TestLedgerUseCase_Append(t *testing.T) {
	tests := []struct {
		name      string
		movement  *domain.Movement
		errorType error
	}{
		{
			name: "receipt committed",
			movement: &domain.Movement{
				WarehouseID:   "wh-a",
				ProductID:     "prod-1",
				QuantityDelta: 10,
				Kind:          domain.KindReceipt,
			},
		},
		{
			name: "unknown warehouse rejected",
			movement: &domain.Movement{
				WarehouseID:   "wh-missing",
				ProductID:     "prod-1",
				QuantityDelta: 10,
				Kind:          domain.KindReceipt,
			},
			errorType: domain.ErrUnknownWarehouse,
		},
		{
			name: "unknown product rejected",
			movement: &domain.Movement{
				WarehouseID:   "wh-a",
				ProductID:     "prod-missing",
				QuantityDelta: 10,
				Kind:          domain.KindReceipt,
			},
			errorType: domain.ErrUnknownProduct,
		},
		{
			name: "sign disagrees with kind",
			movement: &domain.Movement{
				WarehouseID:   "wh-a",
				ProductID:     "prod-1",
				QuantityDelta: -10,
				Kind:          domain.KindReceipt,
			},
			errorType: domain.ErrInvalidKind,
		},
		{
			name: "zero delta rejected",
			movement: &domain.Movement{
				WarehouseID:   "wh-a",
				ProductID:     "prod-1",
				QuantityDelta: 0,
				Kind:          domain.KindReceipt,
			},
			errorType: domain.ErrInvalidQuantity,
		},
		{
			name: "overdraw rejected on empty balance",
			movement: &domain.Movement{
				WarehouseID:   "wh-a",
				ProductID:     "prod-1",
				QuantityDelta: -1,
				Kind:          domain.KindAdjustmentDecrease,
			},
			errorType: domain.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			m, err := f.ledger.Append(context.Background(), tt.movement)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				if len(f.movements.All()) != 0 {
					t.Error("rejected movement must not reach the journal")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.ID == 0 {
				t.Error("committed movement must carry a store-assigned ID")
			}
			if got := f.onHand(t, tt.movement.WarehouseID, tt.movement.ProductID); got != tt.movement.QuantityDelta {
				t.Errorf("expected on-hand %d, got %d", tt.movement.QuantityDelta, got)
			}
		})
	}
}

func TestLedgerUseCase_AppendAssignsIncreasingIDs(t *testing.T) {
	f := newFixture()

	var lastID int64
	for i := 0; i < 5; i++ {
		m, err := f.ledger.Append(context.Background(), &domain.Movement{
			WarehouseID:   "wh-a",
			ProductID:     "prod-1",
			QuantityDelta: 1,
			Kind:          domain.KindReceipt,
		})
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
		if m.ID <= lastID {
			t.Fatalf("IDs must be strictly increasing: %d after %d", m.ID, lastID)
		}
		lastID = m.ID
	}
}

func TestLedgerUseCase_AppendRecordsOutboxEvent(t *testing.T) {
	f := newFixture()

	if _, err := f.ledger.Append(context.Background(), &domain.Movement{
		WarehouseID:   "wh-a",
		ProductID:     "prod-1",
		QuantityDelta: 10,
		Kind:          domain.KindReceipt,
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	events := f.outbox.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypeMovementAppended {
		t.Errorf("expected %s, got %s", domain.EventTypeMovementAppended, events[0].EventType)
	}
}

func TestLedgerUseCase_History(t *testing.T) {
	f := newFixture()

	f.receive(t, "wh-a", "prod-1", 10, "doc-1")
	f.receive(t, "wh-a", "prod-1", 20, "doc-2")
	f.receive(t, "wh-b", "prod-1", 30, "doc-3")

	history, err := f.ledger.History(context.Background(), usecase.HistoryInput{
		WarehouseID: "wh-a",
		ProductID:   "prod-1",
	})
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 movements for wh-a, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].ID <= history[i-1].ID {
			t.Error("history must be ordered by movement ID")
		}
	}

	// Resume from a watermark.
	tail, err := f.ledger.History(context.Background(), usecase.HistoryInput{
		WarehouseID: "wh-a",
		ProductID:   "prod-1",
		Since:       history[0].ID,
	})
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(tail) != 1 || tail[0].ID != history[1].ID {
		t.Error("history must be restartable from a watermark")
	}
}

func TestLedgerUseCase_GetMovement(t *testing.T) {
	f := newFixture()
	f.receive(t, "wh-a", "prod-1", 10, "doc-1")

	committed := f.movements.All()[0]

	m, err := f.ledger.GetMovement(context.Background(), committed.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.QuantityDelta != 10 {
		t.Errorf("expected delta 10, got %d", m.QuantityDelta)
	}

	if _, err := f.ledger.GetMovement(context.Background(), 9999); !errors.Is(err, domain.ErrMovementNotFound) {
		t.Errorf("expected ErrMovementNotFound, got %v", err)
	}
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/stockledger/internal/domain"
)

// TransferUseCase coordinates two-leg warehouse transfers. Each leg is an
// ordinary journal movement committed in the same transaction as the
// state transition, so the transfer record and the journal can never
// disagree about which legs happened.
type TransferUseCase struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	directory    Directory
	ledger       *LedgerUseCase
	retrier      Retrier
	idGen        IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	transferRepo TransferRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	directory Directory,
	ledger *LedgerUseCase,
	retrier Retrier,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		transferRepo: transferRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		directory:    directory,
		ledger:       ledger,
		retrier:      retrier,
		idGen:        idGen,
	}
}

// RequestTransferInput represents a new transfer request.
type RequestTransferInput struct {
	SourceWarehouseID string
	DestWarehouseID   string
	ProductID         string
	Actor             string
	Quantity          int64
}

// Request records the intent to move stock. No movement is appended and
// no stock is earmarked: availability is checked at dispatch time, when
// stock actually leaves the source.
func (uc *TransferUseCase) Request(ctx context.Context, input RequestTransferInput) (*domain.Transfer, error) {
	now := time.Now().UTC()

	transfer := &domain.Transfer{
		ID:                uc.idGen.Generate(),
		SourceWarehouseID: input.SourceWarehouseID,
		DestWarehouseID:   input.DestWarehouseID,
		ProductID:         input.ProductID,
		Quantity:          input.Quantity,
		State:             domain.TransferRequested,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	if err := uc.checkDirectory(ctx, transfer); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.transferRepo.Create(txCtx, tx, transfer); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferRequested,
		Payload: map[string]any{
			"transfer_id":         transfer.ID,
			"source_warehouse_id": transfer.SourceWarehouseID,
			"dest_warehouse_id":   transfer.DestWarehouseID,
			"product_id":          transfer.ProductID,
			"state":               string(domain.TransferRequested),
			"quantity":            transfer.Quantity,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return transfer, nil
}

func (uc *TransferUseCase) checkDirectory(ctx context.Context, t *domain.Transfer) error {
	for _, warehouseID := range []string{t.SourceWarehouseID, t.DestWarehouseID} {
		ok, err := uc.directory.WarehouseExists(ctx, warehouseID)
		if err != nil {
			return fmt.Errorf("directory lookup: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownWarehouse, warehouseID)
		}
	}

	ok, err := uc.directory.ProductExists(ctx, t.ProductID)
	if err != nil {
		return fmt.Errorf("directory lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownProduct, t.ProductID)
	}

	return nil
}

// Dispatch commits the outbound leg at the source warehouse and moves the
// transfer to Dispatched. On insufficient stock nothing is written and
// the transfer stays Requested, so the caller can retry after a receipt.
func (uc *TransferUseCase) Dispatch(ctx context.Context, transferID, actor string) (*domain.Transfer, error) {
	return uc.transition(ctx, transferID, domain.TransferDispatched, func(ctx context.Context, tx Transaction, t *domain.Transfer) error {
		leg := &domain.Movement{
			WarehouseID:    t.SourceWarehouseID,
			ProductID:      t.ProductID,
			QuantityDelta:  -t.Quantity,
			Kind:           domain.KindTransferOut,
			CorrelationID:  t.ID,
			IdempotencyKey: t.ID + ":out",
			Actor:          actor,
		}

		_, err := uc.ledger.AppendTx(ctx, tx, leg)

		return err
	})
}

// Receive commits the inbound leg at the destination and moves the
// transfer to Received. Before writing it verifies the outbound leg is in
// the journal and no inbound leg exists yet; either way round, a broken
// pairing is an integrity fault, not a user error.
func (uc *TransferUseCase) Receive(ctx context.Context, transferID, actor string) (*domain.Transfer, error) {
	return uc.transition(ctx, transferID, domain.TransferReceived, func(ctx context.Context, tx Transaction, t *domain.Transfer) error {
		if err := uc.checkLegs(ctx, t); err != nil {
			return err
		}

		leg := &domain.Movement{
			WarehouseID:    t.DestWarehouseID,
			ProductID:      t.ProductID,
			QuantityDelta:  t.Quantity,
			Kind:           domain.KindTransferIn,
			CorrelationID:  t.ID,
			IdempotencyKey: t.ID + ":in",
			Actor:          actor,
		}

		if _, err := uc.ledger.AppendTx(ctx, tx, leg); err != nil {
			// The stock already left the source. A destination that
			// fails validation now strands the quantity in transit,
			// which only reconciliation can resolve.
			if domain.IsValidation(err) {
				return fmt.Errorf("%w: receive leg rejected for transfer %s: %v", domain.ErrIntegrity, t.ID, err)
			}
			return err
		}

		return nil
	})
}

// Cancel aborts a transfer. Cancelling a Requested transfer is a pure
// state change. Cancelling a Dispatched transfer returns the in-transit
// quantity to the source with a compensating adjustment carrying the
// transfer ID, so the whole episode stays correlated in the journal.
func (uc *TransferUseCase) Cancel(ctx context.Context, transferID, actor, reason string) (*domain.Transfer, error) {
	return uc.transition(ctx, transferID, domain.TransferCancelled, func(ctx context.Context, tx Transaction, t *domain.Transfer) error {
		if t.State != domain.TransferDispatched {
			return nil
		}

		note := reason
		if note == "" {
			note = fmt.Sprintf("transfer %s cancelled after dispatch", t.ID)
		}

		compensation := &domain.Movement{
			WarehouseID:    t.SourceWarehouseID,
			ProductID:      t.ProductID,
			QuantityDelta:  t.Quantity,
			Kind:           domain.KindAdjustmentIncrease,
			CorrelationID:  t.ID,
			IdempotencyKey: t.ID + ":cancel",
			Actor:          actor,
			Note:           note,
		}

		_, err := uc.ledger.AppendTx(ctx, tx, compensation)

		return err
	})
}

// transition runs one state change atomically: lock the transfer row,
// check the transition table, run the leg callback, persist the new
// state and record the outbox event, all in one transaction.
func (uc *TransferUseCase) transition(
	ctx context.Context,
	transferID string,
	to domain.TransferState,
	leg func(ctx context.Context, tx Transaction, t *domain.Transfer) error,
) (*domain.Transfer, error) {
	var result *domain.Transfer

	op := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// Lock order is always transfer row first, then balance row
		// inside the leg, so concurrent transitions cannot deadlock.
		t, err := uc.transferRepo.GetByIDForUpdate(txCtx, tx, transferID)
		if err != nil {
			return err
		}

		if !domain.CanTransition(t.State, to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransferState, t.State, to)
		}

		if err := leg(txCtx, tx, t); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.transferRepo.UpdateState(txCtx, tx, t.ID, to, now); err != nil {
			return err
		}

		if err := uc.recordStateEvent(txCtx, tx, t, to); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		t.State = to
		t.UpdatedAt = now
		switch to {
		case domain.TransferDispatched:
			t.DispatchedAt = &now
		case domain.TransferReceived:
			t.ReceivedAt = &now
		case domain.TransferCancelled:
			t.CancelledAt = &now
		}
		result = t

		return nil
	}

	if err := uc.retrier.Retry(ctx, op); err != nil {
		return nil, err
	}

	return result, nil
}

// checkLegs verifies the journal agrees with the transfer record before
// the inbound leg is written.
func (uc *TransferUseCase) checkLegs(ctx context.Context, t *domain.Transfer) error {
	legs, err := uc.movementRepo.GetByCorrelation(ctx, t.ID)
	if err != nil {
		return err
	}

	var haveOut, haveIn bool
	for _, m := range legs {
		switch m.Kind {
		case domain.KindTransferOut:
			haveOut = true
		case domain.KindTransferIn:
			haveIn = true
		}
	}

	if !haveOut {
		return fmt.Errorf("%w: transfer %s", domain.ErrOrphanTransferLeg, t.ID)
	}

	if haveIn {
		return fmt.Errorf("%w: transfer %s already has an inbound leg", domain.ErrIntegrity, t.ID)
	}

	return nil
}

func (uc *TransferUseCase) recordStateEvent(ctx context.Context, tx Transaction, t *domain.Transfer, to domain.TransferState) error {
	eventType := ""
	switch to {
	case domain.TransferDispatched:
		eventType = domain.EventTypeTransferDispatched
	case domain.TransferReceived:
		eventType = domain.EventTypeTransferReceived
	case domain.TransferCancelled:
		eventType = domain.EventTypeTransferCancelled
	default:
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   t.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     eventType,
		Payload: map[string]any{
			"transfer_id":         t.ID,
			"source_warehouse_id": t.SourceWarehouseID,
			"dest_warehouse_id":   t.DestWarehouseID,
			"product_id":          t.ProductID,
			"state":               string(to),
			"quantity":            t.Quantity,
		},
		CreatedAt: time.Now().UTC(),
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

// Get retrieves a transfer by ID.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// List returns transfers, optionally filtered to one warehouse (as
// either source or destination).
func (uc *TransferUseCase) List(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Transfer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	if warehouseID != "" {
		return uc.transferRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
	}

	return uc.transferRepo.List(ctx, limit, offset)
}

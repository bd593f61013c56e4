package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/stockledger/internal/domain"
)

// LedgerUseCase owns the single write path into the stock journal. Every
// committed movement goes through AppendTx: the balance row for the
// (warehouse, product) key is locked, the candidate is validated against
// the locked balance, the movement is appended with its store-assigned
// ID, and the projection is updated, all inside one transaction. Appends
// to different keys proceed in parallel; there is no global lock.
type LedgerUseCase struct {
	txManager    TransactionManager
	movementRepo MovementRepository
	balanceRepo  BalanceRepository
	outboxRepo   OutboxRepository
	validator    *Validator
	retrier      Retrier
	idGen        IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	movementRepo MovementRepository,
	balanceRepo BalanceRepository,
	outboxRepo OutboxRepository,
	validator *Validator,
	retrier Retrier,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		movementRepo: movementRepo,
		balanceRepo:  balanceRepo,
		outboxRepo:   outboxRepo,
		validator:    validator,
		retrier:      retrier,
		idGen:        idGen,
	}
}

// Append validates and commits one candidate movement in its own
// transaction, retrying on transient storage conflicts. Rejections and
// duplicate idempotency keys are returned as-is and never retried.
func (uc *LedgerUseCase) Append(ctx context.Context, candidate *domain.Movement) (*domain.Movement, error) {
	var committed *domain.Movement

	op := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		m, err := uc.AppendTx(txCtx, tx, candidate)
		if err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		committed = m

		return nil
	}

	if err := uc.retrier.Retry(ctx, op); err != nil {
		return nil, err
	}

	return committed, nil
}

// AppendTx commits one candidate movement inside the caller's
// transaction. The caller is responsible for commit and rollback; the
// transfer coordinator uses this to keep a state transition and its leg
// movement atomic.
func (uc *LedgerUseCase) AppendTx(ctx context.Context, tx Transaction, candidate *domain.Movement) (*domain.Movement, error) {
	if err := candidate.ValidateSign(); err != nil {
		return nil, err
	}

	// References are checked before the lock: the zero row GetForUpdate
	// inserts carries foreign keys to the directory tables, so an
	// unknown key has to be rejected before it reaches the store.
	if err := uc.validator.CheckReferences(ctx, candidate); err != nil {
		return nil, err
	}

	balance, err := uc.balanceRepo.GetForUpdate(ctx, tx, candidate.WarehouseID, candidate.ProductID)
	if err != nil {
		return nil, err
	}

	// The lock is held from here to commit, so the stock check cannot
	// race with another append on the same key.
	if err := balance.ValidateOutbound(candidate.QuantityDelta); err != nil {
		return nil, err
	}

	if candidate.OccurredAt.IsZero() {
		candidate.OccurredAt = time.Now().UTC()
	}

	m, err := uc.movementRepo.Append(ctx, tx, candidate)
	if err != nil {
		return nil, err
	}

	applied, err := uc.balanceRepo.Apply(ctx, tx, m, balance.Version)
	if err != nil {
		return nil, err
	}

	if !applied {
		// The watermark already covers this ID even though we hold the
		// key lock. That can only mean journal and projection disagree.
		return nil, fmt.Errorf("%w: movement %d skipped by projection", domain.ErrProjectionDiverged, m.ID)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   fmt.Sprintf("%d", m.ID),
		AggregateType: domain.AggregateTypeMovement,
		EventType:     domain.EventTypeMovementAppended,
		Payload: map[string]any{
			"movement_id":    m.ID,
			"warehouse_id":   m.WarehouseID,
			"product_id":     m.ProductID,
			"quantity_delta": m.QuantityDelta,
			"kind":           string(m.Kind),
			"correlation_id": m.CorrelationID,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	return m, nil
}

// GetMovement retrieves a single journal entry.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id int64) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// HistoryInput represents input for reading a key's journal slice.
type HistoryInput struct {
	WarehouseID string
	ProductID   string
	Since       int64
	Limit       int
}

// History returns movements for one key with ID above the watermark,
// ordered by ID.
func (uc *LedgerUseCase) History(ctx context.Context, input HistoryInput) ([]*domain.Movement, error) {
	limit, _ := domain.ValidatePagination(input.Limit, 0)

	return uc.movementRepo.ReadKeySince(ctx, input.WarehouseID, input.ProductID, input.Since, limit)
}

// MovementsByCorrelation returns all movements tied to a correlation ID,
// e.g. both legs of a transfer or every line of a receipt document.
func (uc *LedgerUseCase) MovementsByCorrelation(ctx context.Context, correlationID string) ([]*domain.Movement, error) {
	return uc.movementRepo.GetByCorrelation(ctx, correlationID)
}

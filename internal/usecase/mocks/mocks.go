package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

func balanceKey(warehouseID, productID string) string {
	return warehouseID + "|" + productID
}

// MockMovementRepository is a mock implementation of MovementRepository.
// The default behavior keeps an in-memory journal with store-assigned
// sequential IDs and enforces idempotency key uniqueness, so use case
// tests exercise the real append semantics.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements []*domain.Movement
	idemKeys  map[string]int64
	nextID    int64

	AppendFunc                   func(ctx context.Context, tx usecase.Transaction, m *domain.Movement) (*domain.Movement, error)
	GetByIDFunc                  func(ctx context.Context, id int64) (*domain.Movement, error)
	ReadSinceFunc                func(ctx context.Context, watermark int64, limit int) ([]*domain.Movement, error)
	ReadKeySinceFunc             func(ctx context.Context, warehouseID, productID string, watermark int64, limit int) ([]*domain.Movement, error)
	SumKeyFunc                   func(ctx context.Context, warehouseID, productID string) (int64, int64, error)
	SumKeyAtFunc                 func(ctx context.Context, warehouseID, productID string, watermark int64) (int64, error)
	GetByCorrelationFunc         func(ctx context.Context, correlationID string) ([]*domain.Movement, error)
	CountUnpairedTransferInsFunc func(ctx context.Context) (int64, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		idemKeys: make(map[string]int64),
	}
}

func (m *MockMovementRepository) Append(ctx context.Context, tx usecase.Transaction, candidate *domain.Movement) (*domain.Movement, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, candidate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if candidate.IdempotencyKey != "" {
		if _, ok := m.idemKeys[candidate.IdempotencyKey]; ok {
			return nil, domain.ErrDuplicateReference
		}
	}
	m.nextID++
	committed := *candidate
	committed.ID = m.nextID
	if candidate.IdempotencyKey != "" {
		m.idemKeys[candidate.IdempotencyKey] = committed.ID
	}
	m.movements = append(m.movements, &committed)
	return &committed, nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mv := range m.movements {
		if mv.ID == id {
			return mv, nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) ReadSince(ctx context.Context, watermark int64, limit int) ([]*domain.Movement, error) {
	if m.ReadSinceFunc != nil {
		return m.ReadSinceFunc(ctx, watermark, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Movement
	for _, mv := range m.movements {
		if mv.ID > watermark {
			result = append(result, mv)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *MockMovementRepository) ReadKeySince(ctx context.Context, warehouseID, productID string, watermark int64, limit int) ([]*domain.Movement, error) {
	if m.ReadKeySinceFunc != nil {
		return m.ReadKeySinceFunc(ctx, warehouseID, productID, watermark, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Movement
	for _, mv := range m.movements {
		if mv.ID > watermark && mv.WarehouseID == warehouseID && mv.ProductID == productID {
			result = append(result, mv)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *MockMovementRepository) SumKey(ctx context.Context, warehouseID, productID string) (int64, int64, error) {
	if m.SumKeyFunc != nil {
		return m.SumKeyFunc(ctx, warehouseID, productID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total, lastID int64
	for _, mv := range m.movements {
		if mv.WarehouseID == warehouseID && mv.ProductID == productID {
			total += mv.QuantityDelta
			lastID = mv.ID
		}
	}
	return total, lastID, nil
}

func (m *MockMovementRepository) SumKeyAt(ctx context.Context, warehouseID, productID string, watermark int64) (int64, error) {
	if m.SumKeyAtFunc != nil {
		return m.SumKeyAtFunc(ctx, warehouseID, productID, watermark)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, mv := range m.movements {
		if mv.ID <= watermark && mv.WarehouseID == warehouseID && mv.ProductID == productID {
			total += mv.QuantityDelta
		}
	}
	return total, nil
}

func (m *MockMovementRepository) GetByCorrelation(ctx context.Context, correlationID string) ([]*domain.Movement, error) {
	if m.GetByCorrelationFunc != nil {
		return m.GetByCorrelationFunc(ctx, correlationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Movement
	for _, mv := range m.movements {
		if mv.CorrelationID == correlationID {
			result = append(result, mv)
		}
	}
	return result, nil
}

func (m *MockMovementRepository) CountUnpairedTransferIns(ctx context.Context) (int64, error) {
	if m.CountUnpairedTransferInsFunc != nil {
		return m.CountUnpairedTransferInsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	outs := make(map[string]bool)
	for _, mv := range m.movements {
		if mv.Kind == domain.KindTransferOut {
			outs[mv.CorrelationID] = true
		}
	}
	var count int64
	for _, mv := range m.movements {
		if mv.Kind == domain.KindTransferIn && !outs[mv.CorrelationID] {
			count++
		}
	}
	return count, nil
}

// All returns a copy of the journal for assertions.
func (m *MockMovementRepository) All() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Movement, len(m.movements))
	copy(result, m.movements)
	return result
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
// Apply enforces the watermark and version guards so concurrency tests
// see the same skip/stale behavior as the real store.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.Balance

	GetFunc          func(ctx context.Context, warehouseID, productID string) (*domain.Balance, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, warehouseID, productID string) (*domain.Balance, error)
	ApplyFunc        func(ctx context.Context, tx usecase.Transaction, m *domain.Movement, expectedVersion int64) (bool, error)
	ReplaceFunc      func(ctx context.Context, tx usecase.Transaction, b *domain.Balance) error
	ListFunc         func(ctx context.Context, limit, offset int) ([]*domain.Balance, error)
	ListNonZeroFunc  func(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Balance, error)
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[string]*domain.Balance),
	}
}

// Seed installs a balance row directly, for test setup.
func (m *MockBalanceRepository) Seed(b *domain.Balance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balanceKey(b.WarehouseID, b.ProductID)] = b
}

func (m *MockBalanceRepository) Get(ctx context.Context, warehouseID, productID string) (*domain.Balance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, warehouseID, productID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[balanceKey(warehouseID, productID)]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, warehouseID, productID string) (*domain.Balance, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, warehouseID, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(warehouseID, productID)
	if b, ok := m.balances[key]; ok {
		copied := *b
		return &copied, nil
	}
	b := &domain.Balance{
		WarehouseID: warehouseID,
		ProductID:   productID,
		UpdatedAt:   time.Now().UTC(),
	}
	m.balances[key] = b
	copied := *b
	return &copied, nil
}

func (m *MockBalanceRepository) Apply(ctx context.Context, tx usecase.Transaction, mv *domain.Movement, expectedVersion int64) (bool, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, tx, mv, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(mv.WarehouseID, mv.ProductID)
	b, ok := m.balances[key]
	if !ok {
		return false, domain.ErrStaleBalance
	}
	if mv.ID <= b.LastMovementID {
		return false, nil
	}
	if b.Version != expectedVersion {
		return false, domain.ErrStaleBalance
	}
	b.OnHand += mv.QuantityDelta
	b.LastMovementID = mv.ID
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MockBalanceRepository) Replace(ctx context.Context, tx usecase.Transaction, b *domain.Balance) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, tx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(b.WarehouseID, b.ProductID)
	replaced := *b
	if prev, ok := m.balances[key]; ok {
		replaced.Version = prev.Version + 1
	}
	replaced.UpdatedAt = time.Now().UTC()
	m.balances[key] = &replaced
	return nil
}

func (m *MockBalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.Balance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var balances []*domain.Balance
	for _, b := range m.balances {
		copied := *b
		balances = append(balances, &copied)
	}
	return paginateBalances(balances, limit, offset), nil
}

func (m *MockBalanceRepository) ListNonZero(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Balance, error) {
	if m.ListNonZeroFunc != nil {
		return m.ListNonZeroFunc(ctx, warehouseID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var balances []*domain.Balance
	for _, b := range m.balances {
		if b.OnHand == 0 {
			continue
		}
		if warehouseID != "" && b.WarehouseID != warehouseID {
			continue
		}
		copied := *b
		balances = append(balances, &copied)
	}
	return paginateBalances(balances, limit, offset), nil
}

// paginateBalances sorts by key and pages, mirroring the store's
// ORDER BY warehouse_id, product_id.
func paginateBalances(balances []*domain.Balance, limit, offset int) []*domain.Balance {
	sort.Slice(balances, func(i, j int) bool {
		return balanceKey(balances[i].WarehouseID, balances[i].ProductID) <
			balanceKey(balances[j].WarehouseID, balances[j].ProductID)
	})
	if offset >= len(balances) {
		return nil
	}
	balances = balances[offset:]
	if len(balances) > limit {
		balances = balances[:limit]
	}
	return balances
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error)
	UpdateStateFunc      func(ctx context.Context, tx usecase.Transaction, id string, state domain.TransferState, at time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Transfer, error)
	ListByWarehouseFunc  func(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *transfer
	m.transfers[transfer.ID] = &copied
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransferRepository) UpdateState(ctx context.Context, tx usecase.Transaction, id string, state domain.TransferState, at time.Time) error {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, tx, id, state, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	t.State = state
	t.UpdatedAt = at
	switch state {
	case domain.TransferDispatched:
		t.DispatchedAt = &at
	case domain.TransferReceived:
		t.ReceivedAt = &at
	case domain.TransferCancelled:
		t.CancelledAt = &at
	}
	return nil
}

func (m *MockTransferRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		copied := *t
		transfers = append(transfers, &copied)
	}
	return transfers, nil
}

func (m *MockTransferRepository) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByWarehouseFunc != nil {
		return m.ListByWarehouseFunc(ctx, warehouseID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if t.SourceWarehouseID == warehouseID || t.DestWarehouseID == warehouseID {
			copied := *t
			transfers = append(transfers, &copied)
		}
	}
	return transfers, nil
}

// MockDirectory is a mock implementation of Directory.
type MockDirectory struct {
	mu         sync.RWMutex
	warehouses map[string]*domain.Warehouse
	products   map[string]*domain.Product

	WarehouseExistsFunc func(ctx context.Context, id string) (bool, error)
	ProductExistsFunc   func(ctx context.Context, id string) (bool, error)
	LookupWarehouseFunc func(ctx context.Context, id string) (*domain.Warehouse, error)
	LookupProductFunc   func(ctx context.Context, id string) (*domain.Product, error)
	ListWarehousesFunc  func(ctx context.Context) ([]*domain.Warehouse, error)
}

func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		warehouses: make(map[string]*domain.Warehouse),
		products:   make(map[string]*domain.Product),
	}
}

// AddWarehouse registers a warehouse for test setup.
func (m *MockDirectory) AddWarehouse(w *domain.Warehouse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warehouses[w.ID] = w
}

// AddProduct registers a product for test setup.
func (m *MockDirectory) AddProduct(p *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *MockDirectory) WarehouseExists(ctx context.Context, id string) (bool, error) {
	if m.WarehouseExistsFunc != nil {
		return m.WarehouseExistsFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.warehouses[id]
	return ok, nil
}

func (m *MockDirectory) ProductExists(ctx context.Context, id string) (bool, error) {
	if m.ProductExistsFunc != nil {
		return m.ProductExistsFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.products[id]
	return ok, nil
}

func (m *MockDirectory) LookupWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	if m.LookupWarehouseFunc != nil {
		return m.LookupWarehouseFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.warehouses[id]; ok {
		return w, nil
	}
	return nil, domain.ErrUnknownWarehouse
}

func (m *MockDirectory) LookupProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.LookupProductFunc != nil {
		return m.LookupProductFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrUnknownProduct
}

func (m *MockDirectory) ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	if m.ListWarehousesFunc != nil {
		return m.ListWarehousesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var warehouses []*domain.Warehouse
	for _, w := range m.warehouses {
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			result = append(result, e)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded events for assertions.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.OutboxEvent, len(m.events))
	copy(result, m.events)
	return result
}

// MockTransactionManager is a mock implementation of TransactionManager.
// It serializes transactions with a mutex held from Begin to
// Commit/Rollback, mirroring the row-lock serialization the real store
// provides, so concurrent use case tests are deterministic.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	tx := &MockTransaction{}
	tx.release = func() { m.mu.Unlock() }
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	once    sync.Once
	release func()

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.release != nil {
		m.once.Do(m.release)
	}
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.release != nil {
		m.once.Do(m.release)
	}
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a passthrough Retrier that runs the operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

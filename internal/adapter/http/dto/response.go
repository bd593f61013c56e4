package dto

import (
	"time"

	"github.com/iho/stockledger/internal/domain"
	"github.com/iho/stockledger/internal/usecase"
)

// MovementResponse represents a journal entry in API responses.
type MovementResponse struct {
	ID             int64     `json:"id"`
	OccurredAt     time.Time `json:"occurred_at"`
	WarehouseID    string    `json:"warehouse_id"`
	ProductID      string    `json:"product_id"`
	QuantityDelta  int64     `json:"quantity_delta"`
	Kind           string    `json:"kind"`
	CorrelationID  string    `json:"correlation_id,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	Actor          string    `json:"actor,omitempty"`
	Note           string    `json:"note,omitempty"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:             m.ID,
		OccurredAt:     m.OccurredAt,
		WarehouseID:    m.WarehouseID,
		ProductID:      m.ProductID,
		QuantityDelta:  m.QuantityDelta,
		Kind:           string(m.Kind),
		CorrelationID:  m.CorrelationID,
		IdempotencyKey: m.IdempotencyKey,
		Actor:          m.Actor,
		Note:           m.Note,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// HistoryEntryResponse is one movement of a key's history together with
// the on-hand quantity that resulted from it.
type HistoryEntryResponse struct {
	MovementResponse
	OnHandAfter int64 `json:"on_hand_after"`
}

// HistoryFromUseCase converts history entries to responses.
func HistoryFromUseCase(entries []usecase.HistoryEntry) []*HistoryEntryResponse {
	result := make([]*HistoryEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &HistoryEntryResponse{
			MovementResponse: *MovementFromDomain(e.Movement),
			OnHandAfter:      e.OnHandAfter,
		}
	}
	return result
}

// BalanceResponse represents a projected balance in API responses.
type BalanceResponse struct {
	WarehouseID    string    `json:"warehouse_id"`
	ProductID      string    `json:"product_id"`
	OnHand         int64     `json:"on_hand"`
	LastMovementID int64     `json:"last_movement_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		WarehouseID:    b.WarehouseID,
		ProductID:      b.ProductID,
		OnHand:         b.OnHand,
		LastMovementID: b.LastMovementID,
		UpdatedAt:      b.UpdatedAt,
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.Balance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID                string     `json:"id"`
	SourceWarehouseID string     `json:"source_warehouse_id"`
	DestWarehouseID   string     `json:"dest_warehouse_id"`
	ProductID         string     `json:"product_id"`
	Quantity          int64      `json:"quantity"`
	State             string     `json:"state"`
	InTransit         int64      `json:"in_transit"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DispatchedAt      *time.Time `json:"dispatched_at,omitempty"`
	ReceivedAt        *time.Time `json:"received_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:                t.ID,
		SourceWarehouseID: t.SourceWarehouseID,
		DestWarehouseID:   t.DestWarehouseID,
		ProductID:         t.ProductID,
		Quantity:          t.Quantity,
		State:             string(t.State),
		InTransit:         t.InTransit(),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		DispatchedAt:      t.DispatchedAt,
		ReceivedAt:        t.ReceivedAt,
		CancelledAt:       t.CancelledAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Address  string `json:"address,omitempty"`
}

// WarehouseFromDomain converts a domain warehouse to a response.
func WarehouseFromDomain(w *domain.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:       w.ID,
		Name:     w.Name,
		Location: w.Location,
		Address:  w.Address,
	}
}

// WarehousesFromDomain converts domain warehouses to responses.
func WarehousesFromDomain(warehouses []*domain.Warehouse) []*WarehouseResponse {
	result := make([]*WarehouseResponse, len(warehouses))
	for i, w := range warehouses {
		result[i] = WarehouseFromDomain(w)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

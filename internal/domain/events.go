package domain

import "time"

// Event types
const (
	EventTypeMovementAppended   = "movement.appended"
	EventTypeTransferRequested  = "transfer.requested"
	EventTypeTransferDispatched = "transfer.dispatched"
	EventTypeTransferReceived   = "transfer.received"
	EventTypeTransferCancelled  = "transfer.cancelled"
)

// Aggregate types
const (
	AggregateTypeMovement = "movement"
	AggregateTypeTransfer = "transfer"
)

// OutboxEvent represents an event recorded transactionally with the state
// change it describes, to be published asynchronously.
type OutboxEvent struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	Published     bool
}

// MovementAppendedEvent payload
type MovementAppendedEvent struct {
	WarehouseID   string `json:"warehouse_id"`
	ProductID     string `json:"product_id"`
	Kind          string `json:"kind"`
	CorrelationID string `json:"correlation_id,omitempty"`
	MovementID    int64  `json:"movement_id"`
	QuantityDelta int64  `json:"quantity_delta"`
}

// TransferStateChangedEvent payload
type TransferStateChangedEvent struct {
	TransferID        string `json:"transfer_id"`
	SourceWarehouseID string `json:"source_warehouse_id"`
	DestWarehouseID   string `json:"dest_warehouse_id"`
	ProductID         string `json:"product_id"`
	State             string `json:"state"`
	Quantity          int64  `json:"quantity"`
}

package domain

import "time"

// TransferState is the explicit lifecycle state of a two-leg transfer.
type TransferState string

const (
	TransferRequested  TransferState = "requested"
	TransferDispatched TransferState = "dispatched"
	TransferReceived   TransferState = "received"
	TransferCancelled  TransferState = "cancelled"
)

// transferTransitions is the allowed-transition table. Received and
// Cancelled are terminal; a reversal of a received transfer is a new,
// opposite transfer.
var transferTransitions = map[TransferState][]TransferState{
	TransferRequested:  {TransferDispatched, TransferCancelled},
	TransferDispatched: {TransferReceived, TransferCancelled},
}

// CanTransition reports whether from -> to is an allowed state change.
func CanTransition(from, to TransferState) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transfer is a composite movement of stock between two warehouses. While
// Dispatched, the quantity has left the source balance but not yet entered
// the destination balance: in-transit is a first-class state, not an
// error. The two legs are TransferOut/TransferIn movements carrying the
// transfer ID as their correlation ID.
type Transfer struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DispatchedAt      *time.Time
	ReceivedAt        *time.Time
	CancelledAt       *time.Time
	ID                string
	SourceWarehouseID string
	DestWarehouseID   string
	ProductID         string
	State             TransferState
	Quantity          int64
}

// Validate checks the request-time rules of a transfer.
func (t *Transfer) Validate() error {
	if t.SourceWarehouseID == t.DestWarehouseID {
		return ErrSameWarehouse
	}

	if t.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	return nil
}

// InTransit returns the quantity currently between warehouses.
func (t *Transfer) InTransit() int64 {
	if t.State == TransferDispatched {
		return t.Quantity
	}
	return 0
}

package domain

import "time"

// MovementKind classifies why stock changed. The set is closed so the
// sign rule can be checked exhaustively.
type MovementKind string

const (
	KindReceipt            MovementKind = "receipt"
	KindTransferOut        MovementKind = "transfer_out"
	KindTransferIn         MovementKind = "transfer_in"
	KindAdjustmentIncrease MovementKind = "adjustment_increase"
	KindAdjustmentDecrease MovementKind = "adjustment_decrease"
)

// Valid reports whether k is a known movement kind.
func (k MovementKind) Valid() bool {
	switch k {
	case KindReceipt, KindTransferOut, KindTransferIn,
		KindAdjustmentIncrease, KindAdjustmentDecrease:
		return true
	}
	return false
}

// Inbound reports whether the kind must carry a positive quantity delta.
func (k MovementKind) Inbound() bool {
	switch k {
	case KindReceipt, KindTransferIn, KindAdjustmentIncrease:
		return true
	}
	return false
}

// Movement is one immutable fact in the stock journal: a signed quantity
// change against a (warehouse, product) pair. The ID is assigned by the
// store at commit time and defines the canonical application order; it is
// never set on a candidate. Committed movements are never edited or
// deleted, corrections are posted as new offsetting movements.
type Movement struct {
	OccurredAt     time.Time
	WarehouseID    string
	ProductID      string
	Kind           MovementKind
	CorrelationID  string
	IdempotencyKey string
	Actor          string
	Note           string
	ID             int64
	QuantityDelta  int64
}

// ValidateSign checks that the quantity delta is non-zero and that its
// sign agrees with the movement kind.
func (m *Movement) ValidateSign() error {
	if !m.Kind.Valid() {
		return ErrInvalidKind
	}

	if m.QuantityDelta == 0 {
		return ErrInvalidQuantity
	}

	if m.Kind.Inbound() != (m.QuantityDelta > 0) {
		return ErrInvalidKind
	}

	return nil
}

package domain

import "time"

// Balance is the cached on-hand projection for one (warehouse, product)
// key. It is derived state: the movement journal is authoritative and the
// balance can always be rebuilt from it. LastMovementID is the projection
// watermark; a movement with ID at or below it has already been applied.
type Balance struct {
	UpdatedAt      time.Time
	WarehouseID    string
	ProductID      string
	OnHand         int64
	LastMovementID int64
	Version        int64
}

// ValidateOutbound checks whether applying a negative delta would drive
// the on-hand quantity below zero.
func (b *Balance) ValidateOutbound(delta int64) error {
	if delta < 0 && b.OnHand+delta < 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Apply folds a committed movement into the balance. It returns false
// without mutating when the movement is at or behind the watermark, so
// replays never double-count.
func (b *Balance) Apply(m *Movement) bool {
	if m.ID <= b.LastMovementID {
		return false
	}

	b.OnHand += m.QuantityDelta
	b.LastMovementID = m.ID
	b.Version++

	return true
}

package domain

import (
	"errors"
	"fmt"
)

// The error taxonomy callers dispatch on. Validation errors mean the
// request was invalid and must not be retried unchanged. Conflict errors
// are safe to retry after re-reading state. Integrity errors signal a
// divergence between journal and projection (or a broken transfer leg)
// and require operator reconciliation, not a retry.
var (
	// Validation
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidKind          = errors.New("movement kind inconsistent with quantity sign")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrUnknownWarehouse     = errors.New("warehouse not found")
	ErrUnknownProduct       = errors.New("product not found")
	ErrSameWarehouse        = errors.New("cannot transfer to same warehouse")
	ErrNoteRequired         = errors.New("adjustment requires a justification note")
	ErrInvalidTransferState = errors.New("transfer state does not permit this operation")
	ErrTransferNotFound     = errors.New("transfer not found")
	ErrMovementNotFound     = errors.New("movement not found")

	// Conflict
	ErrDuplicateReference = errors.New("idempotency key already committed")
	ErrStaleBalance       = errors.New("balance version changed concurrently")

	// Integrity
	ErrIntegrity          = errors.New("ledger integrity violation")
	ErrOrphanTransferLeg  = fmt.Errorf("%w: transfer leg without a dispatched record", ErrIntegrity)
	ErrProjectionDiverged = fmt.Errorf("%w: cached balance diverged from journal", ErrIntegrity)
)

var validationErrors = []error{
	ErrInsufficientStock,
	ErrInvalidKind,
	ErrInvalidQuantity,
	ErrUnknownWarehouse,
	ErrUnknownProduct,
	ErrSameWarehouse,
	ErrNoteRequired,
	ErrInvalidTransferState,
	ErrTransferNotFound,
	ErrMovementNotFound,
}

// IsValidation reports whether err means the request itself was invalid.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is recoverable by retrying against
// refreshed state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateReference) || errors.Is(err, ErrStaleBalance)
}

// IsFatal reports whether err indicates a data-integrity break.
func IsFatal(err error) bool {
	return errors.Is(err, ErrIntegrity)
}
